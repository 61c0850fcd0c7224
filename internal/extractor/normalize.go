package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decompõe em NFD e remove as marcas diacríticas,
// "limão" -> "limao"
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize põe o texto em minúsculas, remove acentos e apara espaços
func Normalize(text string) string {
	text = strings.ToLower(text)
	if folded, _, err := transform.String(foldTransformer, text); err == nil {
		text = folded
	}
	return strings.TrimSpace(text)
}
