package extractor

import (
	"regexp"
	"strings"
)

var (
	digitThenLetterRe = regexp.MustCompile(`(\d+)([a-zA-Z])`)
	letterThenDigitRe = regexp.MustCompile(`([a-zA-Z])(\d+)`)
	punctuationRe     = regexp.MustCompile(`[,.;+\-/()\[\]:]`)
	whitespaceRe      = regexp.MustCompile(`\s+`)
)

// separateNumberWords insere espaços entre dígitos e letras coladas
// ("2mangas" -> "2 mangas") e isola numerais por extenso embutidos
// em outras palavras.
func separateNumberWords(text string) string {
	text = digitThenLetterRe.ReplaceAllString(text, "$1 $2")
	text = letterThenDigitRe.ReplaceAllString(text, "$1 $2")
	for _, teen := range protectedTeens {
		text = strings.ReplaceAll(text, teen, " "+teen+" ")
	}
	for _, p := range numberWordPatterns {
		text = p.re.ReplaceAllString(text, " "+p.word+" ")
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Tokenize normaliza, segmenta numerais e troca pontuação por espaço,
// devolvendo os tokens da mensagem.
func Tokenize(text string) []string {
	text = Normalize(text)
	text = separateNumberWords(text)
	text = punctuationRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}
	return strings.Split(text, " ")
}
