package extractor

import (
	"regexp"
	"sort"
	"strings"
)

// Léxico de numerais em português (0-999), já sem acentos e incluindo
// erros de digitação frequentes em mensagens de pedido.
var unitWords = map[string]int{
	"0": 0, "1": 1, "2": 2, "3": 3, "4": 4,
	"5": 5, "6": 6, "7": 7, "8": 8, "9": 9,
	"zero": 0,
	"um":   1, "uma": 1,
	"dois": 2, "duas": 2, "dos": 2,
	"tres": 3, "treis": 3,
	"quatro": 4, "quarto": 4,
	"cinco": 5, "cnico": 5,
	"seis": 6, "ses": 6,
	"sete": 7,
	"oito": 8,
	"nove": 9, "nov": 9,
}

var teenWords = map[string]int{
	"dez":      10,
	"onze":     11,
	"doze":     12,
	"treze":    13,
	"quatorze": 14, "catorze": 14,
	"quinze":    15,
	"dezesseis": 16,
	"dezessete": 17,
	"dezoito":   18,
	"dezenove":  19,
}

var tenWords = map[string]int{
	"vinte":     20,
	"trinta":    30,
	"quarenta":  40,
	"cinquenta": 50,
	"sessenta":  60,
	"setenta":   70,
	"oitenta":   80,
	"noventa":   90,
}

var hundredWords = map[string]int{
	"cem":          100,
	"cento":        100,
	"duzentos":     200,
	"trezentos":    300,
	"quatrocentos": 400,
	"quinhentos":   500,
	"seiscentos":   600,
	"setecentos":   700,
	"oitocentos":   800,
	"novecentos":   900,
}

// Começam com "dez" e seriam corrompidos pela regra de separar dígitos,
// então ganham tratamento direto na segmentação.
var protectedTeens = []string{"dezesseis", "dezessete", "dezoito", "dezenove"}

// wordToNumber junta todas as faixas do léxico num único mapa
var wordToNumber = func() map[string]int {
	merged := make(map[string]int)
	for _, m := range []map[string]int{unitWords, teenWords, tenWords, hundredWords} {
		for w, v := range m {
			merged[w] = v
		}
	}
	return merged
}()

type wordPattern struct {
	word string
	re   *regexp.Regexp
}

// Padrões de borda de palavra para isolar numerais colados em outras
// palavras. Os mais longos vêm primeiro para não quebrar compostos.
var numberWordPatterns = func() []wordPattern {
	words := make([]string, 0, len(wordToNumber))
	for w := range wordToNumber {
		protected := false
		for _, teen := range protectedTeens {
			if w == teen {
				protected = true
				break
			}
		}
		if !protected {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	patterns := make([]wordPattern, 0, len(words))
	for _, w := range words {
		patterns = append(patterns, wordPattern{
			word: w,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`),
		})
	}
	return patterns
}()

func isNumberWord(token string) bool {
	_, ok := wordToNumber[token]
	return ok
}

func isDigits(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseNumberWords compõe o valor de uma sequência de numerais por
// extenso: "cento e vinte e cinco" -> 125. Devolve false quando a
// sequência não forma um valor positivo.
func parseNumberWords(words []string) (int, bool) {
	total := 0
	i := 0
	for i < len(words) {
		w := strings.TrimSpace(words[i])
		switch {
		case hundredWords[w] != 0:
			total += hundredWords[w]
			i++
		case tenWords[w] != 0:
			total += tenWords[w]
			if i+1 < len(words) {
				if u, ok := unitWords[words[i+1]]; ok {
					total += u
					i++
				}
			}
			i++
		case teenWords[w] != 0:
			total += teenWords[w]
			i++
		default:
			if u, ok := unitWords[w]; ok {
				total += u
			}
			i++
		}
	}
	if total <= 0 {
		return 0, false
	}
	return total, true
}
