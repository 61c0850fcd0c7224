package extractor

import "strconv"

// NumberMatch é um número reconhecido no fluxo de tokens, com a posição
// do primeiro token que o compõe.
type NumberMatch struct {
	Position int
	Value    int
}

// ExtractNumbers localiza dígitos e numerais por extenso nos tokens.
// Sequências ligadas por "e" ("vinte e cinco") formam um único valor.
func ExtractNumbers(tokens []string) []NumberMatch {
	var numbers []NumberMatch
	i := 0
	for i < len(tokens) {
		token := tokens[i]
		switch {
		case isDigits(token):
			value, err := strconv.Atoi(token)
			if err == nil {
				numbers = append(numbers, NumberMatch{Position: i, Value: value})
			}
			i++
		case isNumberWord(token):
			run := []string{token}
			j := i + 1
			for j < len(tokens)-1 && tokens[j] == "e" && isNumberWord(tokens[j+1]) {
				run = append(run, tokens[j+1])
				j += 2
			}
			if value, ok := parseNumberWords(run); ok {
				numbers = append(numbers, NumberMatch{Position: i, Value: value})
				i = j
			} else {
				i++
			}
		default:
			i++
		}
	}
	return numbers
}
