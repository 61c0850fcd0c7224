package extractor

// AssociateQuantity escolhe o número a atribuir à janela de produto
// [start, end), testando na ordem: número imediatamente antes, número
// mais próximo antes, número imediatamente depois, número mais próximo
// depois. Sem candidato, a quantidade padrão é 1 e ok é false.
func AssociateQuantity(start, end int, tokens []string, numbers []NumberMatch) (value, position int, ok bool) {
	if len(numbers) == 0 {
		return 1, 0, false
	}

	if start > 0 && isNumericToken(tokens[start-1]) {
		for _, n := range numbers {
			if n.Position == start-1 {
				return n.Value, n.Position, true
			}
		}
	}

	bestPos, bestVal := -1, 0
	for _, n := range numbers {
		if n.Position < start && n.Position > bestPos {
			bestPos, bestVal = n.Position, n.Value
		}
	}
	if bestPos >= 0 {
		return bestVal, bestPos, true
	}

	if end < len(tokens) && isNumericToken(tokens[end]) {
		for _, n := range numbers {
			if n.Position == end {
				return n.Value, n.Position, true
			}
		}
	}

	afterPos, afterVal := -1, 0
	for _, n := range numbers {
		if n.Position >= end && (afterPos < 0 || n.Position < afterPos) {
			afterPos, afterVal = n.Position, n.Value
		}
	}
	if afterPos >= 0 {
		return afterVal, afterPos, true
	}

	return 1, 0, false
}

func isNumericToken(token string) bool {
	return isDigits(token) || isNumberWord(token)
}
