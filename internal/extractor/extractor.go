package extractor

import (
	"math"
	"sort"
	"strings"

	"github.com/yourusername/whatsapp-order-bot/internal/domain/constants"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/entity"
)

// Palavras de ligação que nunca iniciam uma frase de produto
var fillerWords = map[string]bool{
	"quero": true,
	"e":     true,
}

type productRef struct {
	name  string
	index int
	words int
}

// Extract reconhece produtos e quantidades no texto livre e devolve as
// linhas encontradas junto com uma cópia do catálogo com as quantidades
// acumuladas. O catálogo recebido nunca é alterado.
func Extract(text string, catalog entity.WorkingCatalog) ([]entity.ParsedOrderLine, entity.WorkingCatalog) {
	working := catalog.Clone()
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, working
	}

	numbers := ExtractNumbers(tokens)
	names := catalog.Names()

	// produtos ordenados por número de palavras, dos compostos para os
	// simples, para que "caixa de ovos" ganhe de "ovo" no desempate
	refs := make([]productRef, 0, len(names))
	maxWindow := 1
	for idx, name := range names {
		words := len(strings.Fields(name))
		if words > maxWindow {
			maxWindow = words
		}
		refs = append(refs, productRef{name: name, index: idx, words: words})
	}
	if maxWindow > constants.MaxPhraseWindow {
		maxWindow = constants.MaxPhraseWindow
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].words > refs[j].words })

	productWords := make(map[string]bool)
	for _, name := range names {
		for _, w := range strings.Fields(Normalize(name)) {
			productWords[w] = true
		}
	}

	usedPositions := make(map[int]bool)
	usedNumbers := make(map[int]bool)
	var lines []entity.ParsedOrderLine

	commit := func(start, size, productIdx int, score float64) {
		qty, numPos, hasNum := AssociateQuantity(start, start+size, tokens, numbers)
		if hasNum && usedNumbers[numPos] {
			hasNum = false
			qty = 1
			for _, n := range numbers {
				if !usedNumbers[n.Position] {
					qty, numPos, hasNum = n.Value, n.Position, true
					break
				}
			}
		}
		working[productIdx].Quantity += qty
		lines = append(lines, entity.ParsedOrderLine{
			Product:  names[productIdx],
			Quantity: qty,
			Score:    math.Round(score*100) / 100,
		})
		for j := 0; j < size; j++ {
			usedPositions[start+j] = true
		}
		if hasNum {
			usedNumbers[numPos] = true
		}
	}

	i := 0
	for i < len(tokens) {
		if usedPositions[i] {
			i++
			continue
		}
		if skippableToken(tokens[i], productWords) {
			i++
			continue
		}

		matched := false
		for size := maxWindow; size >= 1; size-- {
			if i+size > len(tokens) {
				continue
			}
			if !windowUsable(tokens, i, size, usedPositions, productWords) {
				continue
			}
			phrase := strings.Join(tokens[i:i+size], " ")
			bestScore, bestIdx := 0.0, -1
			for _, ref := range refs {
				if score := Similarity(phrase, ref.name); score > bestScore {
					bestScore, bestIdx = score, ref.index
				}
			}
			if bestIdx >= 0 && bestScore >= constants.MatchThreshold {
				commit(i, size, bestIdx, bestScore)
				i += size
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		// fallback de baixa confiança com o token isolado
		bestScore, bestIdx := 0.0, -1
		for idx, name := range names {
			if score := Similarity(tokens[i], name); score > bestScore {
				bestScore, bestIdx = score, idx
			}
		}
		if bestIdx >= 0 && bestScore >= constants.FallbackThreshold {
			commit(i, 1, bestIdx, bestScore)
		}
		i++
	}

	return lines, working
}

// skippableToken identifica números soltos e palavras de ligação que não
// fazem parte do nome de nenhum produto do catálogo.
func skippableToken(token string, productWords map[string]bool) bool {
	if productWords[token] {
		return false
	}
	return fillerWords[token] || isNumericToken(token)
}

// windowUsable rejeita janelas que atravessam tokens já consumidos ou
// tokens ignoráveis.
func windowUsable(tokens []string, start, size int, usedPositions map[int]bool, productWords map[string]bool) bool {
	for j := start; j < start+size; j++ {
		if usedPositions[j] {
			return false
		}
		if skippableToken(tokens[j], productWords) {
			return false
		}
	}
	return true
}
