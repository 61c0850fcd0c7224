package extractor

import "testing"

func TestSimilarityIdentical(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"manga", "manga"},
		{"Limão", "limao"},
		{"AÇAÍ", "acai"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); got != 100.0 {
			t.Errorf("Similarity(%q, %q) = %v, want 100", tt.a, tt.b, got)
		}
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := []struct {
		a, b string
	}{
		{"manga", "mangas"},
		{"queijo", "queijos"},
		{"limão", "limões"},
		{"abacaxi", "goiaba"},
	}
	for _, p := range pairs {
		ab := Similarity(p.a, p.b)
		ba := Similarity(p.b, p.a)
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v, reversed = %v", p.a, p.b, ab, ba)
		}
	}
}

func TestSimilarityKnownDistances(t *testing.T) {
	tests := []struct {
		a, b             string
		distance, maxLen int
	}{
		{"mangas", "manga", 1, 6},
		{"queijos", "queijo", 1, 7},
		{"limões", "limão", 3, 6},
		{"manga", "", 5, 5},
	}
	for _, tt := range tests {
		// a expectativa usa os mesmos passos float64 da implementação
		want := (1.0 - float64(tt.distance)/float64(tt.maxLen)) * 100.0
		if got := Similarity(tt.a, tt.b); got != want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"manga", "manga", 0},
		{"ovo", "ovos", 1},
	}
	for _, tt := range tests {
		if got := levenshtein([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
