package classify

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestKeywordScore(t *testing.T) {
	phrases := []string{"term sheet", "valuation", "deal", "acquisition"}

	tests := []struct {
		name     string
		text     string
		phrases  []string
		expected float64
	}{
		{
			name:     "no matches",
			text:     "lunch on thursday?",
			phrases:  phrases,
			expected: 0,
		},
		{
			name:     "one of four",
			text:     "the valuation looks rich",
			phrases:  phrases,
			expected: 0.25,
		},
		{
			name:     "two of four",
			text:     "term sheet attached, valuation discussed inside",
			phrases:  phrases,
			expected: 0.5,
		},
		{
			name:     "repeated phrase counts once",
			text:     "deal deal deal deal",
			phrases:  phrases,
			expected: 0.25,
		},
		{
			name:     "substring fragment inside longer word still counts",
			text:     "we have been dealing with the lawyers",
			phrases:  phrases,
			expected: 0.25,
		},
		{
			name:     "empty text",
			text:     "",
			phrases:  phrases,
			expected: 0,
		},
		{
			name:     "whitespace-only text",
			text:     "   \t\n ",
			phrases:  phrases,
			expected: 0,
		},
		{
			name:     "empty keyword set",
			text:     "term sheet",
			phrases:  nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keywordScore(tt.text, tt.phrases)
			if !almostEqual(got, tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKeywordScoreRange(t *testing.T) {
	phrases := []string{"a", "b", "c"}
	score := keywordScore("a b c and more", phrases)
	if score < 0 || score > 1 {
		t.Errorf("score %v outside [0,1]", score)
	}
	if !almostEqual(score, 1.0) {
		t.Errorf("got %v, want 1.0 when every phrase matches", score)
	}
}
