package classify

import "strings"

// keywordScore returns the fraction of phrases found in text as raw
// substrings. Repeated occurrences of the same phrase count once.
// Returns 0 for empty sets and for empty or whitespace-only text.
//
// Substring containment is deliberate: "urgent" should hit "urgently".
// The flip side is that fragments inside unrelated longer words also
// count; downstream tests are written against these semantics.
func keywordScore(text string, phrases []string) float64 {
	if len(phrases) == 0 || strings.TrimSpace(text) == "" {
		return 0
	}

	found := 0
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			found++
		}
	}
	return float64(found) / float64(len(phrases))
}
