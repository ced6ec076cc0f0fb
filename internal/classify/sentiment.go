package classify

// classifySentiment compares positive and negative keyword scores over
// the corpus. Ties and sub-threshold scores fall back to neutral.
func (e *Engine) classifySentiment(corpus string) Sentiment {
	positive := keywordScore(corpus, e.lex.Positive)
	negative := keywordScore(corpus, e.lex.Negative)

	switch {
	case positive > negative && positive > categoryThreshold:
		return SentimentPositive
	case negative > positive && negative > categoryThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// classifyPriority checks the high-priority set first, unconditionally:
// an email that scores on both high and medium keywords is high. There
// is no high-vs-medium comparison.
func (e *Engine) classifyPriority(corpus string) Priority {
	if keywordScore(corpus, e.lex.HighPriority) > categoryThreshold {
		return PriorityHigh
	}
	if keywordScore(corpus, e.lex.MediumPriority) > categoryThreshold {
		return PriorityMedium
	}
	return PriorityLow
}
