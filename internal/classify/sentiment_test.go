package classify

import "testing"

func TestClassifySentiment(t *testing.T) {
	e := NewDefaultEngine()

	tests := []struct {
		name   string
		corpus string
		want   Sentiment
	}{
		{"positive", "we are excited and pleased about this", SentimentPositive},
		{"negative", "unfortunately we have to pass on this", SentimentNegative},
		{"no tone words", "the quarterly numbers are attached", SentimentNeutral},
		{"one positive one negative is a tie", "great opportunity but some concern and risk", SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.classifySentiment(tt.corpus); got != tt.want {
				t.Errorf("classifySentiment(%q) = %q, want %q", tt.corpus, got, tt.want)
			}
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	e := NewDefaultEngine()

	tests := []struct {
		name   string
		corpus string
		want   Priority
	}{
		{"high", "this is urgent, respond asap", PriorityHigh},
		{"medium", "let's follow up this week", PriorityMedium},
		{"low", "no rush on any of this", PriorityLow},
		{"high wins even when medium scores higher", "urgent: follow up soon on next steps", PriorityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.classifyPriority(tt.corpus); got != tt.want {
				t.Errorf("classifyPriority(%q) = %q, want %q", tt.corpus, got, tt.want)
			}
		})
	}
}
