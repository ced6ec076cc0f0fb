package classify

import "testing"

func TestExtractCompanyName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "prefixed with regarding",
			text:     "Following up regarding Apex Robotics Inc and their raise",
			expected: "Apex Robotics Inc",
		},
		{
			name:     "prefixed with from",
			text:     "Deck from Northwind Ltd attached",
			expected: "Northwind Ltd",
		},
		{
			name:     "bare suffix phrase anywhere",
			text:     "The team at Meridian Holdings LLC was in town",
			expected: "Meridian Holdings LLC",
		},
		{
			name:     "Co. with trailing dot",
			text:     "Quarterly numbers for Acme Co. look solid",
			expected: "Acme Co.",
		},
		{
			name:     "prefixed rule wins over earlier bare match",
			text:     "Acme Corp sent an update regarding Bolt Industries Inc",
			expected: "Bolt Industries Inc",
		},
		{
			name:     "no corporate suffix means no match",
			text:     "Meeting with Sarah tomorrow at noon",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractCompanyName(tt.text); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractInvestorName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "investor label",
			text:     "Investor: Sequoia Growth has signed the NDA",
			expected: "Sequoia Growth",
		},
		{
			name:     "lp label",
			text:     "LP: CalPERS has committed to the vehicle",
			expected: "CalPERS",
		},
		{
			name:     "limited partner label",
			text:     "limited partner: Wellington Trust confirmed",
			expected: "Wellington Trust",
		},
		{
			name:     "firm suffix fallback",
			text:     "We met with Benchmark Capital yesterday",
			expected: "Benchmark Capital",
		},
		{
			name:     "partners suffix",
			text:     "Hawthorne Partners passed on the round",
			expected: "Hawthorne Partners",
		},
		{
			name:     "label rule wins over suffix phrase",
			text:     "Investor: Insight joining the call with Vista Partners",
			expected: "Insight",
		},
		{
			name:     "lp fragment inside a word does not trigger",
			text:     "Please help: the portal is down",
			expected: "",
		},
		{
			name:     "nothing investor-shaped",
			text:     "See you at the conference",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractInvestorName(tt.text); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractDealValue(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		text     string
		expected *float64
	}{
		{"million word", "raising $2.5 million this round", ptr(2_500_000)},
		{"k suffix", "bridge of $500k closed", ptr(500_000)},
		{"bare with separators", "invoice total $10,000 due", ptr(10_000)},
		{"billion short", "fund size $1.2B", ptr(1_200_000_000)},
		{"thousand word", "asking $750 thousand", ptr(750_000)},
		{"m suffix", "a raise of $3m today", ptr(3_000_000)},
		{"bare small", "wire roughly $15 for fees", ptr(15)},
		{"unit rule wins over bare", "$5 million (i.e. $5,000,000)", ptr(5_000_000)},
		{"no amount", "no numbers here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractDealValue(tt.text)
			if (got == nil) != (tt.expected == nil) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			if got != nil && !almostEqual(*got, *tt.expected) {
				t.Errorf("got %v, want %v", *got, *tt.expected)
			}
		})
	}
}

func TestExtractDealStage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected DealStage
	}{
		{"prospect via intro", "quick intro call next quarter?", StageProspect},
		{"response via reply", "thanks for the reply, will circle back", StageResponse},
		{"diligence via due diligence", "due diligence materials uploaded", StageDiligence},
		{"term sheet", "term sheet attached for your records", StageTermSheet},
		{"closing via signature", "signature pages going out tonight", StageClosing},
		{"earlier stage wins", "initial review of the docs", StageProspect},
		{"diligence beats term sheet in order", "please review the term sheet", StageDiligence},
		{"no stage keywords", "see you at the holiday party", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractDealStage(tt.text); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
