package classify

// Lexicon holds the seven keyword sets the engine scores against. All
// phrases must be lowercase; the sets are treated as immutable once an
// Engine is constructed. A yaml file with the same shape can replace the
// built-in defaults (see config.LexiconPath).
type Lexicon struct {
	Deal           []string `yaml:"deal"`
	Investor       []string `yaml:"investor"`
	Broker         []string `yaml:"broker"`
	Positive       []string `yaml:"positive"`
	Negative       []string `yaml:"negative"`
	HighPriority   []string `yaml:"high_priority"`
	MediumPriority []string `yaml:"medium_priority"`
}

// DefaultLexicon returns the built-in keyword sets. Matching is raw
// substring containment, so phrases here can hit fragments of longer
// words ("urgent" matches "urgently"); that is intended.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Deal: []string{
			"deal", "term sheet", "investment", "acquisition",
			"valuation", "due diligence", "letter of intent",
			"cap table", "funding round",
		},
		Investor: []string{
			"investor", "limited partner", "capital call",
			"quarterly report", "fund performance", "distribution notice",
			"subscription agreement", "commitment", "annual meeting",
		},
		Broker: []string{
			"broker", "intermediary", "sell-side", "teaser",
			"confidential information memorandum", "engagement letter",
			"banker", "mandate",
		},
		Positive: []string{
			"excited", "great", "interested", "opportunity", "pleased",
			"impressive", "congratulations", "good news", "strong",
		},
		Negative: []string{
			"concern", "unfortunately", "decline", "pass on",
			"disappointed", "risk", "delay", "not interested", "problem",
		},
		HighPriority: []string{
			"urgent", "asap", "immediately", "critical", "deadline",
			"time-sensitive", "action required", "by end of day",
		},
		MediumPriority: []string{
			"soon", "this week", "follow up", "reminder",
			"next steps", "circle back", "touch base", "when you get a chance",
		},
	}
}
