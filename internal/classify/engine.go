package classify

import "strings"

// Engine is the email categorization engine. It is stateless beyond its
// immutable lexicon: Categorize is pure and safe for concurrent use from
// any number of goroutines without locking.
type Engine struct {
	lex Lexicon
}

// NewEngine creates an engine scoring against the given lexicon.
func NewEngine(lex Lexicon) *Engine {
	return &Engine{lex: lex}
}

// NewDefaultEngine creates an engine with the built-in keyword sets.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultLexicon())
}

// Categorize classifies one email: category plus confidence from the
// three keyword scores, then all four entity extractions and the
// sentiment/priority labels. Extraction runs unconditionally - a general
// email whose text happens to contain a company name still carries it.
// Never returns an error; "no match" is a normal outcome.
func (e *Engine) Categorize(email RawEmail) Classification {
	corpus := buildCorpus(email)
	entityText := buildEntityText(email)

	category, confidence := resolveCategory(
		keywordScore(corpus, e.lex.Deal),
		keywordScore(corpus, e.lex.Investor),
		keywordScore(corpus, e.lex.Broker),
	)

	return Classification{
		Category:   category,
		Confidence: confidence,
		Extracted: Extracted{
			CompanyName:  extractCompanyName(entityText),
			DealValue:    extractDealValue(entityText),
			DealStage:    extractDealStage(strings.ToLower(entityText)),
			InvestorName: extractInvestorName(entityText),
			Sentiment:    e.classifySentiment(corpus),
			Priority:     e.classifyPriority(corpus),
		},
	}
}

// CategorizeEmail classifies an email and pairs the result with the
// email's identity fields.
func (e *Engine) CategorizeEmail(email RawEmail) CategorizedEmail {
	return CategorizedEmail{
		ID:             email.ID,
		Subject:        email.Subject,
		From:           email.From,
		ReceivedAt:     email.ReceivedAt,
		Classification: e.Categorize(email),
	}
}
