package inbox

import (
	"context"
	"log"

	"github.com/dealflow-crm/dealflow/internal/classify"
)

// dealConfidenceFloor is the stricter secondary threshold applied by
// DealRelated on top of the resolver's own 0.1: a deal email with
// confidence 0.2 shows up in EmailsByCategory but not here.
const dealConfidenceFloor = 0.3

// Service classifies batches of mail obtained from a Source. The
// classification step inside it is synchronous and pure; only the fetch
// awaits the collaborator.
type Service struct {
	source Source
	engine *classify.Engine
}

// NewService creates a batch classification service.
func NewService(source Source, engine *classify.Engine) *Service {
	return &Service{source: source, engine: engine}
}

// Categorize fetches up to maxResults emails and classifies each one,
// preserving the source's order. Source errors propagate unchanged.
func (s *Service) Categorize(ctx context.Context, maxResults int) ([]classify.CategorizedEmail, error) {
	emails, err := s.source.Fetch(ctx, maxResults)
	if err != nil {
		return nil, err
	}

	categorized := make([]classify.CategorizedEmail, 0, len(emails))
	for _, email := range emails {
		categorized = append(categorized, s.engine.CategorizeEmail(email))
	}
	return categorized, nil
}

// EmailsByCategory returns the emails from the next batch whose category
// matches, in the source's original order. The distribution summary it
// logs is diagnostic only and never changes the returned data.
func (s *Service) EmailsByCategory(ctx context.Context, category classify.Category, maxResults int) ([]classify.CategorizedEmail, error) {
	categorized, err := s.Categorize(ctx, maxResults)
	if err != nil {
		return nil, err
	}

	logDistribution(Summarize(categorized))

	var matched []classify.CategorizedEmail
	for _, email := range categorized {
		if email.Category == category {
			matched = append(matched, email)
		}
	}
	return matched, nil
}

// DealRelated returns deal emails the engine is reasonably sure about:
// category deal and confidence strictly above the 0.3 floor.
func (s *Service) DealRelated(ctx context.Context, maxResults int) ([]classify.CategorizedEmail, error) {
	deals, err := s.EmailsByCategory(ctx, classify.CategoryDeal, maxResults)
	if err != nil {
		return nil, err
	}

	var confident []classify.CategorizedEmail
	for _, email := range deals {
		if email.Confidence > dealConfidenceFloor {
			confident = append(confident, email)
		}
	}
	return confident, nil
}

// Summary is a category distribution over one classified batch.
type Summary struct {
	Total        int
	Deal         int
	Investor     int
	Broker       int
	General      int
	HighPriority int
}

// Summarize counts categories and high-priority emails in a batch.
func Summarize(emails []classify.CategorizedEmail) Summary {
	summary := Summary{Total: len(emails)}

	for _, email := range emails {
		switch email.Category {
		case classify.CategoryDeal:
			summary.Deal++
		case classify.CategoryInvestor:
			summary.Investor++
		case classify.CategoryBroker:
			summary.Broker++
		case classify.CategoryGeneral:
			summary.General++
		}
		if email.Extracted.Priority == classify.PriorityHigh {
			summary.HighPriority++
		}
	}

	return summary
}

func logDistribution(s Summary) {
	log.Printf("classified %d emails: %d deal, %d investor, %d broker, %d general (%d high priority)",
		s.Total, s.Deal, s.Investor, s.Broker, s.General, s.HighPriority)
}
