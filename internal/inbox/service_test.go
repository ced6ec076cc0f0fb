package inbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dealflow-crm/dealflow/internal/classify"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Fetch(ctx context.Context, limit int) ([]classify.RawEmail, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]classify.RawEmail), args.Error(1)
}

// testEngine scores against a tiny engineered lexicon so confidence
// values are exact fractions.
func testEngine() *classify.Engine {
	return classify.NewEngine(classify.Lexicon{
		Deal:     []string{"alpha", "bravo", "charlie", "delta", "echo"},
		Investor: []string{"xray"},
	})
}

func testBatch() []classify.RawEmail {
	return []classify.RawEmail{
		{ID: "e1", Subject: "alpha"},                     // deal, confidence 0.2
		{ID: "e2", Subject: "xray"},                      // investor
		{ID: "e3", Subject: "alpha bravo charlie"},       // deal, confidence 0.6
		{ID: "e4", Subject: "nothing of note"},           // general
	}
}

func TestEmailsByCategoryFiltersAndPreservesOrder(t *testing.T) {
	source := new(MockSource)
	source.On("Fetch", mock.Anything, 50).Return(testBatch(), nil)

	svc := NewService(source, testEngine())
	got, err := svc.EmailsByCategory(context.Background(), classify.CategoryDeal, 50)

	assert.NoError(t, err)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "e1", got[0].ID)
		assert.Equal(t, "e3", got[1].ID)
	}
	source.AssertExpectations(t)
}

func TestDealRelatedAppliesConfidenceFloor(t *testing.T) {
	source := new(MockSource)
	source.On("Fetch", mock.Anything, 50).Return(testBatch(), nil)

	svc := NewService(source, testEngine())
	got, err := svc.DealRelated(context.Background(), 50)

	// e1 is a deal at confidence 0.2: visible to EmailsByCategory but
	// below the 0.3 floor here. Only e3 (0.6) survives.
	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "e3", got[0].ID)
		assert.Greater(t, got[0].Confidence, 0.3)
	}
}

func TestServicePropagatesSourceErrors(t *testing.T) {
	sentinel := errors.New("imap: connection reset")
	source := new(MockSource)
	source.On("Fetch", mock.Anything, 10).Return(nil, sentinel)

	svc := NewService(source, testEngine())

	_, err := svc.EmailsByCategory(context.Background(), classify.CategoryDeal, 10)
	assert.ErrorIs(t, err, sentinel)

	_, err = svc.DealRelated(context.Background(), 10)
	assert.ErrorIs(t, err, sentinel)
}

func TestCategorizeEmptyBatch(t *testing.T) {
	source := new(MockSource)
	source.On("Fetch", mock.Anything, 25).Return([]classify.RawEmail{}, nil)

	svc := NewService(source, testEngine())
	got, err := svc.Categorize(context.Background(), 25)

	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestSummarize(t *testing.T) {
	engine := classify.NewDefaultEngine()
	emails := []classify.CategorizedEmail{
		engine.CategorizeEmail(classify.RawEmail{Subject: "term sheet and valuation for the deal"}),
		engine.CategorizeEmail(classify.RawEmail{Subject: "capital call and quarterly report"}),
		engine.CategorizeEmail(classify.RawEmail{Subject: "urgent: sell-side teaser from the banker"}),
		engine.CategorizeEmail(classify.RawEmail{Subject: "lunch thursday?"}),
	}

	summary := Summarize(emails)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Deal)
	assert.Equal(t, 1, summary.Investor)
	assert.Equal(t, 1, summary.Broker)
	assert.Equal(t, 1, summary.General)
	assert.Equal(t, 1, summary.HighPriority)
}
