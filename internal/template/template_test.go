package template

import (
	"strings"
	"testing"
	"time"

	"github.com/dealflow-crm/dealflow/internal/classify"
	"github.com/dealflow-crm/dealflow/internal/firms"
	"github.com/dealflow-crm/dealflow/internal/inbox"
)

func sampleEmail() classify.CategorizedEmail {
	value := 15_000_000.0
	return classify.CategorizedEmail{
		ID:      "<msg-1@acme.com>",
		Subject: "Series A Term Sheet - Acme Corp",
		From:    classify.Address{Name: "Jane Doe", Address: "jane@acmecapital.com"},
		Classification: classify.Classification{
			Category:   classify.CategoryDeal,
			Confidence: 0.42,
			Extracted: classify.Extracted{
				CompanyName: "Acme Corp",
				DealValue:   &value,
				DealStage:   classify.StageTermSheet,
				Sentiment:   classify.SentimentPositive,
				Priority:    classify.PriorityHigh,
			},
		},
		ReceivedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderDealAlert(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	firm := &firms.Firm{Name: "Acme Capital", Type: "investor"}
	alert, err := engine.Render("deal-alert", sampleEmail(), firm)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if alert.Subject != "Deal alert: Series A Term Sheet - Acme Corp" {
		t.Errorf("Subject = %q", alert.Subject)
	}
	for _, want := range []string{
		"Jane Doe <jane@acmecapital.com>",
		"Confidence: 42%",
		"Known firm: Acme Capital (investor)",
		"Company: Acme Corp",
		"Deal value: $15M",
		"Stage: term-sheet",
		"Sentiment: positive",
	} {
		if !strings.Contains(alert.Body, want) {
			t.Errorf("body missing %q:\n%s", want, alert.Body)
		}
	}
}

func TestRenderOmitsAbsentEntities(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	email := sampleEmail()
	email.Extracted = classify.Extracted{
		Sentiment: classify.SentimentNeutral,
		Priority:  classify.PriorityLow,
	}

	alert, err := engine.Render("deal-alert", email, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, absent := range []string{"Company:", "Deal value:", "Stage:", "Investor:", "Known firm:"} {
		if strings.Contains(alert.Body, absent) {
			t.Errorf("body should omit %q when missing:\n%s", absent, alert.Body)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := engine.Render("nope", sampleEmail(), nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestRenderDigest(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	summary := inbox.Summary{Total: 5, Deal: 2, Investor: 1, Broker: 1, General: 1, HighPriority: 1}
	alert, err := engine.RenderDigest(summary, []classify.CategorizedEmail{sampleEmail()})
	if err != nil {
		t.Fatalf("RenderDigest: %v", err)
	}

	if alert.Subject != "Inbox digest: 5 emails, 2 deal-related" {
		t.Errorf("Subject = %q", alert.Subject)
	}
	if !strings.Contains(alert.Body, "Series A Term Sheet - Acme Corp (42%, $15M, term-sheet)") {
		t.Errorf("digest missing deal line:\n%s", alert.Body)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{15_000_000, "$15M"},
		{2_500_000, "$2.5M"},
		{1_200_000_000, "$1.2B"},
		{500_000, "$500K"},
		{750, "$750"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
