package template

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dealflow-crm/dealflow/internal/classify"
	"github.com/dealflow-crm/dealflow/internal/firms"
	"github.com/dealflow-crm/dealflow/internal/inbox"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// AlertData contains all data available to alert templates
type AlertData struct {
	// Email identity
	Subject     string
	FromName    string
	FromAddress string
	ReceivedAt  string

	// Classification
	Category   string
	Confidence string
	Sentiment  string
	Priority   string

	// Extracted entities, empty when absent
	CompanyName  string
	DealValue    string
	DealStage    string
	InvestorName string

	// Known firm, empty when the sender did not match the directory
	FirmName string
	FirmType string

	// Metadata
	Date string
	Year int
}

// DigestData feeds the batch digest template
type DigestData struct {
	Total        int
	Deal         int
	Investor     int
	Broker       int
	General      int
	HighPriority int
	Deals        []AlertData
	Date         string
}

// Alert represents a rendered notification ready to send
type Alert struct {
	Subject string
	Body    string
}

// Engine handles alert template rendering
type Engine struct {
	templates map[string]*template.Template
}

// NewEngine creates a new template engine
func NewEngine() (*Engine, error) {
	e := &Engine{
		templates: make(map[string]*template.Template),
	}

	templateNames := []string{"deal-alert", "priority-alert", "digest"}
	for _, name := range templateNames {
		content, err := embeddedTemplates.ReadFile("templates/" + name + ".tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded template %s: %w", name, err)
		}

		tmpl, err := template.New(name).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}

		e.templates[name] = tmpl
	}

	return e, nil
}

// Render generates an alert for one categorized email
func (e *Engine) Render(templateName string, email classify.CategorizedEmail, firm *firms.Firm) (*Alert, error) {
	tmpl, ok := e.templates[templateName]
	if !ok {
		return nil, fmt.Errorf("unknown template: %s", templateName)
	}

	data := newAlertData(email, firm)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	return &Alert{
		Subject: e.getSubject(templateName, email),
		Body:    buf.String(),
	}, nil
}

// RenderDigest generates a batch summary alert
func (e *Engine) RenderDigest(summary inbox.Summary, deals []classify.CategorizedEmail) (*Alert, error) {
	tmpl, ok := e.templates["digest"]
	if !ok {
		return nil, fmt.Errorf("unknown template: digest")
	}

	data := DigestData{
		Total:        summary.Total,
		Deal:         summary.Deal,
		Investor:     summary.Investor,
		Broker:       summary.Broker,
		General:      summary.General,
		HighPriority: summary.HighPriority,
		Date:         time.Now().Format("January 2, 2006"),
	}
	for _, email := range deals {
		data.Deals = append(data.Deals, newAlertData(email, nil))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render digest: %w", err)
	}

	return &Alert{
		Subject: fmt.Sprintf("Inbox digest: %d emails, %d deal-related", summary.Total, summary.Deal),
		Body:    buf.String(),
	}, nil
}

func newAlertData(email classify.CategorizedEmail, firm *firms.Firm) AlertData {
	now := time.Now()
	data := AlertData{
		Subject:      email.Subject,
		FromName:     email.From.Name,
		FromAddress:  email.From.Address,
		ReceivedAt:   email.ReceivedAt.Format("Jan 2, 2006 15:04"),
		Category:     string(email.Category),
		Confidence:   fmt.Sprintf("%.0f%%", email.Confidence*100),
		Sentiment:    string(email.Extracted.Sentiment),
		Priority:     string(email.Extracted.Priority),
		CompanyName:  email.Extracted.CompanyName,
		DealStage:    string(email.Extracted.DealStage),
		InvestorName: email.Extracted.InvestorName,
		Date:         now.Format("January 2, 2006"),
		Year:         now.Year(),
	}
	if email.Extracted.DealValue != nil {
		data.DealValue = FormatValue(*email.Extracted.DealValue)
	}
	if firm != nil {
		data.FirmName = firm.Name
		data.FirmType = firm.Type
	}
	return data
}

func (e *Engine) getSubject(templateName string, email classify.CategorizedEmail) string {
	switch templateName {
	case "deal-alert":
		return fmt.Sprintf("Deal alert: %s", email.Subject)
	case "priority-alert":
		return fmt.Sprintf("High priority: %s", email.Subject)
	default:
		return fmt.Sprintf("Inbox alert: %s", email.Subject)
	}
}

// FormatValue renders a dollar amount the way analysts write them,
// $2.5M rather than $2500000.
func FormatValue(v float64) string {
	switch {
	case v >= 1e9:
		return trimZero(fmt.Sprintf("$%.1fB", v/1e9))
	case v >= 1e6:
		return trimZero(fmt.Sprintf("$%.1fM", v/1e6))
	case v >= 1e3:
		return trimZero(fmt.Sprintf("$%.1fK", v/1e3))
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

func trimZero(s string) string {
	return strings.Replace(s, ".0", "", 1)
}

// AvailableTemplates returns the list of available template names
func (e *Engine) AvailableTemplates() []string {
	templates := make([]string, 0, len(e.templates))
	for name := range e.templates {
		templates = append(templates, name)
	}
	return templates
}
