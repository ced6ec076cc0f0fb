package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dealflow-crm/dealflow/internal/classify"
)

func TestRateLimiter(t *testing.T) {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    3,
		window:   time.Minute,
	}

	for i := 0; i < 3; i++ {
		if !rl.Allow("127.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("127.0.0.1") {
		t.Error("request over the limit should be denied")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other clients should not be affected")
	}
}

func TestHandleAPIClassify(t *testing.T) {
	s := &Server{engine: classify.NewDefaultEngine()}

	body := `{
		"id": "<msg-1@acme.com>",
		"subject": "Series A Term Sheet - $15 million",
		"body": {"content": "We are excited about this opportunity.", "contentType": "text/plain"},
		"from": {"name": "Jane Doe", "address": "jane@acmecapital.com"}
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleAPIClassify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result classify.Classification
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Category != classify.CategoryDeal {
		t.Errorf("Category = %q, want deal", result.Category)
	}
	if result.Extracted.DealValue == nil || *result.Extracted.DealValue != 15_000_000 {
		t.Errorf("DealValue = %v, want 15000000", result.Extracted.DealValue)
	}
}

func TestHandleAPIClassifyBadBody(t *testing.T) {
	s := &Server{engine: classify.NewDefaultEngine()}

	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	s.handleAPIClassify(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestParseTemplates(t *testing.T) {
	s := &Server{}
	templates, err := s.parseTemplates()
	if err != nil {
		t.Fatalf("parseTemplates: %v", err)
	}
	for _, name := range []string{"dashboard.html", "emails.html"} {
		if templates[name] == nil {
			t.Errorf("missing template %s", name)
		}
	}
}
