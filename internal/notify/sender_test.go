package notify

import (
	"testing"

	"github.com/dealflow-crm/dealflow/internal/config"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "analyst@fund.com", false},
		{"valid with name", "Jane Doe <jane@fund.com>", false},
		{"crlf injection", "a@b.com\r\nBcc: c@d.com", true},
		{"comma", "a@b.com,c@d.com", true},
		{"not an address", "not-an-email", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessageRejectsHeaderInjection(t *testing.T) {
	msg := Message{
		From:    "alerts@dealflow.local",
		To:      "analyst@fund.com",
		Subject: "Deal alert\r\nBcc: attacker@evil.com",
	}
	if err := validateMessage(msg); err == nil {
		t.Error("expected CRLF subject to be rejected")
	}
}

func TestNewSender(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.NotifyConfig
		wantName string
		wantErr  bool
	}{
		{"default is smtp", config.NotifyConfig{}, "smtp", false},
		{"explicit smtp", config.NotifyConfig{Provider: "smtp"}, "smtp", false},
		{"resend", config.NotifyConfig{Provider: "resend", APIKey: "re_123"}, "resend", false},
		{"resend without key", config.NotifyConfig{Provider: "resend"}, "", true},
		{"sendgrid", config.NotifyConfig{Provider: "sendgrid", APIKey: "SG.123"}, "sendgrid", false},
		{"sendgrid without key", config.NotifyConfig{Provider: "sendgrid"}, "", true},
		{"unknown", config.NotifyConfig{Provider: "carrier-pigeon"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewSender(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSender error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && sender.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", sender.Name(), tt.wantName)
			}
		})
	}
}
