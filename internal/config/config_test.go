package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeTempConfig(t, `
inbox:
  provider: gmail
  email: partner@firm.example
  password: app-password
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Inbox.Server != "imap.gmail.com" || cfg.Inbox.Port != 993 {
		t.Errorf("gmail defaults not applied: %+v", cfg.Inbox)
	}
	if cfg.Inbox.Folder != "INBOX" {
		t.Errorf("folder default: got %q", cfg.Inbox.Folder)
	}
	if cfg.Options.MaxResults != defaultMaxResults {
		t.Errorf("max_results default: got %d", cfg.Options.MaxResults)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty inbox config")
	}

	cfg.Inbox = InboxConfig{
		Email:    "partner@firm.example",
		Password: "secret",
		Server:   "imap.firm.example",
		Port:     993,
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateNotify(t *testing.T) {
	cfg := &Config{Notify: NotifyConfig{
		Enabled:  true,
		Provider: "sendgrid",
		From:     "alerts@firm.example",
		To:       "partner@firm.example",
	}}
	if err := cfg.ValidateNotify(); err == nil {
		t.Error("expected error for missing api_key")
	}

	cfg.Notify.APIKey = "SG.test"
	if err := cfg.ValidateNotify(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadLexiconOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte("deal:\n  - acquisition target\n"), 0600); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(lex.Deal) != 1 || lex.Deal[0] != "acquisition target" {
		t.Errorf("deal list not overridden: %v", lex.Deal)
	}
	if len(lex.Positive) == 0 {
		t.Error("untouched lists should keep defaults")
	}
}

func TestLoadLexiconEmptyPath(t *testing.T) {
	lex, err := LoadLexicon("")
	if err != nil {
		t.Fatal(err)
	}
	if len(lex.Deal) == 0 || len(lex.HighPriority) == 0 {
		t.Error("empty path should return the built-in lexicon")
	}
}
