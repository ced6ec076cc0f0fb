package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/dealflow-crm/dealflow/internal/classify"
)

const defaultMaxResults = 50

func checkFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return fmt.Errorf("config file %s has insecure permissions %04o; should be 0600", path, perm)
	}
	return nil
}

type Config struct {
	Inbox       InboxConfig  `yaml:"inbox"`
	Notify      NotifyConfig `yaml:"notify,omitempty"`
	Options     Options      `yaml:"options,omitempty"`
	LexiconPath string       `yaml:"lexicon,omitempty"` // optional keyword override file
	FirmsPath   string       `yaml:"firms,omitempty"`   // firm directory yaml
}

// InboxConfig holds IMAP settings for the monitored dealflow account
type InboxConfig struct {
	Provider string `yaml:"provider"` // "gmail", "outlook", "imap"
	Server   string `yaml:"server"`   // e.g., "imap.gmail.com"
	Port     int    `yaml:"port"`     // e.g., 993
	Email    string `yaml:"email"`    // Account to monitor
	Password string `yaml:"password"` // App password (not main password)
	Folder   string `yaml:"folder"`   // Folder to read (default: "INBOX")
}

// NotifyConfig controls alert emails for high-priority deal mail
type NotifyConfig struct {
	Enabled  bool       `yaml:"enabled"`
	Provider string     `yaml:"provider"` // "smtp", "resend", "sendgrid"
	From     string     `yaml:"from"`
	To       string     `yaml:"to"`
	APIKey   string     `yaml:"api_key,omitempty"` // resend/sendgrid
	SMTP     SMTPConfig `yaml:"smtp,omitempty"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	UseTLS   bool   `yaml:"use_tls"`
}

type Options struct {
	MaxResults int    `yaml:"max_results"` // batch size for sync and listings
	HistoryDB  string `yaml:"history_db,omitempty"`
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".dealflow", "config.yaml")
}

func Load(path string) (*Config, error) {
	if err := checkFilePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: %v\n", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Options.MaxResults == 0 {
		cfg.Options.MaxResults = defaultMaxResults
	}

	// Inbox defaults
	if cfg.Inbox.Folder == "" {
		cfg.Inbox.Folder = "INBOX"
	}
	if cfg.Inbox.Provider == "gmail" && cfg.Inbox.Server == "" {
		cfg.Inbox.Server = "imap.gmail.com"
		cfg.Inbox.Port = 993
	}
	if cfg.Inbox.Provider == "outlook" && cfg.Inbox.Server == "" {
		cfg.Inbox.Server = "outlook.office365.com"
		cfg.Inbox.Port = 993
	}

	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) Validate() error {
	if c.Inbox.Email == "" {
		return fmt.Errorf("inbox: email address is required")
	}
	if c.Inbox.Password == "" {
		return fmt.Errorf("inbox: password (app password) is required")
	}
	if c.Inbox.Server == "" {
		return fmt.Errorf("inbox: IMAP server is required")
	}
	if c.Inbox.Port == 0 {
		return fmt.Errorf("inbox: IMAP port is required")
	}
	return nil
}

// ValidateNotify validates the alert settings (only called when alerts
// are actually used)
func (c *Config) ValidateNotify() error {
	if !c.Notify.Enabled {
		return fmt.Errorf("notify: alerts are not enabled in config")
	}
	if c.Notify.From == "" || c.Notify.To == "" {
		return fmt.Errorf("notify: from and to addresses are required")
	}
	switch c.Notify.Provider {
	case "", "smtp":
		if c.Notify.SMTP.Host == "" {
			return fmt.Errorf("notify.smtp: host is required")
		}
		if c.Notify.SMTP.Port == 0 {
			return fmt.Errorf("notify.smtp: port is required")
		}
	case "resend", "sendgrid":
		if c.Notify.APIKey == "" {
			return fmt.Errorf("notify: api_key is required for %s", c.Notify.Provider)
		}
	default:
		return fmt.Errorf("notify: unknown provider %q", c.Notify.Provider)
	}
	return nil
}

// LoadLexicon reads a keyword override file, falling back to the
// built-in sets for any list the file leaves empty.
func LoadLexicon(path string) (classify.Lexicon, error) {
	lex := classify.DefaultLexicon()
	if path == "" {
		return lex, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return lex, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var override classify.Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return lex, fmt.Errorf("failed to parse lexicon file: %w", err)
	}

	if len(override.Deal) > 0 {
		lex.Deal = override.Deal
	}
	if len(override.Investor) > 0 {
		lex.Investor = override.Investor
	}
	if len(override.Broker) > 0 {
		lex.Broker = override.Broker
	}
	if len(override.Positive) > 0 {
		lex.Positive = override.Positive
	}
	if len(override.Negative) > 0 {
		lex.Negative = override.Negative
	}
	if len(override.HighPriority) > 0 {
		lex.HighPriority = override.HighPriority
	}
	if len(override.MediumPriority) > 0 {
		lex.MediumPriority = override.MediumPriority
	}
	return lex, nil
}
