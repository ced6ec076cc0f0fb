package firms

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Firm is a known counterparty: an investor, a portfolio company or a
// sell-side intermediary the fund regularly hears from.
type Firm struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Email  string   `yaml:"email,omitempty"`
	Domain string   `yaml:"domain,omitempty"` // sender domain used for matching
	Type   string   `yaml:"type"`             // "investor", "company", "broker"
	Notes  string   `yaml:"notes,omitempty"`
	Tags   []string `yaml:"tags,omitempty"`
}

type Directory struct {
	Firms []Firm `yaml:"firms"`
}

func LoadFromFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read firms file: %w", err)
	}

	var dir Directory
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("failed to parse firms file: %w", err)
	}

	for i := range dir.Firms {
		normalizeFirm(&dir.Firms[i])
	}
	return &dir, nil
}

func LoadFromDir(path string) (*Directory, error) {
	dir := &Directory{}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read firms directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".yaml") && !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}

		partial, err := LoadFromFile(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", entry.Name(), err)
		}
		dir.Firms = append(dir.Firms, partial.Firms...)
	}

	return dir, nil
}

// normalizeFirm derives the matching domain from the contact email when
// none is configured.
func normalizeFirm(f *Firm) {
	if f.Domain == "" && f.Email != "" {
		if _, domain, ok := strings.Cut(f.Email, "@"); ok {
			f.Domain = domain
		}
	}
	f.Domain = strings.ToLower(f.Domain)
}

func (d *Directory) FindByID(id string) *Firm {
	id = strings.ToLower(id)
	for i := range d.Firms {
		if strings.ToLower(d.Firms[i].ID) == id {
			return &d.Firms[i]
		}
	}
	return nil
}

// FindByDomain matches a sender address or bare domain to a known firm.
func (d *Directory) FindByDomain(addrOrDomain string) *Firm {
	domain := strings.ToLower(addrOrDomain)
	if _, after, ok := strings.Cut(domain, "@"); ok {
		domain = after
	}
	if domain == "" {
		return nil
	}

	for i := range d.Firms {
		if d.Firms[i].Domain != "" && d.Firms[i].Domain == domain {
			return &d.Firms[i]
		}
	}
	return nil
}

// Filter returns firms of the given type, excluding any listed by ID or
// name. An empty type matches everything.
func (d *Directory) Filter(firmType string, excluded []string) []Firm {
	excludedSet := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		excludedSet[strings.ToLower(e)] = true
	}

	var result []Firm
	for _, f := range d.Firms {
		if excludedSet[strings.ToLower(f.ID)] || excludedSet[strings.ToLower(f.Name)] {
			continue
		}
		if firmType != "" && !strings.EqualFold(f.Type, firmType) {
			continue
		}
		result = append(result, f)
	}
	return result
}

func (d *Directory) Add(firm Firm) error {
	if d.FindByID(firm.ID) != nil {
		return fmt.Errorf("firm with ID %q already exists", firm.ID)
	}
	normalizeFirm(&firm)
	d.Firms = append(d.Firms, firm)
	return nil
}

func (d *Directory) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to serialize firms: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// SaveWithBackup saves the directory, keeping a .bak of the previous file
func (d *Directory) SaveWithBackup(path string) error {
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file for backup: %w", err)
		}
		if err := os.WriteFile(path+".bak", data, 0644); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	return d.Save(path)
}
