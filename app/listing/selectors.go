package listing

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed selectors.yml
var defaultSelectorsYAML []byte

// Selectors holds the per-field selector strategy lists, in priority order.
// The built-in profile targets AutoScout24; a site markup change only needs a
// profile update, not a code change.
type Selectors struct {
	Title          []string `yaml:"title"`
	Price          []string `yaml:"price"`
	KeyFacts       []string `yaml:"key_facts"`
	VocabularyScan []string `yaml:"vocabulary_scan"`
	Power          []string `yaml:"power"`
	Description    []string `yaml:"description"`
	Equipment      string   `yaml:"equipment"`
	SellerName     []string `yaml:"seller_name"`
	SellerPhone    []string `yaml:"seller_phone"`
	SellerAddress  []string `yaml:"seller_address"`
	MetaImage      string   `yaml:"meta_image"`
	Gallery        []string `yaml:"gallery"`
}

// DefaultSelectors returns the embedded selector profile. The embedded YAML
// is validated at test time, so a parse failure here is a build defect.
func DefaultSelectors() *Selectors {
	sel, err := parseSelectors(defaultSelectorsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded selector profile is invalid: %v", err))
	}
	return sel
}

// LoadSelectors reads a selector profile from file, falling back to the
// embedded profile when path is empty.
func LoadSelectors(path string) (*Selectors, error) {
	if path == "" {
		return DefaultSelectors(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selectors file: %w", err)
	}

	sel, err := parseSelectors(data)
	if err != nil {
		return nil, fmt.Errorf("invalid selectors file %s: %w", path, err)
	}

	return sel, nil
}

func parseSelectors(data []byte) (*Selectors, error) {
	var sel Selectors
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := sel.validate(); err != nil {
		return nil, err
	}

	return &sel, nil
}

func (s *Selectors) validate() error {
	requiredLists := map[string][]string{
		"title":           s.Title,
		"price":           s.Price,
		"key_facts":       s.KeyFacts,
		"vocabulary_scan": s.VocabularyScan,
		"power":           s.Power,
		"description":     s.Description,
		"seller_name":     s.SellerName,
		"seller_phone":    s.SellerPhone,
		"seller_address":  s.SellerAddress,
		"gallery":         s.Gallery,
	}

	for name, list := range requiredLists {
		if len(list) == 0 {
			return fmt.Errorf("selector list '%s' must not be empty", name)
		}
	}

	if s.Equipment == "" {
		return fmt.Errorf("selector 'equipment' is required")
	}
	if s.MetaImage == "" {
		return fmt.Errorf("selector 'meta_image' is required")
	}

	return nil
}
