// Package catalog holds the static questionnaire configuration: the question set and the
// per-category advice, link and icon tables used by renderers and exporters.
package catalog

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"

	"risk-scorecard/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// CategoryAdvice is the static guidance shown next to a category result.
type CategoryAdvice struct {
	Advice    string `yaml:"advice" json:"advice"`
	LinkQuery string `yaml:"link_query" json:"link_query"`
	Icon      string `yaml:"icon" json:"icon"`
}

// Catalog is loaded once at startup and never mutated.
type Catalog struct {
	Title        string                    `yaml:"title"`
	LinkTemplate string                    `yaml:"link_template"`
	Questions    domain.QuestionSet        `yaml:"questions"`
	Advice       map[string]CategoryAdvice `yaml:"advice"`
}

// Default returns the embedded fall-risk catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or returns the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Questions.Validate(); err != nil {
		return nil, domain.NewError(domain.CodeInvalidQuestionSet, "invalid question set", err)
	}
	if c.Advice == nil {
		c.Advice = map[string]CategoryAdvice{}
	}
	return &c, nil
}

// AdviceFor returns the advice entry for category.
func (c *Catalog) AdviceFor(category string) (CategoryAdvice, bool) {
	a, ok := c.Advice[category]
	return a, ok
}

// LinkFor expands the product link template for category, or returns "" when either is missing.
func (c *Catalog) LinkFor(category string) string {
	a, ok := c.Advice[category]
	if !ok || a.LinkQuery == "" || c.LinkTemplate == "" {
		return ""
	}
	if strings.Contains(c.LinkTemplate, "%s") {
		return fmt.Sprintf(c.LinkTemplate, a.LinkQuery)
	}
	return c.LinkTemplate + url.QueryEscape(a.LinkQuery)
}
