package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the set of legal categories and output languages the assistant
// accepts. GenerationLanguage is the language the model answers in before
// translation.
type Catalog struct {
	GenerationLanguage string            `yaml:"generation_language"`
	Categories         []string          `yaml:"categories"`
	Languages          map[string]string `yaml:"languages"`
}

// LoadCatalog reads the catalog from path, or the embedded default when path
// is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("catalog has no categories")
	}
	if c.GenerationLanguage == "" {
		c.GenerationLanguage = "English"
	}
	if c.Languages == nil {
		c.Languages = map[string]string{}
	}
	if _, ok := c.Languages[c.GenerationLanguage]; !ok {
		c.Languages[c.GenerationLanguage] = strings.ToLower(c.GenerationLanguage[:2])
	}
	return &c, nil
}

// Canonical maps a client supplied category ("criminal-law", "CRIMINAL LAW",
// "Criminal Law") to its catalog spelling. Matching ignores case and every
// rune that is not a letter or digit.
func (c *Catalog) Canonical(raw string) (string, bool) {
	for _, cat := range c.Categories {
		if cat == raw {
			return cat, true
		}
	}
	key := foldCategory(raw)
	if key == "" {
		return "", false
	}
	for _, cat := range c.Categories {
		if foldCategory(cat) == key {
			return cat, true
		}
	}
	return "", false
}

// HasCategory reports an exact catalog match.
func (c *Catalog) HasCategory(name string) bool {
	for _, cat := range c.Categories {
		if cat == name {
			return true
		}
	}
	return false
}

func (c *Catalog) HasLanguage(name string) bool {
	_, ok := c.Languages[name]
	return ok
}

func (c *Catalog) LanguageCode(name string) string {
	return c.Languages[name]
}

// LanguageNames returns the configured language names sorted alphabetically.
func (c *Catalog) LanguageNames() []string {
	names := make([]string, 0, len(c.Languages))
	for name := range c.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func foldCategory(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
