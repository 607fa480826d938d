// Package templates holds the read-only template catalog and resolves
// template references in complex commands into concrete shape data.
package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"canvas-agent/internal/colorpolicy"
	"canvas-agent/internal/domain"
)

//go:embed templates.yaml
var builtinYAML []byte

type entry struct {
	domain.Template `yaml:",inline"`
	Aliases         []string `yaml:"aliases,omitempty"`
}

// Catalog is an immutable lookup table of templates keyed by normalized name.
// It is safe for concurrent use.
type Catalog struct {
	byKey map[string]domain.Template
	names []string
}

// NewCatalog builds a catalog from the embedded built-in templates, then
// applies extra on top. An extra template replaces a built-in one with the
// same normalized name.
func NewCatalog(extra ...domain.Template) (*Catalog, error) {
	builtins, err := parseEntries(builtinYAML)
	if err != nil {
		return nil, err
	}
	for _, t := range extra {
		builtins = append(builtins, entry{Template: t})
	}
	return build(builtins)
}

// ParseYAML decodes a YAML template list in the same format as the embedded
// catalog.
func ParseYAML(data []byte) ([]domain.Template, error) {
	entries, err := parseEntries(data)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Template, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Template)
	}
	return out, nil
}

func parseEntries(data []byte) ([]entry, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("templates: decode yaml: %w", err)
	}
	return entries, nil
}

func build(entries []entry) (*Catalog, error) {
	merged := make(map[string]entry, len(entries))
	for _, e := range entries {
		if err := validate(e.Template); err != nil {
			return nil, err
		}
		key := normalize(e.Name)
		if prev, ok := merged[key]; ok {
			e.Aliases = append(append([]string(nil), prev.Aliases...), e.Aliases...)
		}
		merged[key] = e
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	c := &Catalog{byKey: make(map[string]domain.Template, len(merged))}
	for _, key := range keys {
		e := merged[key]
		c.byKey[key] = e.Template.Clone()
		c.names = append(c.names, e.Name)
	}
	// Canonical names win over aliases.
	for _, key := range keys {
		e := merged[key]
		for _, alias := range e.Aliases {
			ak := normalize(alias)
			if _, taken := c.byKey[ak]; taken || ak == "" {
				continue
			}
			c.byKey[ak] = e.Template.Clone()
		}
	}
	sort.Strings(c.names)
	return c, nil
}

func validate(t domain.Template) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("templates: template name must not be empty")
	}
	if normalize(t.Name) == "" {
		return fmt.Errorf("templates: template name %q has no letters or digits", t.Name)
	}
	for i, s := range t.Shapes {
		if !colorpolicy.IsGrayscale(s.Fill) || !colorpolicy.IsGrayscale(s.Stroke) {
			return fmt.Errorf("templates: template %q shape %d is not grayscale", t.Name, i)
		}
	}
	return nil
}

// Names returns the canonical template names, sorted.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Lookup returns a copy of the template registered under name or one of its
// aliases. Matching ignores case, spaces, dashes and underscores.
func (c *Catalog) Lookup(name string) (domain.Template, bool) {
	t, ok := c.byKey[normalize(name)]
	if !ok {
		return domain.Template{}, false
	}
	return t.Clone(), true
}

// normalize folds "Navigation Bar", "navigation_bar" and "navigationBar" to
// the same key.
func normalize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
