package templates

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"canvas-agent/internal/domain"
)

// NavigationBar is the canonical name of the template generated per request
// from an item count.
const NavigationBar = "navigation-bar"

const (
	minNavItems   = 1
	maxNavItems   = 10
	navItemWidth  = 120
	navItemHeight = 40
	navItemGap    = 16
	navPadding    = 16
	navBarHeight  = navItemHeight + 2*8
)

// Outcome describes what Resolve did with a command.
type Outcome int

const (
	// NotApplicable means the command is not a complex command with a
	// template name.
	NotApplicable Outcome = iota
	Generated
	Static
	// Unknown means the template name matched nothing. No data is attached.
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case NotApplicable:
		return "not_applicable"
	case Generated:
		return "generated"
	case Static:
		return "static"
	case Unknown:
		return "unknown"
	default:
		return "outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// Resolve attaches parameters.templateData to complex commands that reference
// a template. The navigation bar is generated from parameters.itemCount when
// present; other names are copied from the catalog.
func (c *Catalog) Resolve(cmd *domain.Command) (Outcome, error) {
	if cmd == nil || cmd.Category != domain.CategoryComplex {
		return NotApplicable, nil
	}
	name, ok := cmd.Parameters["template"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return NotApplicable, nil
	}

	var (
		tpl     domain.Template
		outcome Outcome
	)
	rawCount, hasCount := cmd.Parameters["itemCount"]
	if hasCount && c.isNavigationBar(name) {
		tpl = GenerateNavigationBar(itemCount(rawCount), stringList(cmd.Parameters["texts"]))
		outcome = Generated
	} else if found, ok := c.Lookup(name); ok {
		tpl = found
		outcome = Static
	} else {
		return Unknown, nil
	}

	data, err := tpl.AsParameter()
	if err != nil {
		return outcome, fmt.Errorf("templates: resolve %q: %w", name, err)
	}
	cmd.Parameters["templateData"] = data
	return outcome, nil
}

func (c *Catalog) isNavigationBar(name string) bool {
	key := normalize(name)
	if key == normalize(NavigationBar) {
		return true
	}
	t, ok := c.byKey[key]
	return ok && normalize(t.Name) == normalize(NavigationBar)
}

// GenerateNavigationBar lays out count items left to right. count is clamped
// to [1, 10]. labels override the default "Item N" text positionally.
func GenerateNavigationBar(count int, labels []string) domain.Template {
	count = ClampItemCount(count)
	shapes := make([]domain.Shape, 0, count)
	for i := 0; i < count; i++ {
		label := fmt.Sprintf("Item %d", i+1)
		if i < len(labels) && strings.TrimSpace(labels[i]) != "" {
			label = labels[i]
		}
		shapes = append(shapes, domain.Shape{
			ShapeType: "rectangle",
			X:         float64(navPadding + i*(navItemWidth+navItemGap)),
			Y:         float64((navBarHeight - navItemHeight) / 2),
			Width:     navItemWidth,
			Height:    navItemHeight,
			Fill:      "#FFFFFF",
			Stroke:    "#333333",
			Text:      label,
		})
	}
	return domain.Template{
		Name:        NavigationBar,
		Description: fmt.Sprintf("Navigation bar with %d items", count),
		Width:       float64(2*navPadding + count*navItemWidth + (count-1)*navItemGap),
		Height:      navBarHeight,
		Shapes:      shapes,
	}
}

// ClampItemCount bounds a navigation bar item count to [1, 10].
func ClampItemCount(n int) int {
	if n < minNavItems {
		return minNavItems
	}
	if n > maxNavItems {
		return maxNavItems
	}
	return n
}

// itemCount reads a model-provided count. Non-numeric values fall back to the
// minimum.
func itemCount(v any) int {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		return n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return minNavItems
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return minNavItems
		}
		f = parsed
	default:
		return minNavItems
	}
	if math.IsNaN(f) {
		return minNavItems
	}
	if f > maxNavItems {
		return maxNavItems
	}
	if f < minNavItems {
		return minNavItems
	}
	return int(f)
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := item.(string)
		out = append(out, s)
	}
	return out
}
