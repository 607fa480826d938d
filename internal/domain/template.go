package domain

import (
	"encoding/json"
	"fmt"
)

// Shape is a single shape descriptor inside a template. Coordinates are
// relative to the template origin.
type Shape struct {
	ShapeType string  `json:"shapeType" yaml:"shapeType"`
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Width     float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height    float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Radius    float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Fill      string  `json:"fill" yaml:"fill"`
	Stroke    string  `json:"stroke" yaml:"stroke"`
	Text      string  `json:"text,omitempty" yaml:"text,omitempty"`
}

// Template is a named collection of shapes insertable under the complex
// category.
type Template struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
	Shapes      []Shape `json:"shapes" yaml:"shapes"`
}

// Clone returns a deep copy.
func (t Template) Clone() Template {
	out := t
	out.Shapes = append([]Shape(nil), t.Shapes...)
	return out
}

// AsParameter converts the template into the loose JSON-object form stored in
// Command.Parameters["templateData"].
func (t Template) AsParameter() (map[string]any, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("domain: encode template %q: %w", t.Name, err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("domain: decode template %q: %w", t.Name, err)
	}
	return out, nil
}
