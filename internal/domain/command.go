package domain

import (
	"encoding/json"
	"fmt"
)

// Category is the top-level command family the UI dispatches on.
type Category string

const (
	CategoryCreation     Category = "creation"
	CategoryManipulation Category = "manipulation"
	CategoryLayout       Category = "layout"
	CategoryComplex      Category = "complex"
	CategorySelection    Category = "selection"
	CategoryDeletion     Category = "deletion"
	CategoryStyle        Category = "style"
	CategoryUtility      Category = "utility"
)

// Categories lists every category in the order they are presented to the model.
var Categories = []Category{
	CategoryCreation,
	CategoryManipulation,
	CategoryLayout,
	CategoryComplex,
	CategorySelection,
	CategoryDeletion,
	CategoryStyle,
	CategoryUtility,
}

// Command is the validated, machine-actionable output of the pipeline.
// Parameters are intentionally loose: only Category and Action are checked at
// the boundary, category-specific shape is left to Typed and the UI.
type Command struct {
	Category   Category       `json:"category"`
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

// CategoryParams is implemented by the per-category parameter records.
type CategoryParams interface {
	category() Category
}

// CreationParams covers single, multi-shape and grid creation.
type CreationParams struct {
	ShapeType string   `json:"shapeType,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	Radius    *float64 `json:"radius,omitempty"`
	Fill      string   `json:"fill,omitempty"`
	Stroke    string   `json:"stroke,omitempty"`
	Color     string   `json:"color,omitempty"`
	Text      string   `json:"text,omitempty"`
	Texts     []string `json:"texts,omitempty"`
	Count     int      `json:"count,omitempty"`
	GridRows  int      `json:"gridRows,omitempty"`
	GridCols  int      `json:"gridCols,omitempty"`
}

// ManipulationParams covers moves, rotations and resizes.
type ManipulationParams struct {
	ShapeIDs       []string `json:"shapeIds,omitempty"`
	X              *float64 `json:"x,omitempty"`
	Y              *float64 `json:"y,omitempty"`
	DeltaX         *float64 `json:"deltaX,omitempty"`
	DeltaY         *float64 `json:"deltaY,omitempty"`
	Width          *float64 `json:"width,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	Rotation       *float64 `json:"rotation,omitempty"`
	SizeMultiplier *float64 `json:"sizeMultiplier,omitempty"`
	SizePercent    *float64 `json:"sizePercent,omitempty"`
}

type LayoutParams struct {
	ShapeIDs    []string `json:"shapeIds,omitempty"`
	Arrangement string   `json:"arrangement,omitempty"`
	Alignment   string   `json:"alignment,omitempty"`
	Spacing     *float64 `json:"spacing,omitempty"`
	Columns     int      `json:"columns,omitempty"`
}

// ComplexParams references a template. TemplateData is filled by the
// template resolver.
type ComplexParams struct {
	Template     string    `json:"template,omitempty"`
	ItemCount    *float64  `json:"itemCount,omitempty"`
	Texts        []string  `json:"texts,omitempty"`
	X            *float64  `json:"x,omitempty"`
	Y            *float64  `json:"y,omitempty"`
	TemplateData *Template `json:"templateData,omitempty"`
}

type SelectionParams struct {
	ShapeIDs  []string `json:"shapeIds,omitempty"`
	ShapeType string   `json:"shapeType,omitempty"`
	Fill      string   `json:"fill,omitempty"`
	All       bool     `json:"all,omitempty"`
}

type DeletionParams struct {
	ShapeIDs  []string `json:"shapeIds,omitempty"`
	ShapeType string   `json:"shapeType,omitempty"`
	All       bool     `json:"all,omitempty"`
}

type StyleParams struct {
	ShapeIDs    []string `json:"shapeIds,omitempty"`
	Fill        string   `json:"fill,omitempty"`
	Stroke      string   `json:"stroke,omitempty"`
	Color       string   `json:"color,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
}

// UtilityParams covers refusals, zoom and other non-shape actions.
type UtilityParams struct {
	Message string   `json:"message,omitempty"`
	Zoom    *float64 `json:"zoom,omitempty"`
}

func (CreationParams) category() Category     { return CategoryCreation }
func (ManipulationParams) category() Category { return CategoryManipulation }
func (LayoutParams) category() Category       { return CategoryLayout }
func (ComplexParams) category() Category      { return CategoryComplex }
func (SelectionParams) category() Category    { return CategorySelection }
func (DeletionParams) category() Category     { return CategoryDeletion }
func (StyleParams) category() Category        { return CategoryStyle }
func (UtilityParams) category() Category      { return CategoryUtility }

// Typed decodes Parameters into the record for the command's category.
func (c Command) Typed() (CategoryParams, error) {
	var out CategoryParams
	switch c.Category {
	case CategoryCreation:
		out = &CreationParams{}
	case CategoryManipulation:
		out = &ManipulationParams{}
	case CategoryLayout:
		out = &LayoutParams{}
	case CategoryComplex:
		out = &ComplexParams{}
	case CategorySelection:
		out = &SelectionParams{}
	case CategoryDeletion:
		out = &DeletionParams{}
	case CategoryStyle:
		out = &StyleParams{}
	case CategoryUtility:
		out = &UtilityParams{}
	default:
		return nil, fmt.Errorf("domain: unknown command category %q", c.Category)
	}
	raw, err := json.Marshal(c.Parameters)
	if err != nil {
		return nil, fmt.Errorf("domain: encode parameters: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("domain: decode %s parameters: %w", c.Category, err)
	}
	return out, nil
}
