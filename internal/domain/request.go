package domain

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CanvasContext is the ambient UI state sent alongside an instruction.
type CanvasContext struct {
	SelectedShapeIDs []string `json:"selectedShapeIds,omitempty"`
	ViewportCenter   *Point   `json:"viewportCenter,omitempty"`
}

// CommandRequest is a single interpretation request. It is built once per
// invocation and never retained.
type CommandRequest struct {
	UserInput     string         `json:"userInput"`
	CanvasContext *CanvasContext `json:"canvasContext,omitempty"`
}

// SelectedShapeIDs returns the current selection, never nil.
func (r CommandRequest) SelectedShapeIDs() []string {
	if r.CanvasContext == nil || r.CanvasContext.SelectedShapeIDs == nil {
		return []string{}
	}
	return r.CanvasContext.SelectedShapeIDs
}

// ViewportCenter returns the viewport center or def when the caller did not
// send one.
func (r CommandRequest) ViewportCenter(def Point) Point {
	if r.CanvasContext == nil || r.CanvasContext.ViewportCenter == nil {
		return def
	}
	return *r.CanvasContext.ViewportCenter
}
