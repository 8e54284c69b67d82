package document

import "math"

type ShapeKind string

// Kinds use the markup tag names so imported elements map directly.
const (
	ShapeRect   ShapeKind = "rect"
	ShapeCircle ShapeKind = "circle"
	ShapeText   ShapeKind = "text"
	ShapePath   ShapeKind = "path"
)

const (
	PlaceholderText = "Double-click to edit"
	Transparent     = "transparent"
)

// Shape is one drawable element of a scene.
//
// Geometry depends on Type: rectangles use X/Y as the top-left corner with
// Width/Height, circles use X/Y as the center with Radius, text uses X/Y as the
// baseline anchor with Content, and paths carry opaque PathData with X/Y kept
// for information only. Shape is comparable, so two scenes can be compared by value.
type Shape struct {
	ID          string    `json:"id"`
	Type        ShapeKind `json:"type"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	Fill        string    `json:"fill"`
	Stroke      string    `json:"stroke"`
	StrokeWidth float64   `json:"strokeWidth"`
	Content     string    `json:"content,omitempty"`
	PathData    string    `json:"pathData,omitempty"`
}

type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// DefaultStyle is the editor's initial drawing style.
func DefaultStyle() Style {
	return Style{Fill: "#000000", Stroke: "#000000", StrokeWidth: 1}
}

// Normalized returns the style with a non-negative stroke width.
func (s Style) Normalized() Style {
	if s.StrokeWidth < 0 || math.IsNaN(s.StrokeWidth) {
		s.StrokeWidth = 0
	}
	return s
}

func NewRect(id string, x, y, width, height float64, style Style) Shape {
	style = style.Normalized()
	return Shape{
		ID: id, Type: ShapeRect,
		X: x, Y: y, Width: width, Height: height,
		Fill: style.Fill, Stroke: style.Stroke, StrokeWidth: style.StrokeWidth,
	}
}

func NewCircle(id string, cx, cy, radius float64, style Style) Shape {
	style = style.Normalized()
	return Shape{
		ID: id, Type: ShapeCircle,
		X: cx, Y: cy, Radius: radius,
		Fill: style.Fill, Stroke: style.Stroke, StrokeWidth: style.StrokeWidth,
	}
}

func NewText(id string, x, y float64, content string, style Style) Shape {
	style = style.Normalized()
	return Shape{
		ID: id, Type: ShapeText,
		X: x, Y: y, Content: content,
		Fill: style.Fill, Stroke: style.Stroke, StrokeWidth: style.StrokeWidth,
	}
}

func NewPath(id string, x, y float64, pathData string, style Style) Shape {
	style = style.Normalized()
	return Shape{
		ID: id, Type: ShapePath,
		X: x, Y: y, PathData: pathData,
		Fill: style.Fill, Stroke: style.Stroke, StrokeWidth: style.StrokeWidth,
	}
}

// Anchor returns the stored (x, y) of the shape. For circles this is the center.
func (s Shape) Anchor() (float64, float64) {
	return s.X, s.Y
}

// Style returns the paint properties of the shape.
func (s Shape) Style() Style {
	return Style{Fill: s.Fill, Stroke: s.Stroke, StrokeWidth: s.StrokeWidth}
}

// ShapePatch describes a partial update. Nil fields are left unchanged.
type ShapePatch struct {
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Radius      *float64 `json:"radius,omitempty"`
	Fill        *string  `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Content     *string  `json:"content,omitempty"`
	PathData    *string  `json:"pathData,omitempty"`
}

// Apply returns s with every non-nil field of the patch written over it.
func (p ShapePatch) Apply(s Shape) Shape {
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.Radius != nil {
		s.Radius = *p.Radius
	}
	if p.Fill != nil {
		s.Fill = *p.Fill
	}
	if p.Stroke != nil {
		s.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		s.StrokeWidth = max(*p.StrokeWidth, 0)
	}
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.PathData != nil {
		s.PathData = *p.PathData
	}
	return s
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }
