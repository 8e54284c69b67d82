package engine

import (
	"math"

	"github.com/icogen/playground/internal/document"
)

// Text shapes have no measured extent; this box around the anchor stands in for it.
const (
	textHitWidth  = 100
	textHitHeight = 20
	textAscent    = 16
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the rect, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Normalize flips negative extents so that width and height are non-negative.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// RectFromPoints spans the rectangle between two corners in any order.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X:      min(a.X, b.X),
		Y:      min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// ShapeBounds returns the scene-space bounding box of a shape. Paths have no
// parsed geometry and report an empty rect at their anchor.
func ShapeBounds(s document.Shape) Rect {
	switch s.Type {
	case document.ShapeRect:
		return Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
	case document.ShapeCircle:
		return Rect{X: s.X - s.Radius, Y: s.Y - s.Radius, Width: 2 * s.Radius, Height: 2 * s.Radius}
	case document.ShapeText:
		return Rect{X: s.X, Y: s.Y - textAscent, Width: textHitWidth, Height: textHitHeight}
	default:
		return Rect{X: s.X, Y: s.Y}
	}
}

func anchor(s document.Shape) Point {
	x, y := s.Anchor()
	return Point{x, y}
}
