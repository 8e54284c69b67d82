package engine

import (
	"github.com/icogen/playground/internal/document"
)

// HitTest returns the id of the topmost shape containing p, or "" if the
// point is over the background. Paths have no geometry and are never hit.
func HitTest(scene document.Scene, p Point) string {
	for i := len(scene) - 1; i >= 0; i-- {
		if hitShape(scene[i], p) {
			return scene[i].ID
		}
	}
	return ""
}

func hitShape(s document.Shape, p Point) bool {
	switch s.Type {
	case document.ShapeRect, document.ShapeText:
		return ShapeBounds(s).Contains(p)
	case document.ShapeCircle:
		return p.Distance(anchor(s)) <= s.Radius
	default:
		return false
	}
}

// HandlePosition is a resize handle and its center in scene space.
type HandlePosition struct {
	Handle Handle `json:"handle"`
	Point  Point  `json:"point"`
}

// Handles returns the resize handles of a shape: bounding-box corners for
// rectangles and cardinal points for circles. Other kinds have none.
func Handles(s document.Shape) []HandlePosition {
	switch s.Type {
	case document.ShapeRect:
		return []HandlePosition{
			{HandleNW, Point{s.X, s.Y}},
			{HandleNE, Point{s.X + s.Width, s.Y}},
			{HandleSW, Point{s.X, s.Y + s.Height}},
			{HandleSE, Point{s.X + s.Width, s.Y + s.Height}},
		}
	case document.ShapeCircle:
		b := ShapeBounds(s)
		c := b.Center()
		return []HandlePosition{
			{HandleN, Point{c.X, b.Y}},
			{HandleE, Point{b.X + b.Width, c.Y}},
			{HandleS, Point{c.X, b.Y + b.Height}},
			{HandleW, Point{b.X, c.Y}},
		}
	default:
		return nil
	}
}

// HandleAt returns the handle of s whose hit square contains p.
func HandleAt(s document.Shape, p Point) Handle {
	for _, h := range Handles(s) {
		if handleRect(h.Point).Contains(p) {
			return h.Handle
		}
	}
	return HandleNone
}

func handleRect(c Point) Rect {
	return Rect{X: c.X - HandleSize/2, Y: c.Y - HandleSize/2, Width: HandleSize, Height: HandleSize}
}

// Resize applies a handle drag of (dx, dy) to s. It returns the updated shape
// and the handle that should stay active, which differs from h when a
// rectangle is dragged past its opposite edge and gets normalized.
func Resize(s document.Shape, h Handle, dx, dy float64) (document.Shape, Handle) {
	switch s.Type {
	case document.ShapeRect:
		return resizeRect(s, h, dx, dy)
	case document.ShapeCircle:
		return resizeCircle(s, h, dx, dy), h
	default:
		return s, h
	}
}

func resizeRect(s document.Shape, h Handle, dx, dy float64) (document.Shape, Handle) {
	r := Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
	switch h {
	case HandleNW:
		r.X += dx
		r.Y += dy
		r.Width -= dx
		r.Height -= dy
	case HandleNE:
		r.Y += dy
		r.Width += dx
		r.Height -= dy
	case HandleSW:
		r.X += dx
		r.Width -= dx
		r.Height += dy
	case HandleSE:
		r.Width += dx
		r.Height += dy
	default:
		return s, h
	}

	if r.Width < 0 {
		h = flipHorizontal(h)
	}
	if r.Height < 0 {
		h = flipVertical(h)
	}
	r = r.Normalize()

	s.X, s.Y, s.Width, s.Height = r.X, r.Y, r.Width, r.Height
	return s, h
}

func resizeCircle(s document.Shape, h Handle, dx, dy float64) document.Shape {
	switch h {
	case HandleE:
		s.Radius += dx
	case HandleW:
		s.Radius -= dx
	case HandleS:
		s.Radius += dy
	case HandleN:
		s.Radius -= dy
	}
	s.Radius = max(s.Radius, 0)
	return s
}

func flipHorizontal(h Handle) Handle {
	switch h {
	case HandleNW:
		return HandleNE
	case HandleNE:
		return HandleNW
	case HandleSW:
		return HandleSE
	case HandleSE:
		return HandleSW
	}
	return h
}

func flipVertical(h Handle) Handle {
	switch h {
	case HandleNW:
		return HandleSW
	case HandleSW:
		return HandleNW
	case HandleNE:
		return HandleSE
	case HandleSE:
		return HandleNE
	}
	return h
}
