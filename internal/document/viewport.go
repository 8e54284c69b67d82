package document

import "math"

const (
	MinZoom  = 0.1
	MaxZoom  = 5.0
	ZoomStep = 1.2
)

// Viewport is the pan/zoom applied between scene space and the rendering surface.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

func DefaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

// WithZoom returns the viewport with zoom clamped to [MinZoom, MaxZoom].
func (v Viewport) WithZoom(zoom float64) Viewport {
	if math.IsNaN(zoom) {
		zoom = 1
	}
	v.Zoom = min(max(zoom, MinZoom), MaxZoom)
	return v
}

func (v Viewport) ZoomIn() Viewport  { return v.WithZoom(v.Zoom * ZoomStep) }
func (v Viewport) ZoomOut() Viewport { return v.WithZoom(v.Zoom / ZoomStep) }

// Pan shifts the pan offset by (dx, dy) scene units.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.PanX += dx
	v.PanY += dy
	return v
}

// Reset returns the default viewport.
func (Viewport) Reset() Viewport {
	return DefaultViewport()
}
