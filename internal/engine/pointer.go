package engine

import (
	"github.com/icogen/playground/internal/document"
)

func (e *Engine) pointerDown(ev PointerEvent) {
	p := ev.Point
	switch e.tool {
	case ToolRectangle, ToolCircle:
		id := e.newID()
		var shape document.Shape
		if e.tool == ToolRectangle {
			shape = document.NewRect(id, p.X, p.Y, 0, 0, e.style)
		} else {
			shape = document.NewCircle(id, p.X, p.Y, 0, e.style)
		}
		e.gesture = GestureDrawing
		e.dragStart = p
		e.drawingID = id
		e.commit(document.AddShape(e.scene, shape))

	case ToolText:
		e.commit(document.AddShape(e.scene, document.NewText(e.newID(), p.X, p.Y, document.PlaceholderText, e.style)))

	case ToolEraser:
		e.gesture = GestureErasing
		e.erase(p)
		e.touch()

	case ToolMove:
		e.grab(ev)
	}
}

// grab starts a move-tool gesture: a handle of the selected shape takes
// priority, then the topmost shape under the pointer, then the background.
func (e *Engine) grab(ev PointerEvent) {
	p := ev.Point
	if selected, ok := document.FindShape(e.scene, e.selection); ok {
		if h := HandleAt(selected, p); h != HandleNone {
			e.gesture = GestureDragging
			e.activeHandle = h
			e.dragStart = p
			e.touch()
			return
		}
	}

	if id := e.target(ev); id != "" {
		e.selection = id
		e.gesture = GestureDragging
		e.dragStart = p
	} else {
		e.selection = ""
		e.gesture = GesturePanning
		e.lastScreen = ev.Screen
	}
	e.touch()
}

// target resolves the shape under the pointer, preferring the identity
// reported by the rendering surface.
func (e *Engine) target(ev PointerEvent) string {
	if ev.TargetID != "" {
		if _, ok := document.FindShape(e.scene, ev.TargetID); ok {
			return ev.TargetID
		}
	}
	return HitTest(e.scene, ev.Point)
}

func (e *Engine) pointerMove(ev PointerEvent) {
	p := ev.Point
	switch e.gesture {
	case GestureDrawing:
		e.drawTo(p)

	case GestureErasing:
		e.erase(p)

	case GestureDragging:
		shape, ok := document.FindShape(e.scene, e.selection)
		if !ok {
			e.resetGesture()
			return
		}
		d := p.Sub(e.dragStart)
		e.dragStart = p
		if e.activeHandle != HandleNone {
			var h Handle
			shape, h = Resize(shape, e.activeHandle, d.X, d.Y)
			e.activeHandle = h
		} else {
			shape = translate(shape, d.X, d.Y)
		}
		e.commit(document.ReplaceShape(e.scene, shape))

	case GesturePanning:
		zoom := e.viewport.Zoom
		d := ev.Screen.Sub(e.lastScreen)
		e.lastScreen = ev.Screen
		if d.X == 0 && d.Y == 0 {
			return
		}
		e.viewport = e.viewport.Pan(d.X/zoom, d.Y/zoom)
		e.touch()
	}
}

func (e *Engine) pointerUp() {
	if e.gesture == GestureIdle && e.activeHandle == HandleNone {
		return
	}
	e.resetGesture()
	e.touch()
}

func (e *Engine) doubleClick(ev PointerEvent) {
	if e.gesture != GestureIdle {
		return
	}
	if id := e.target(ev); id != "" {
		e.BeginTextEdit(id)
	}
}

// drawTo reshapes the in-progress rectangle or circle so it spans from the
// drag start to p. The shape keeps its id for the whole gesture.
func (e *Engine) drawTo(p Point) {
	shape, ok := document.FindShape(e.scene, e.drawingID)
	if !ok {
		e.resetGesture()
		return
	}
	switch shape.Type {
	case document.ShapeRect:
		r := RectFromPoints(e.dragStart, p)
		shape.X, shape.Y, shape.Width, shape.Height = r.X, r.Y, r.Width, r.Height
	case document.ShapeCircle:
		shape.Radius = e.dragStart.Distance(p)
	}
	e.commit(document.ReplaceShape(e.scene, shape))
}

// erase clears the fill of every rectangle and circle whose anchor lies
// within half the eraser size of p.
func (e *Engine) erase(p Point) {
	radius := e.eraserSize / 2
	e.commit(document.Map(e.scene, func(s document.Shape) document.Shape {
		if s.Type != document.ShapeRect && s.Type != document.ShapeCircle {
			return s
		}
		if p.Distance(anchor(s)) <= radius {
			s.Fill = document.Transparent
		}
		return s
	}))
}

// translate moves a shape by (dx, dy). Paths keep their anchor because their
// geometry lives in the path data.
func translate(s document.Shape, dx, dy float64) document.Shape {
	if s.Type == document.ShapePath {
		return s
	}
	s.X += dx
	s.Y += dy
	return s
}
