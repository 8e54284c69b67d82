package engine

import (
	"errors"
	"fmt"
)

var ErrUnknownTool = errors.New("unknown tool")

type Tool int

const (
	ToolRectangle Tool = iota
	ToolCircle
	ToolText
	ToolEraser
	ToolMove
)

var toolNames = map[Tool]string{
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolText:      "text",
	ToolEraser:    "eraser",
	ToolMove:      "move",
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// ParseTool accepts the names produced by String. "rect" and "select" are
// accepted as aliases used by the toolbar.
func ParseTool(name string) (Tool, error) {
	switch name {
	case "rect":
		return ToolRectangle, nil
	case "select":
		return ToolMove, nil
	}
	for t, n := range toolNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// Handle identifies a resize control on the selected shape.
type Handle string

const (
	HandleNone Handle = ""
	HandleNW   Handle = "nw"
	HandleNE   Handle = "ne"
	HandleSW   Handle = "sw"
	HandleSE   Handle = "se"
	HandleN    Handle = "n"
	HandleE    Handle = "e"
	HandleS    Handle = "s"
	HandleW    Handle = "w"
)

// HandleSize is the side of the square hit area of a handle, in scene units.
const HandleSize = 8

// Gesture is the phase of the pointer interaction in progress.
type Gesture string

const (
	GestureIdle     Gesture = "idle"
	GestureDrawing  Gesture = "drawing"
	GestureDragging Gesture = "dragging"
	GesturePanning  Gesture = "panning"
	GestureErasing  Gesture = "erasing"
)

type PointerKind string

const (
	PointerDown        PointerKind = "down"
	PointerMove        PointerKind = "move"
	PointerUp          PointerKind = "up"
	PointerCancel      PointerKind = "cancel"
	PointerDoubleClick PointerKind = "doubleclick"
)

// PointerEvent is a single pointer input. Point is in scene space, Screen is
// the raw device position used for panning. TargetID is the element identity
// reported by the rendering surface, if any.
type PointerEvent struct {
	Kind     PointerKind `json:"kind"`
	Point    Point       `json:"point"`
	Screen   Point       `json:"screen"`
	TargetID string      `json:"targetId,omitempty"`
}
