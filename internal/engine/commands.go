package engine

import (
	"encoding/json"

	"github.com/icogen/playground/internal/document"
)

const (
	GridSize      = 100
	MajorGridSize = GridSize * 5
)

// DrawCommand represents a single drawing operation for the rendering surface.
// The grid is drawn first, then the shapes in z-order, then the selection
// handles. Grid and handles have Overlay set.
type DrawCommand struct {
	Op          string    `json:"op"`                 // "rect", "circle", "text", "path", "grid", "handle"
	ObjectID    string    `json:"objectId,omitempty"` // For hit correlation
	Transform   []float64 `json:"transform,omitempty"` // Omitted for the identity transform
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	Content     string    `json:"content,omitempty"`
	PathData    string    `json:"pathData,omitempty"`
	Spacing     float64   `json:"spacing,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Overlay     bool      `json:"overlay,omitempty"`
}

// Overlay is the editor decoration drawn above the scene.
type Overlay struct {
	Grid      bool
	Handles   []HandlePosition
	Transform Matrix2D
}

// CompileDrawCommands generates a draw command buffer in painter's order
// (back to front). The grid is emitted before the shapes and the handles
// after them.
func CompileDrawCommands(scene document.Scene, overlay Overlay) []DrawCommand {
	var t []float64
	if transform := overlay.Transform; transform != (Matrix2D{}) && !transform.IsIdentity() {
		t = transform.ToSlice()
	}

	commands := make([]DrawCommand, 0, len(scene)+len(overlay.Handles)+1)
	if overlay.Grid {
		commands = append(commands, DrawCommand{
			Op:          "grid",
			Transform:   t,
			Width:       MajorGridSize,
			Height:      MajorGridSize,
			Spacing:     GridSize,
			Stroke:      "rgba(0,0,0,0.1)",
			StrokeWidth: 0.5,
			Overlay:     true,
		})
	}

	for _, s := range scene {
		commands = append(commands, shapeCommand(s, t))
	}

	for _, h := range overlay.Handles {
		commands = append(commands, DrawCommand{
			Op:          "handle",
			ObjectID:    string(h.Handle),
			Transform:   t,
			X:           h.Point.X - HandleSize/2,
			Y:           h.Point.Y - HandleSize/2,
			Width:       HandleSize,
			Height:      HandleSize,
			Fill:        "white",
			Stroke:      "black",
			StrokeWidth: 1,
			Overlay:     true,
		})
	}
	return commands
}

func shapeCommand(s document.Shape, t []float64) DrawCommand {
	return DrawCommand{
		Op:          string(s.Type),
		ObjectID:    s.ID,
		Transform:   t,
		X:           s.X,
		Y:           s.Y,
		Width:       s.Width,
		Height:      s.Height,
		Radius:      s.Radius,
		Content:     s.Content,
		PathData:    s.PathData,
		Fill:        s.Fill,
		Stroke:      s.Stroke,
		StrokeWidth: s.StrokeWidth,
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// SelectionBounds returns the combined bounding box of the given shape ids.
func SelectionBounds(scene document.Scene, ids []string) Rect {
	var result Rect
	for _, id := range ids {
		shape, ok := document.FindShape(scene, id)
		if !ok {
			continue
		}
		result = result.Union(ShapeBounds(shape))
	}
	return result
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r Rect) string {
	data, _ := json.Marshal(r)
	return string(data)
}
