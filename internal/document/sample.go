package document

import "github.com/icogen/playground/internal/typeid"

// NewSampleScene returns a small scene with one shape of each editable kind.
func NewSampleScene() Scene {
	style := DefaultStyle()
	accent := Style{Fill: "#4f46e5", Stroke: "#1e1b4b", StrokeWidth: 2}

	return Scene{
		NewRect(typeid.NewShapeID(), 40, 40, 120, 80, accent),
		NewCircle(typeid.NewShapeID(), 260, 120, 50, Style{Fill: "#f59e0b", Stroke: "#78350f", StrokeWidth: 2}),
		NewText(typeid.NewShapeID(), 40, 200, "Icon", style),
	}
}
