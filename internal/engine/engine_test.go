package engine

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icogen/playground/internal/document"
)

func newTestEngine() *Engine {
	n := 0
	return NewEngine(WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("shape-%d", n)
	}))
}

func down(e *Engine, x, y float64) {
	e.HandlePointer(PointerEvent{Kind: PointerDown, Point: Point{x, y}, Screen: Point{x, y}})
}

func move(e *Engine, x, y float64) {
	e.HandlePointer(PointerEvent{Kind: PointerMove, Point: Point{x, y}, Screen: Point{x, y}})
}

func up(e *Engine) {
	e.HandlePointer(PointerEvent{Kind: PointerUp})
}

func TestDrawRectangle(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolRectangle)

	down(e, 10, 10)
	move(e, 30, 20)
	move(e, 50, 40)
	up(e)

	scene := e.Scene()
	require.Len(t, scene, 1, "moves must update the same shape")
	s := scene[0]
	assert.Equal(t, document.ShapeRect, s.Type)
	assert.Equal(t, "shape-1", s.ID)
	assert.Equal(t, [4]float64{10, 10, 40, 30}, [4]float64{s.X, s.Y, s.Width, s.Height})
	assert.Equal(t, GestureIdle, e.Gesture())
}

func TestDrawRectangle_BackwardsDrag(t *testing.T) {
	e := newTestEngine()
	down(e, 50, 40)
	move(e, 10, 10)
	up(e)

	s := e.Scene()[0]
	assert.Equal(t, [4]float64{10, 10, 40, 30}, [4]float64{s.X, s.Y, s.Width, s.Height})
}

func TestDrawRectangle_ZeroMovement(t *testing.T) {
	e := newTestEngine()
	down(e, 7, 8)
	up(e)

	require.Len(t, e.Scene(), 1)
	s := e.Scene()[0]
	assert.Equal(t, 0.0, s.Width)
	assert.Equal(t, 0.0, s.Height)
}

func TestDrawCircle(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolCircle)

	down(e, 0, 0)
	move(e, 1, 1)
	move(e, 3, 4)
	up(e)

	require.Len(t, e.Scene(), 1)
	s := e.Scene()[0]
	assert.Equal(t, document.ShapeCircle, s.Type)
	assert.Equal(t, 0.0, s.X)
	assert.Equal(t, 0.0, s.Y)
	assert.InDelta(t, 5.0, s.Radius, 1e-9)
}

func TestDrawUsesCurrentStyle(t *testing.T) {
	e := newTestEngine()
	e.SetStyle(document.Style{Fill: "#ff0000", Stroke: "#00ff00", StrokeWidth: 3})
	down(e, 0, 0)
	up(e)

	s := e.Scene()[0]
	assert.Equal(t, "#ff0000", s.Fill)
	assert.Equal(t, "#00ff00", s.Stroke)
	assert.Equal(t, 3.0, s.StrokeWidth)
}

func TestTextCreatedOnDown(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolText)

	down(e, 20, 30)
	assert.Equal(t, GestureIdle, e.Gesture())
	move(e, 100, 100)
	up(e)

	require.Len(t, e.Scene(), 1)
	s := e.Scene()[0]
	assert.Equal(t, document.ShapeText, s.Type)
	assert.Equal(t, document.PlaceholderText, s.Content)
	assert.Equal(t, 20.0, s.X)
	assert.Equal(t, 30.0, s.Y)
}

func TestEraser(t *testing.T) {
	e := newTestEngine()
	style := document.Style{Fill: "#123456", Stroke: "#000000", StrokeWidth: 1}
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewRect("near", 12, 11, 5, 5, style),
		document.NewRect("far", 100, 100, 5, 5, style),
		document.NewText("label", 10, 10, "hi", style),
	}))
	e.SetTool(ToolEraser)
	e.SetEraserSize(20)

	down(e, 10, 10)
	up(e)

	near, _ := document.FindShape(e.Scene(), "near")
	far, _ := document.FindShape(e.Scene(), "far")
	label, _ := document.FindShape(e.Scene(), "label")
	assert.Equal(t, document.Transparent, near.Fill)
	assert.Equal(t, "#123456", far.Fill)
	assert.Equal(t, "#123456", label.Fill, "text is not erasable")
	assert.Len(t, e.Scene(), 3, "eraser never removes shapes")
}

func TestEraser_Drag(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewCircle("c", 200, 200, 10, document.DefaultStyle()),
	}))
	e.SetTool(ToolEraser)

	down(e, 0, 0)
	move(e, 195, 195)
	up(e)
	move(e, 400, 400)

	c, _ := document.FindShape(e.Scene(), "c")
	assert.Equal(t, document.Transparent, c.Fill)
}

func TestEraserSizeClamp(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, float64(DefaultEraserSize), e.EraserSize())
	e.SetEraserSize(1)
	assert.Equal(t, float64(MinEraserSize), e.EraserSize())
	e.SetEraserSize(500)
	assert.Equal(t, float64(MaxEraserSize), e.EraserSize())
}

func TestMoveShape(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewRect("r", 0, 0, 20, 20, document.DefaultStyle()),
	}))
	e.SetTool(ToolMove)

	down(e, 10, 10)
	assert.Equal(t, "r", e.Selection())
	move(e, 15, 12)
	move(e, 20, 20)
	up(e)

	r := e.Scene()[0]
	assert.Equal(t, 10.0, r.X)
	assert.Equal(t, 10.0, r.Y)
	assert.Equal(t, 20.0, r.Width)
	assert.Equal(t, "r", e.Selection(), "grabbed shape stays selected")
}

func TestMovePicksTopmost(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewRect("bottom", 0, 0, 50, 50, document.DefaultStyle()),
		document.NewCircle("top", 25, 25, 10, document.DefaultStyle()),
	}))
	e.SetTool(ToolMove)

	down(e, 25, 25)
	assert.Equal(t, "top", e.Selection())
}

func TestMoveUsesTargetID(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewPath("p", 0, 0, "M0 0 L10 10", document.DefaultStyle()),
	}))
	e.SetTool(ToolMove)

	e.HandlePointer(PointerEvent{Kind: PointerDown, Point: Point{300, 300}, TargetID: "p"})
	assert.Equal(t, "p", e.Selection())
	move(e, 310, 310)
	assert.Equal(t, "M0 0 L10 10", e.Scene()[0].PathData)
	assert.Equal(t, 0.0, e.Scene()[0].X)
}

func TestPanBackground(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolMove)
	for e.Viewport().Zoom < 2 {
		e.ZoomIn()
	}
	zoom := e.Viewport().Zoom

	e.HandlePointer(PointerEvent{Kind: PointerDown, Point: Point{-500, -500}, Screen: Point{100, 100}})
	assert.Equal(t, GesturePanning, e.Gesture())
	assert.Empty(t, e.Selection())
	e.HandlePointer(PointerEvent{Kind: PointerMove, Screen: Point{120, 90}})
	up(e)

	vp := e.Viewport()
	assert.InDelta(t, 20/zoom, vp.PanX, 1e-9)
	assert.InDelta(t, -10/zoom, vp.PanY, 1e-9)
}

func TestPanAtZoomTwo(t *testing.T) {
	e := newTestEngine()
	e.viewport = e.viewport.WithZoom(2)
	e.SetTool(ToolMove)

	e.HandlePointer(PointerEvent{Kind: PointerDown, Screen: Point{0, 0}, Point: Point{1000, 1000}})
	e.HandlePointer(PointerEvent{Kind: PointerMove, Screen: Point{30, -8}})
	up(e)

	assert.Equal(t, 15.0, e.Viewport().PanX)
	assert.Equal(t, -4.0, e.Viewport().PanY)
}

func TestResizeRectangleHandles(t *testing.T) {
	cases := []struct {
		handle Handle
		grab   Point
		want   [4]float64
	}{
		{HandleNW, Point{10, 10}, [4]float64{15, 12, 35, 38}},
		{HandleNE, Point{50, 10}, [4]float64{10, 12, 45, 38}},
		{HandleSW, Point{10, 50}, [4]float64{15, 10, 35, 42}},
		{HandleSE, Point{50, 50}, [4]float64{10, 10, 45, 42}},
	}
	for _, tc := range cases {
		t.Run(string(tc.handle), func(t *testing.T) {
			e := newTestEngine()
			require.NoError(t, e.LoadScene(document.Scene{
				document.NewRect("r", 10, 10, 40, 40, document.DefaultStyle()),
			}))
			e.SetTool(ToolMove)

			// Select first, then grab the handle.
			down(e, 30, 30)
			up(e)
			down(e, tc.grab.X, tc.grab.Y)
			assert.Equal(t, tc.handle, e.ActiveHandle())
			move(e, tc.grab.X+5, tc.grab.Y+2)
			up(e)

			r := e.Scene()[0]
			assert.Equal(t, tc.want, [4]float64{r.X, r.Y, r.Width, r.Height})
			assert.Equal(t, HandleNone, e.ActiveHandle())
		})
	}
}

func TestResizeRectangle_PastOppositeEdgeNormalizes(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewRect("r", 10, 10, 20, 20, document.DefaultStyle()),
	}))
	e.SetTool(ToolMove)
	down(e, 20, 20)
	up(e)

	down(e, 30, 30) // se
	move(e, 0, 30)
	assert.Equal(t, HandleSW, e.ActiveHandle())
	move(e, -10, 30)
	up(e)

	r := e.Scene()[0]
	assert.Equal(t, [4]float64{-10, 10, 20, 20}, [4]float64{r.X, r.Y, r.Width, r.Height})
}

func TestResizeCircle(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewCircle("c", 0, 0, 10, document.DefaultStyle()),
	}))
	e.SetTool(ToolMove)
	down(e, 0, 0)
	up(e)

	down(e, 10, 0) // e
	move(e, 15, 3)
	up(e)
	assert.Equal(t, 15.0, e.Scene()[0].Radius)

	down(e, 0, -15) // n
	move(e, 0, 100)
	up(e)
	assert.Equal(t, 0.0, e.Scene()[0].Radius, "radius is clamped at zero")
	assert.Equal(t, 0.0, e.Scene()[0].X)
}

func TestSetToolClearsSelection(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewRect("r", 0, 0, 20, 20, document.DefaultStyle()),
	}))
	e.SetTool(ToolMove)
	down(e, 5, 5)
	up(e)
	require.Equal(t, "r", e.Selection())

	e.SetTool(ToolCircle)
	assert.Empty(t, e.Selection())
}

func TestDeleteSelected(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewRect("a", 0, 0, 10, 10, document.DefaultStyle()),
		document.NewRect("b", 100, 100, 10, 10, document.DefaultStyle()),
		document.NewRect("c", 200, 200, 10, 10, document.DefaultStyle()),
	}))
	e.SetTool(ToolMove)
	down(e, 105, 105)
	up(e)

	assert.True(t, e.HandleKey("Delete"))
	assert.Equal(t, []string{"a", "c"}, e.Scene().IDs())
	assert.Empty(t, e.Selection())

	version := e.Version()
	e.Delete()
	assert.Equal(t, version, e.Version(), "delete without selection is a no-op")
}

func TestSelectionOutlivesGesture(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewRect("a", 0, 0, 10, 10, document.DefaultStyle()),
		document.NewRect("b", 100, 100, 10, 10, document.DefaultStyle()),
	}))
	e.SetTool(ToolMove)

	down(e, 5, 5)
	up(e)
	assert.Equal(t, GestureIdle, e.Gesture())
	assert.Equal(t, "a", e.Selection())

	e.Delete()
	assert.Equal(t, []string{"b"}, e.Scene().IDs())

	down(e, 105, 105)
	up(e)
	require.Equal(t, "b", e.Selection())
	down(e, 500, 500)
	up(e)
	assert.Empty(t, e.Selection(), "pressing the background clears the selection")
}

func TestClearAll(t *testing.T) {
	e := newTestEngine()
	e.ImportMarkup(`<svg><rect width="1" height="1"/></svg>`)
	require.Len(t, e.Scene(), 1)

	e.ClearAll()
	assert.Empty(t, e.Scene())
	assert.Empty(t, e.ImportSource())
	assert.Empty(t, e.Selection())
}

func TestTextEditing(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolText)
	down(e, 0, 20)
	up(e)
	id := e.Scene()[0].ID

	e.SetTool(ToolMove)
	e.HandlePointer(PointerEvent{Kind: PointerDoubleClick, Point: Point{10, 15}})
	require.Equal(t, id, e.EditingTextID())

	assert.False(t, e.HandleKey("Delete"), "keys go to the text field while editing")
	e.InputText("Hello")
	assert.Equal(t, "Hello", e.Scene()[0].Content)

	e.EndTextEdit()
	assert.Empty(t, e.EditingTextID())
	e.InputText("ignored")
	assert.Equal(t, "Hello", e.Scene()[0].Content)
}

func TestBeginTextEdit_RejectsNonText(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewRect("r", 0, 0, 20, 20, document.DefaultStyle()),
	}))
	assert.False(t, e.BeginTextEdit("r"))
	assert.False(t, e.BeginTextEdit("missing"))
}

func TestPointerCancelEndsGesture(t *testing.T) {
	e := newTestEngine()
	down(e, 0, 0)
	require.Equal(t, GestureDrawing, e.Gesture())

	e.HandlePointer(PointerEvent{Kind: PointerCancel})
	assert.Equal(t, GestureIdle, e.Gesture())

	move(e, 50, 50)
	assert.Equal(t, 0.0, e.Scene()[0].Width, "moves after cancel do nothing")
}

func TestImportMarkup_Idempotent(t *testing.T) {
	e := newTestEngine()
	markup := "```svg\n<svg><rect x=\"5\" y=\"5\" width=\"10\" height=\"10\" fill=\"#fff\"/></svg>\n```"

	assert.True(t, e.ImportMarkup(markup))
	version := e.Version()
	scene := e.Scene()

	assert.False(t, e.ImportMarkup(markup))
	assert.Equal(t, version, e.Version())
	assert.True(t, document.Equal(scene, e.Scene()))
	assert.Equal(t, "generated-0", e.Scene()[0].ID)
}

func TestImportMarkup_BlankKeepsScene(t *testing.T) {
	e := newTestEngine()
	down(e, 10, 10)
	move(e, 50, 40)
	up(e)
	require.Len(t, e.Scene(), 1)
	version := e.Version()

	for _, markup := range []string{"", "   \n\t"} {
		assert.False(t, e.ImportMarkup(markup))
		assert.Len(t, e.Scene(), 1)
		assert.Equal(t, version, e.Version())
	}
}

func TestImportMarkup_EmptySVGClearsScene(t *testing.T) {
	e := newTestEngine()
	down(e, 10, 10)
	move(e, 50, 40)
	up(e)

	assert.True(t, e.ImportMarkup("<svg></svg>"))
	assert.Empty(t, e.Scene())
}

func TestImportMarkup_Malformed(t *testing.T) {
	e := newTestEngine()
	e.ImportMarkup("not markup at all")
	assert.Empty(t, e.Scene())
}

func TestLoadScene_RejectsDuplicates(t *testing.T) {
	e := newTestEngine()
	err := e.LoadScene(document.Scene{
		document.NewRect("a", 0, 0, 1, 1, document.DefaultStyle()),
		document.NewRect("a", 0, 0, 1, 1, document.DefaultStyle()),
	})
	assert.ErrorIs(t, err, document.ErrDuplicateID)
}

func TestIDsUniqueAcrossGestures(t *testing.T) {
	e := NewEngine()
	for i := range 10 {
		e.SetTool(Tool(i % 3))
		down(e, float64(i), float64(i))
		move(e, float64(i+5), float64(i+5))
		up(e)
	}
	require.Len(t, e.Scene(), 10)
	assert.NoError(t, e.Scene().Validate())
}

func TestZoomKeys(t *testing.T) {
	e := newTestEngine()
	assert.True(t, e.HandleKey("+"))
	assert.InDelta(t, 1.2, e.Viewport().Zoom, 1e-9)
	assert.True(t, e.HandleKey("-"))
	assert.InDelta(t, 1.0, e.Viewport().Zoom, 1e-9)
	assert.False(t, e.HandleKey("q"))
}

func TestPointerMapsScreenCoordinates(t *testing.T) {
	e := newTestEngine()
	e.viewport = document.Viewport{Zoom: 2, PanX: 5, PanY: -5}

	e.Pointer(PointerDown, Point{110, 60}, SurfaceMatrix(e.viewport, 10, 20), "")
	e.Pointer(PointerUp, Point{}, Identity(), "")

	s := e.Scene()[0]
	assert.Equal(t, 45.0, s.X)
	assert.Equal(t, 25.0, s.Y)
}

func TestSnapshotJSON(t *testing.T) {
	e := newTestEngine()
	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.GetSnapshot()), &snap))
	assert.Equal(t, []any{}, snap["shapes"])
	assert.Equal(t, "rectangle", snap["tool"])
}

func TestSelectionScreenBounds(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.LoadScene(document.Scene{
		document.NewRect("a", 10, 10, 20, 10, document.DefaultStyle()),
	}))
	assert.JSONEq(t, `{"x":0,"y":0,"width":0,"height":0}`, e.GetSelectionScreenBounds())

	e.SetTool(ToolMove)
	down(e, 15, 15)
	up(e)
	e.ZoomIn()

	var r Rect
	require.NoError(t, json.Unmarshal([]byte(e.GetSelectionScreenBounds()), &r))
	assert.InDelta(t, 12, r.X, 1e-9)
	assert.InDelta(t, 12, r.Y, 1e-9)
	assert.InDelta(t, 24, r.Width, 1e-9)
	assert.InDelta(t, 12, r.Height, 1e-9)
}

func TestRevisionTracksViewChanges(t *testing.T) {
	e := newTestEngine()
	rev, version := e.Revision(), e.Version()
	e.ZoomIn()
	assert.Greater(t, e.Revision(), rev)
	assert.Equal(t, version, e.Version())
}
