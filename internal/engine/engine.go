package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/icogen/playground/internal/document"
	"github.com/icogen/playground/internal/importer"
	"github.com/icogen/playground/internal/typeid"
)

const (
	DefaultEraserSize = 20
	MinEraserSize     = 5
	MaxEraserSize     = 50
)

// Engine owns the scene, viewport and interaction state of one editor session.
// It turns pointer and keyboard input into scene mutations and answers queries
// for the rendering surface. An Engine is not safe for concurrent use.
type Engine struct {
	scene    document.Scene
	viewport document.Viewport
	style    document.Style

	tool       Tool
	eraserSize float64
	showGrid   bool

	// Gesture state, reset on pointer up or cancel.
	gesture      Gesture
	dragStart    Point
	lastScreen   Point
	activeHandle Handle
	drawingID    string

	selection     string
	editingTextID string
	importSource  string

	version  int
	revision int

	newID func() string
}

type Option func(*Engine)

// WithIDGenerator replaces the generator used for interactively created shapes.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		viewport:   document.DefaultViewport(),
		style:      document.DefaultStyle(),
		tool:       ToolRectangle,
		eraserSize: DefaultEraserSize,
		showGrid:   true,
		gesture:    GestureIdle,
		newID:      typeid.NewShapeID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Commands ---

// HandlePointer feeds one pointer event with a scene-space point into the tool state machine.
func (e *Engine) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		e.pointerDown(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerUp, PointerCancel:
		e.pointerUp()
	case PointerDoubleClick:
		e.doubleClick(ev)
	}
}

// Pointer maps a screen position through the surface matrix m and dispatches it.
func (e *Engine) Pointer(kind PointerKind, screen Point, m Matrix2D, targetID string) {
	e.HandlePointer(PointerEvent{
		Kind:     kind,
		Point:    ToSceneCoordinates(screen, e.viewport, m),
		Screen:   screen,
		TargetID: targetID,
	})
}

// SetTool switches the active tool. Any gesture in progress is abandoned and
// the selection is dropped unless the new tool is Move.
func (e *Engine) SetTool(t Tool) {
	e.resetGesture()
	e.tool = t
	if t != ToolMove {
		e.selection = ""
	}
	e.touch()
}

// SetStyle sets the paint used for newly created and imported shapes.
func (e *Engine) SetStyle(s document.Style) {
	e.style = s.Normalized()
	e.touch()
}

// SetEraserSize sets the eraser diameter, clamped to [MinEraserSize, MaxEraserSize].
func (e *Engine) SetEraserSize(size float64) {
	e.eraserSize = min(max(size, MinEraserSize), MaxEraserSize)
	e.touch()
}

func (e *Engine) SetShowGrid(show bool) {
	e.showGrid = show
	e.touch()
}

// BeginTextEdit puts a text shape into edit mode. It fails if the shape is not
// text or a gesture is in progress.
func (e *Engine) BeginTextEdit(id string) bool {
	if e.gesture != GestureIdle {
		return false
	}
	shape, ok := document.FindShape(e.scene, id)
	if !ok || shape.Type != document.ShapeText {
		return false
	}
	e.editingTextID = id
	e.touch()
	return true
}

// InputText replaces the content of the text shape being edited.
func (e *Engine) InputText(content string) {
	if e.editingTextID == "" {
		return
	}
	e.commit(document.UpdateShape(e.scene, e.editingTextID, document.ShapePatch{Content: document.String(content)}))
}

func (e *Engine) EndTextEdit() {
	if e.editingTextID == "" {
		return
	}
	e.editingTextID = ""
	e.touch()
}

// Delete removes the selected shape. It is a no-op without a selection.
func (e *Engine) Delete() {
	if e.selection == "" {
		return
	}
	id := e.selection
	e.selection = ""
	if e.editingTextID == id {
		e.editingTextID = ""
	}
	e.resetGesture()
	e.commit(document.RemoveShape(e.scene, id))
}

// ClearAll empties the scene and forgets the import source.
func (e *Engine) ClearAll() {
	e.resetGesture()
	e.selection = ""
	e.editingTextID = ""
	e.importSource = ""
	e.scene = document.ReplaceAll(e.scene, nil)
	e.version++
	e.touch()
}

func (e *Engine) ZoomIn() {
	e.viewport = e.viewport.ZoomIn()
	e.touch()
}

func (e *Engine) ZoomOut() {
	e.viewport = e.viewport.ZoomOut()
	e.touch()
}

// ResetView restores the default zoom and pan.
func (e *Engine) ResetView() {
	e.viewport = e.viewport.Reset()
	e.touch()
}

// ImportMarkup replaces the scene with the shapes parsed from markup, using
// the current style for missing paint attributes. It reports whether the
// scene changed; blank markup, or markup that yields the current scene, does
// nothing.
func (e *Engine) ImportMarkup(markup string) bool {
	if strings.TrimSpace(markup) == "" {
		return false
	}
	shapes := importer.Import(markup, e.style)
	e.importSource = markup
	if document.Equal(shapes, e.scene) {
		return false
	}
	e.resetGesture()
	e.replace(shapes)
	return true
}

// LoadScene replaces the scene wholesale. The scene must have unique ids.
func (e *Engine) LoadScene(scene document.Scene) error {
	if err := scene.Validate(); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	e.resetGesture()
	e.importSource = ""
	e.replace(scene)
	return nil
}

// HandleKey dispatches a keyboard key. It reports whether the key was consumed.
// Keys are ignored while a text shape is being edited.
func (e *Engine) HandleKey(key string) bool {
	if e.editingTextID != "" {
		return false
	}
	switch key {
	case "Delete", "Backspace":
		e.Delete()
	case "+", "=":
		e.ZoomIn()
	case "-", "_":
		e.ZoomOut()
	case "0":
		e.ResetView()
	default:
		return false
	}
	return true
}

// --- Queries ---

func (e *Engine) Scene() document.Scene { return e.scene }
func (e *Engine) Viewport() document.Viewport { return e.viewport }
func (e *Engine) Style() document.Style { return e.style }
func (e *Engine) Tool() Tool { return e.tool }
func (e *Engine) Selection() string { return e.selection }
func (e *Engine) EditingTextID() string { return e.editingTextID }
func (e *Engine) Gesture() Gesture { return e.gesture }
func (e *Engine) ActiveHandle() Handle { return e.activeHandle }
func (e *Engine) EraserSize() float64 { return e.eraserSize }
func (e *Engine) ShowGrid() bool { return e.showGrid }
func (e *Engine) ImportSource() string { return e.importSource }

// Version increases on every scene mutation.
func (e *Engine) Version() int { return e.version }

// Revision increases on every observable state change, scene or not.
func (e *Engine) Revision() int { return e.revision }

// Snapshot is the observable editor state sent to rendering clients.
type Snapshot struct {
	Version       int               `json:"version"`
	Shapes        document.Scene    `json:"shapes"`
	Viewport      document.Viewport `json:"viewport"`
	Style         document.Style    `json:"style"`
	Tool          string            `json:"tool"`
	EraserSize    float64           `json:"eraserSize"`
	ShowGrid      bool              `json:"showGrid"`
	Gesture       Gesture           `json:"gesture"`
	Selection     string            `json:"selection,omitempty"`
	Handles       []HandlePosition  `json:"handles,omitempty"`
	EditingTextID string            `json:"editingTextId,omitempty"`
}

func (e *Engine) Snapshot() Snapshot {
	shapes := e.scene
	if shapes == nil {
		shapes = document.Scene{}
	}
	return Snapshot{
		Version:       e.version,
		Shapes:        shapes,
		Viewport:      e.viewport,
		Style:         e.style,
		Tool:          e.tool.String(),
		EraserSize:    e.eraserSize,
		ShowGrid:      e.showGrid,
		Gesture:       e.gesture,
		Selection:     e.selection,
		Handles:       e.selectionHandles(),
		EditingTextID: e.editingTextID,
	}
}

// Render returns the draw commands for the current state as JSON.
func (e *Engine) Render() string {
	result, _ := DrawCommandsToJSON(e.DrawCommands())
	return result
}

// DrawCommands compiles the scene and editor decoration into draw commands.
func (e *Engine) DrawCommands() []DrawCommand {
	return CompileDrawCommands(e.scene, Overlay{
		Grid:      e.showGrid,
		Handles:   e.selectionHandles(),
		Transform: ViewMatrix(e.viewport, 0, 0),
	})
}

// GetSelectionBounds returns the bounding box of the selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	if e.selection == "" {
		return RectToJSON(Rect{})
	}
	return RectToJSON(SelectionBounds(e.scene, []string{e.selection}))
}

// GetSelectionScreenBounds returns the bounding box of the selection in
// surface pixels as JSON, for positioning UI next to the selected shape.
func (e *Engine) GetSelectionScreenBounds() string {
	if e.selection == "" {
		return RectToJSON(Rect{})
	}
	bounds := SelectionBounds(e.scene, []string{e.selection})
	return RectToJSON(ViewMatrix(e.viewport, 0, 0).TransformRect(bounds))
}

// GetSnapshot returns the snapshot as JSON.
func (e *Engine) GetSnapshot() string {
	data, _ := json.Marshal(e.Snapshot())
	return string(data)
}

// --- Internal ---

func (e *Engine) selectionHandles() []HandlePosition {
	if e.selection == "" {
		return nil
	}
	shape, ok := document.FindShape(e.scene, e.selection)
	if !ok {
		return nil
	}
	return Handles(shape)
}

// commit installs a mutated scene, bumping the version only if it differs.
func (e *Engine) commit(scene document.Scene) {
	if document.Equal(scene, e.scene) {
		return
	}
	e.scene = scene
	e.version++
	e.touch()
}

// replace installs a new scene and drops references to shapes it no longer has.
func (e *Engine) replace(shapes []document.Shape) {
	e.scene = document.ReplaceAll(e.scene, shapes)
	if _, ok := document.FindShape(e.scene, e.selection); !ok {
		e.selection = ""
	}
	if _, ok := document.FindShape(e.scene, e.editingTextID); !ok {
		e.editingTextID = ""
	}
	e.version++
	e.touch()
}

func (e *Engine) touch() {
	e.revision++
}

func (e *Engine) resetGesture() {
	e.gesture = GestureIdle
	e.activeHandle = HandleNone
	e.drawingID = ""
}
