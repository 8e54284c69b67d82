package session

import (
	"encoding/json"

	"github.com/icogen/playground/internal/document"
	"github.com/icogen/playground/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// PointerPayload carries a pointer event. When Matrix is set, Screen is mapped
// into scene space through it; otherwise Point is taken as already mapped.
type PointerPayload struct {
	Point    engine.Point `json:"point"`
	Screen   engine.Point `json:"screen"`
	Matrix   []float64    `json:"matrix,omitempty"`
	TargetID string       `json:"targetId,omitempty"`
}

type ToolPayload struct {
	Tool string `json:"tool"`
}

type EraserPayload struct {
	Size float64 `json:"size"`
}

type GridPayload struct {
	Show bool `json:"show"`
}

type TextPayload struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content,omitempty"`
}

type KeyPayload struct {
	Key string `json:"key"`
}

type ImportPayload struct {
	Markup string `json:"markup"`
}

type GeneratePayload struct {
	Prompt string `json:"prompt"`
}

type LoadPayload struct {
	Shapes document.Scene `json:"shapes"`
}

type SnapshotPayload struct {
	engine.Snapshot
	Generating bool `json:"generating"`
}

type WelcomePayload struct {
	SessionID string          `json:"sessionId"`
	ClientID  string          `json:"clientId"`
	State     SnapshotPayload `json:"state"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	// Pointer input
	TypePointerDown   = "pointer.down"
	TypePointerMove   = "pointer.move"
	TypePointerUp     = "pointer.up"
	TypePointerCancel = "pointer.cancel"
	TypePointerDouble = "pointer.dblclick"

	// Editor settings
	TypeToolSet   = "tool.set"
	TypeStyleSet  = "style.set"
	TypeEraserSet = "eraser.set"
	TypeGridSet   = "grid.set"

	// Text editing
	TypeTextBegin = "text.begin"
	TypeTextInput = "text.input"
	TypeTextEnd   = "text.end"

	// Commands
	TypeDelete    = "cmd.delete"
	TypeClear     = "cmd.clear"
	TypeZoomIn    = "cmd.zoomIn"
	TypeZoomOut   = "cmd.zoomOut"
	TypeResetView = "cmd.resetView"
	TypeKey       = "key"

	// Scene sources
	TypeImport    = "import.markup"
	TypeGenerate  = "generate"
	TypeSceneLoad = "scene.load"
	TypeSync      = "scene.sync"

	// Outbound
	TypeWelcome  = "welcome"
	TypeSnapshot = "scene.snapshot"
	TypeError    = "error"
)

var pointerKinds = map[string]engine.PointerKind{
	TypePointerDown:   engine.PointerDown,
	TypePointerMove:   engine.PointerMove,
	TypePointerUp:     engine.PointerUp,
	TypePointerCancel: engine.PointerCancel,
	TypePointerDouble: engine.PointerDoubleClick,
}
