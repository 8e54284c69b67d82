//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/icogen/playground/internal/document"
	"github.com/icogen/playground/internal/engine"
	"github.com/icogen/playground/internal/export"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	// Create the engine API object
	api := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	api.Set("loadScene", js.FuncOf(loadScene))
	api.Set("loadSampleScene", js.FuncOf(loadSampleScene))
	api.Set("importMarkup", js.FuncOf(importMarkup))
	api.Set("pointerDown", js.FuncOf(pointerHandler(engine.PointerDown)))
	api.Set("pointerMove", js.FuncOf(pointerHandler(engine.PointerMove)))
	api.Set("pointerUp", js.FuncOf(pointerHandler(engine.PointerUp)))
	api.Set("pointerCancel", js.FuncOf(pointerHandler(engine.PointerCancel)))
	api.Set("doubleClick", js.FuncOf(pointerHandler(engine.PointerDoubleClick)))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setStyle", js.FuncOf(setStyle))
	api.Set("setEraserSize", js.FuncOf(setEraserSize))
	api.Set("setShowGrid", js.FuncOf(setShowGrid))
	api.Set("beginTextEdit", js.FuncOf(beginTextEdit))
	api.Set("inputText", js.FuncOf(inputText))
	api.Set("endTextEdit", js.FuncOf(endTextEdit))
	api.Set("deleteSelected", js.FuncOf(deleteSelected))
	api.Set("clearAll", js.FuncOf(clearAll))
	api.Set("zoomIn", js.FuncOf(zoomIn))
	api.Set("zoomOut", js.FuncOf(zoomOut))
	api.Set("resetView", js.FuncOf(resetView))
	api.Set("handleKey", js.FuncOf(handleKey))

	// --- Queries (frontend ← engine) ---
	api.Set("render", js.FuncOf(render))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("getSelectionScreenBounds", js.FuncOf(getSelectionScreenBounds))
	api.Set("getSnapshot", js.FuncOf(getSnapshot))
	api.Set("getScene", js.FuncOf(getScene))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getVersion", js.FuncOf(getVersion))
	api.Set("exportSVG", js.FuncOf(exportSVG))

	js.Global().Set("icogenEngine", api)
	js.Global().Set("icogenWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// --- Command Handlers ---

func loadScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing scene JSON")
	}

	var scene document.Scene
	if err := json.Unmarshal([]byte(args[0].String()), &scene); err != nil {
		return fail(err.Error())
	}
	if err := eng.LoadScene(scene); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func loadSampleScene(this js.Value, args []js.Value) interface{} {
	if err := eng.LoadScene(document.NewSampleScene()); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func importMarkup(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing markup")
	}
	changed := eng.ImportMarkup(args[0].String())
	return js.ValueOf(map[string]interface{}{"ok": true, "changed": changed})
}

// pointerHandler returns a handler taking (x, y, screenX, screenY, targetId?)
// with x, y already in scene space. Passing six more numbers after targetId
// (a, b, c, d, e, f) maps the screen position through that surface matrix instead.
func pointerHandler(kind engine.PointerKind) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 4 {
			return fail("expected x, y, screenX, screenY")
		}
		ev := engine.PointerEvent{
			Kind:   kind,
			Point:  engine.Point{X: args[0].Float(), Y: args[1].Float()},
			Screen: engine.Point{X: args[2].Float(), Y: args[3].Float()},
		}
		if len(args) > 4 && args[4].Type() == js.TypeString {
			ev.TargetID = args[4].String()
		}
		if len(args) >= 11 {
			var m engine.Matrix2D
			for i := range m {
				m[i] = args[5+i].Float()
			}
			if m[0] == 0 || m[3] == 0 {
				return fail("degenerate surface matrix")
			}
			eng.Pointer(kind, ev.Screen, m, ev.TargetID)
			return ok()
		}
		eng.HandlePointer(ev)
		return ok()
	}
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing tool")
	}
	tool, err := engine.ParseTool(args[0].String())
	if err != nil {
		return fail(err.Error())
	}
	eng.SetTool(tool)
	return ok()
}

func setStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return fail("expected fill, stroke, strokeWidth")
	}
	eng.SetStyle(document.Style{
		Fill:        args[0].String(),
		Stroke:      args[1].String(),
		StrokeWidth: args[2].Float(),
	})
	return ok()
}

func setEraserSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing size")
	}
	eng.SetEraserSize(args[0].Float())
	return ok()
}

func setShowGrid(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing flag")
	}
	eng.SetShowGrid(args[0].Bool())
	return ok()
}

func beginTextEdit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing shape id")
	}
	return js.ValueOf(eng.BeginTextEdit(args[0].String()))
}

func inputText(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing text")
	}
	eng.InputText(args[0].String())
	return ok()
}

func endTextEdit(this js.Value, args []js.Value) interface{} {
	eng.EndTextEdit()
	return ok()
}

func deleteSelected(this js.Value, args []js.Value) interface{} {
	eng.Delete()
	return ok()
}

func clearAll(this js.Value, args []js.Value) interface{} {
	eng.ClearAll()
	return ok()
}

func zoomIn(this js.Value, args []js.Value) interface{} {
	eng.ZoomIn()
	return ok()
}

func zoomOut(this js.Value, args []js.Value) interface{} {
	eng.ZoomOut()
	return ok()
}

func resetView(this js.Value, args []js.Value) interface{} {
	eng.ResetView()
	return ok()
}

func handleKey(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.HandleKey(args[0].String()))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(engine.HitTest(eng.Scene(), engine.Point{X: args[0].Float(), Y: args[1].Float()}))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getSelectionScreenBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionScreenBounds())
}

func getSnapshot(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSnapshot())
}

func getScene(this js.Value, args []js.Value) interface{} {
	scene := eng.Scene()
	if scene == nil {
		scene = document.Scene{}
	}
	data, _ := json.Marshal(scene)
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Selection())
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Version())
}

// exportSVG returns the scene as svg markup, sized (width, height) when given.
func exportSVG(this js.Value, args []js.Value) interface{} {
	opts := export.Options{Viewport: eng.Viewport()}
	if len(args) >= 2 {
		opts.Width, opts.Height = args[0].Int(), args[1].Int()
	}
	data, err := export.SVG(eng.Scene(), opts)
	if err != nil {
		return fail(err.Error())
	}
	return js.ValueOf(string(data))
}
