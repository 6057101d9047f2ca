//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/stage/internal/engine"
	"github.com/inamate/stage/internal/geometry"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	// Create the engine API object
	stageEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	stageEngine.Set("loadDocument", js.FuncOf(loadDocument))
	stageEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	stageEngine.Set("apply", js.FuncOf(apply))
	stageEngine.Set("setFrame", js.FuncOf(setFrame))
	stageEngine.Set("pressDown", js.FuncOf(pressDown))
	stageEngine.Set("pointerMove", js.FuncOf(pointerMove))
	stageEngine.Set("pressUp", js.FuncOf(pressUp))
	stageEngine.Set("doubleClick", js.FuncOf(doubleClick))
	stageEngine.Set("cancel", js.FuncOf(cancel))
	stageEngine.Set("undo", js.FuncOf(undo))
	stageEngine.Set("redo", js.FuncOf(redo))
	stageEngine.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	stageEngine.Set("render", js.FuncOf(render))
	stageEngine.Set("hitTest", js.FuncOf(hitTest))
	stageEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	stageEngine.Set("getDocument", js.FuncOf(getDocument))
	stageEngine.Set("getSelection", js.FuncOf(getSelection))
	stageEngine.Set("getElement", js.FuncOf(getElement))
	stageEngine.Set("getState", js.FuncOf(getState))
	stageEngine.Set("getOperations", js.FuncOf(getOperations))

	// Register on global scope
	js.Global().Set("stageEngine", stageEngine)

	// Signal that WASM is ready
	js.Global().Set("stageWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorValue(msg string) js.Value {
	return js.ValueOf(map[string]any{"error": msg})
}

// pointArgs reads x, y from the first two arguments.
func pointArgs(args []js.Value) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	return args[0].Float(), args[1].Float(), true
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("missing document JSON")
	}
	if err := eng.LoadDocumentJSON(args[0].String()); err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(map[string]any{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	eng.LoadSampleDocument()
	return js.ValueOf(map[string]any{"ok": true})
}

// apply runs one operation given as {"type": ..., "args": {...}} JSON and
// returns the result as JSON.
func apply(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("missing operation JSON")
	}
	var op engine.Operation
	if err := json.Unmarshal([]byte(args[0].String()), &op); err != nil {
		return errorValue("invalid operation: " + err.Error())
	}
	res, err := eng.Apply(op)
	if err != nil {
		return errorValue(err.Error())
	}
	data, _ := json.Marshal(res)
	return js.ValueOf(string(data))
}

func setFrame(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	var frame geometry.StageFrame
	if err := json.Unmarshal([]byte(args[0].String()), &frame); err != nil {
		return errorValue("invalid frame: " + err.Error())
	}
	eng.SetFrame(frame)
	return nil
}

func pressDown(this js.Value, args []js.Value) any {
	x, y, ok := pointArgs(args)
	if !ok {
		return nil
	}
	shift := len(args) > 2 && args[2].Truthy()
	eng.PressDown(x, y, shift)
	return nil
}

func pointerMove(this js.Value, args []js.Value) any {
	if x, y, ok := pointArgs(args); ok {
		eng.PointerMove(x, y)
	}
	return nil
}

func pressUp(this js.Value, args []js.Value) any {
	if x, y, ok := pointArgs(args); ok {
		eng.PressUp(x, y)
	}
	return nil
}

func doubleClick(this js.Value, args []js.Value) any {
	x, y, ok := pointArgs(args)
	if !ok {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.DoubleClick(x, y))
}

func cancel(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Cancel())
}

func undo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Redo())
}

func tick(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Tick())
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) any {
	x, y, ok := pointArgs(args)
	if !ok {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(x, y))
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getDocument(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetDocument())
}

func getSelection(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetSelection())
}

func getElement(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("null")
	}
	return js.ValueOf(eng.GetElement(args[0].String()))
}

func getState(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetState())
}

func getOperations(this js.Value, args []js.Value) any {
	data, _ := json.Marshal(engine.Operations())
	return js.ValueOf(string(data))
}
