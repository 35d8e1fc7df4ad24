//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/lineal-app/lineal/backend-go/internal/engine"
	"github.com/lineal-app/lineal/backend-go/internal/scene"
	"github.com/lineal-app/lineal/backend-go/internal/timeline"
)

var (
	eng     *engine.Engine
	rec     *timeline.Reconciler
	frame   int
	playing bool
)

func main() {
	eng = engine.NewEngine()
	rec = timeline.NewReconciler()
	eng.SetAnimationSink(rec)
	eng.Bus().Subscribe(engine.EventElementsMoved, reconcileKeyframes)

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	api.Set("setSelection", js.FuncOf(setSelection))
	api.Set("enterGroup", js.FuncOf(enterGroup))
	api.Set("exitGroup", js.FuncOf(exitGroup))
	api.Set("moveSelection", js.FuncOf(moveSelection))
	api.Set("setPrecision", js.FuncOf(setPrecision))
	api.Set("setPlayhead", js.FuncOf(setPlayhead))
	api.Set("play", js.FuncOf(play))
	api.Set("pause", js.FuncOf(pause))

	// --- Queries (frontend ← backend) ---
	api.Set("render", js.FuncOf(render))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getEditGroup", js.FuncOf(getEditGroup))
	api.Set("getFrame", js.FuncOf(getFrame))
	api.Set("isPlaying", js.FuncOf(isPlaying))

	js.Global().Set("linealEngine", api)
	js.Global().Set("linealWasmReady", js.ValueOf(true))

	// Keep the Go runtime alive.
	select {}
}

// reconcileKeyframes folds pending authored-move offsets into the
// current snapshot's keyframes so playback matches the new positions.
func reconcileKeyframes() {
	if !rec.Pending() {
		return
	}
	doc := eng.Document()
	if doc == nil {
		return
	}
	doc.Keyframes = rec.Rewrite(doc)
}

// --- Command handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return jsError("missing document JSON")
	}
	if err := eng.LoadDocument(args[0].String()); err != nil {
		return jsError(err.Error())
	}
	return jsOK()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	projectID := "proj_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}
	eng.LoadSampleDocument(projectID)
	return jsOK()
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}
	arr := args[0]
	ids := make([]string, arr.Length())
	for i := range ids {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

func enterGroup(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return jsError("missing group id")
	}
	if err := eng.EnterGroup(args[0].String()); err != nil {
		return jsError(err.Error())
	}
	return jsOK()
}

func exitGroup(this js.Value, args []js.Value) interface{} {
	eng.ExitGroup()
	return nil
}

func moveSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return jsError("missing delta")
	}
	dx := args[0].Float()
	dy := args[1].Float()
	var precision *int
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		p := args[2].Int()
		precision = &p
	}
	eng.MoveSelection(dx, dy, precision)
	return jsOK()
}

func setPrecision(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetPrecision(args[0].Int())
	return nil
}

func setPlayhead(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	frame = args[0].Int()
	return nil
}

func play(this js.Value, args []js.Value) interface{} {
	playing = true
	return nil
}

func pause(this js.Value, args []js.Value) interface{} {
	playing = false
	return nil
}

// --- Query handlers ---

func render(this js.Value, args []js.Value) interface{} {
	g := scene.Build(eng.Document(), frame, playing)
	out, err := scene.CommandsJSON(scene.Compile(g))
	if err != nil {
		return jsError(err.Error())
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	g := scene.Build(eng.Document(), frame, playing)
	return js.ValueOf(scene.HitTest(g, args[0].Float(), args[1].Float()))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	g := scene.Build(eng.Document(), frame, playing)
	bounds := scene.SelectionBounds(g, eng.Selection())
	data, _ := json.Marshal(bounds)
	return js.ValueOf(string(data))
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.DocumentJSON())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	ids := eng.Selection()
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return js.ValueOf(out)
}

func getEditGroup(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.EditGroupID())
}

func getFrame(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(frame)
}

func isPlaying(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(playing)
}

func jsOK() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func jsError(msg string) js.Value {
	return js.ValueOf(map[string]interface{}{"error": msg})
}
