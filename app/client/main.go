//go:build js && wasm
// +build js,wasm

// Command client is the browser build of circles. It exposes window.Circles
// with create() for client-side gauges and connect() for gauges streamed
// from a circles live server.
package main

import (
	"math/rand"
	"strconv"
	"syscall/js"

	"github.com/recera/circles/pkg/components/circles"
	"github.com/recera/circles/pkg/debug"
	"github.com/recera/circles/pkg/dom"
	"github.com/recera/circles/pkg/live"
	domapplier "github.com/recera/circles/pkg/renderer/dom"
	"github.com/recera/circles/pkg/scheduler"
)

var (
	document dom.Document
	frames   scheduler.FrameScheduler
	console  js.Value
)

func main() {
	document = dom.Global()
	frames = scheduler.Platform()
	console = js.Global().Get("console")

	api := js.Global().Get("Object").New()
	api.Set("version", circles.Version)
	api.Set("create", js.FuncOf(create))
	api.Set("connect", js.FuncOf(connect))
	api.Set("debug", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		debug.EnableLogging()
		return nil
	}))
	js.Global().Set("Circles", api)

	// Keep the WASM runtime alive
	select {}
}

// create(options) mounts a graph and returns its handle
func create(this js.Value, args []js.Value) interface{} {
	if len(args) == 0 || args[0].Type() != js.TypeObject {
		console.Call("error", "Circles.create expects an options object")
		return js.Null()
	}
	g := circles.Create(document, frames, optionsFrom(args[0]))
	return handle(g)
}

func optionsFrom(v js.Value) circles.Options {
	return circles.OptionsFromFields(fieldsOf(v))
}

// fieldsOf copies the known option keys of a JS object into Go values
func fieldsOf(v js.Value) map[string]any {
	fields := make(map[string]any)
	for _, key := range circles.FieldKeys {
		switch f := v.Get(key); f.Type() {
		case js.TypeNull:
			fields[key] = nil
		case js.TypeNumber:
			fields[key] = f.Float()
		case js.TypeString:
			fields[key] = f.String()
		case js.TypeFunction:
			fields[key] = func(value float64) string {
				return f.Invoke(value).String()
			}
		case js.TypeObject:
			list := make([]any, f.Length())
			for i := range list {
				if item := f.Index(i); item.Type() == js.TypeString {
					list[i] = item.String()
				}
			}
			fields[key] = list
		}
	}
	return fields
}

func handle(g *circles.Graph) js.Value {
	h := js.Global().Get("Object").New()
	h.Set("generate", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		radius := 0.0
		if len(args) > 0 && args[0].Type() == js.TypeNumber {
			radius = args[0].Float()
		}
		g.Generate(radius)
		return this
	}))
	h.Set("updatePercent", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 && args[0].Type() == js.TypeNumber {
			g.UpdatePercent(args[0].Float())
		}
		return this
	}))
	h.Set("getPercent", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return g.Percent()
	}))
	h.Set("stop", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		g.Stop()
		return this
	}))
	h.Set("mounted", g.Mounted())
	return h
}

// connect(rootId) opens a live session and mirrors its gauges into rootId
func connect(this js.Value, args []js.Value) interface{} {
	if len(args) == 0 || args[0].Type() != js.TypeString {
		console.Call("error", "Circles.connect expects a root element id")
		return js.Null()
	}
	root := js.Global().Get("document").Call("getElementById", args[0].String())
	if root.IsNull() {
		console.Call("error", "Circles.connect: no element #"+args[0].String())
		return js.Null()
	}
	applier := domapplier.NewDOMApplier(root)

	location := js.Global().Get("location")
	scheme := "ws://"
	if location.Get("protocol").String() == "https:" {
		scheme = "wss://"
	}
	session := strconv.FormatInt(rand.Int63(), 36)
	ws := js.Global().Get("WebSocket").New(scheme + location.Get("host").String() + live.PathPrefix + session)
	ws.Set("binaryType", "arraybuffer")

	ws.Set("onmessage", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		data := args[0].Get("data")
		if data.Type() == js.TypeString {
			return nil
		}
		buf := js.Global().Get("Uint8Array").New(data)
		frame := make([]byte, buf.Length())
		js.CopyBytesToGo(frame, buf)
		handleFrame(ws, applier, frame)
		return nil
	}))
	ws.Set("onclose", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		console.Call("log", "[Circles] live session closed")
		return nil
	}))
	return ws
}

func handleFrame(ws js.Value, applier *domapplier.DOMApplier, frame []byte) {
	if len(frame) == 0 {
		return
	}
	switch live.MessageType(frame[0]) {
	case live.FramePatches:
		patches, err := live.DecodePatches(frame)
		if err != nil {
			console.Call("error", "[Circles] bad patch frame:", err.Error())
			return
		}
		if err := applier.Apply(patches); err != nil {
			console.Call("error", "[Circles]", err.Error())
		}
	case live.FrameControl:
		msg, args, err := live.DecodeControl(frame)
		if err != nil {
			console.Call("error", "[Circles] bad control frame:", err.Error())
			return
		}
		switch msg {
		case live.ControlMount:
			markup, err := args.ReadString()
			if err != nil {
				console.Call("error", "[Circles] bad mount frame:", err.Error())
				return
			}
			applier.Mount(markup)
		case live.ControlPing:
			pong := live.EncodeControl(live.ControlPong)
			out := js.Global().Get("Uint8Array").New(len(pong))
			js.CopyBytesToJS(out, pong)
			ws.Call("send", out)
		}
	}
}
