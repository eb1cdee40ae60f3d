//go:build js && wasm
// +build js,wasm

package scheduler

import (
	"syscall/js"
)

// frameFuncNames are probed in order at startup
var frameFuncNames = []string{
	"requestAnimationFrame",
	"webkitRequestAnimationFrame",
	"mozRequestAnimationFrame",
}

// AnimationFrame schedules callbacks with the browser's display refresh callback
type AnimationFrame struct {
	window js.Value
	name   string
}

// NewAnimationFrame returns an AnimationFrame when the browser exposes one
func NewAnimationFrame() (*AnimationFrame, bool) {
	window := js.Global().Get("window")
	if !window.Truthy() {
		return nil, false
	}
	for _, name := range frameFuncNames {
		if window.Get(name).Truthy() {
			return &AnimationFrame{window: window, name: name}, true
		}
	}
	return nil, false
}

// RequestFrame runs fn before the next repaint
func (a *AnimationFrame) RequestFrame(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		cb.Release()
		fn()
		return nil
	})
	a.window.Call(a.name, cb)
}

// Timeout schedules callbacks with setTimeout
type Timeout struct {
	delayMs int
}

// NewTimeout creates a setTimeout based scheduler firing every FrameInterval
func NewTimeout() *Timeout {
	return &Timeout{delayMs: int(FrameInterval.Milliseconds())}
}

// RequestFrame runs fn after the frame interval
func (t *Timeout) RequestFrame(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		cb.Release()
		fn()
		return nil
	})
	js.Global().Call("setTimeout", cb, t.delayMs)
}

// Platform picks the browser's display refresh callback, falling back to a
// fixed interval timer when none exists
func Platform() FrameScheduler {
	if raf, ok := NewAnimationFrame(); ok {
		if debugLog != nil {
			debugLog("[Scheduler] using", raf.name)
		}
		return raf
	}
	if debugLog != nil {
		debugLog("[Scheduler] no animation frame API, using setTimeout")
	}
	return NewTimeout()
}
