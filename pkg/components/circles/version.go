// Package circles renders animated circular progress graphs as SVG.
//
// A graph draws a 270 degree track, an indicator arc covering the current
// percentage and a centred label. It mounts into any dom.Document and is
// animated by an injected scheduler.FrameScheduler, so the same code drives
// a browser page, a server-side session or a test clock.
package circles

// Version of the component
const Version = "0.0.5"

// debugLog is the optional diagnostic side channel
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

func logf(args ...interface{}) {
	if debugLog != nil {
		debugLog(args...)
	}
}
