// Package live streams server-side gauges to browsers over a websocket.
//
// Each connection gets a Session that owns an in-memory document, a frame
// loop and the graphs it mounts. Mutations made by the graphs are batched
// per frame and sent as binary patch frames; the browser applies them to
// elements tagged with data-nid.
package live

// PathPrefix is where HandleWebSocket expects to be mounted; the rest of
// the path is the session id
const PathPrefix = "/live/"

// MessageType represents the type of live protocol frame
type MessageType uint8

const (
	// Frame types
	FramePatches MessageType = 0x00
	FrameControl MessageType = 0x02
)

// Control messages
const (
	ControlHello = "HELLO"
	ControlPing  = "PING"
	ControlPong  = "PONG"
	// ControlMount carries the full markup of the session's document
	ControlMount = "MOUNT"
)

// ClientMessage is a JSON text message sent by the browser
type ClientMessage struct {
	Type    string  `json:"type"` // "update" or "generate"
	ID      string  `json:"id"`
	Percent float64 `json:"percent,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
}
