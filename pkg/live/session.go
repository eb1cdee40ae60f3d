//go:build !wasm

package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/recera/circles/pkg/components/circles"
	"github.com/recera/circles/pkg/dom"
	"github.com/recera/circles/pkg/renderer/html"
	"github.com/recera/circles/pkg/scheduler"
	"github.com/recera/circles/pkg/vango/vdom"
)

// Session is one browser connection and the gauges it displays.
// Document and graph access happens only on the session's loop.
type Session struct {
	ID string

	conn      *websocket.Conn
	loop      *scheduler.Loop
	cancel    context.CancelFunc
	sendChan  chan []byte
	closeChan chan struct{}
	closeOnce sync.Once

	// owned by the loop goroutine
	doc     *dom.MemoryDocument
	graphs  map[string]*circles.Graph
	pending []vdom.Patch
	lastSeq uint64
}

// newSession starts a session loop and mounts graphs
func newSession(id string, graphs []circles.Options) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        id,
		loop:      scheduler.NewLoop(scheduler.FrameInterval),
		cancel:    cancel,
		sendChan:  make(chan []byte, 256),
		closeChan: make(chan struct{}),
	}
	s.loop.SetErrorHandler(func(err interface{}) {
		log.Printf("[Live Session %s] Frame panic: %v", s.ID, err)
	})
	s.loop.Start(ctx)
	s.send(EncodeControl(ControlHello))
	s.Remount(graphs)
	return s
}

// RequestFrame schedules fn on the session loop and flushes the patches it
// produces once it returns
func (s *Session) RequestFrame(fn func()) {
	s.loop.RequestFrame(func() {
		fn()
		s.flush()
	})
}

// Do runs fn on the session loop and flushes its patches
func (s *Session) Do(fn func()) error {
	return s.loop.Sync(func() {
		fn()
		s.flush()
	})
}

// Remount replaces the session's document with a fresh one holding graphs
// and sends its markup to the client
func (s *Session) Remount(graphs []circles.Options) error {
	return s.loop.Sync(func() {
		for _, g := range s.graphs {
			g.Stop()
		}
		s.pending = nil

		doc := dom.NewMemoryDocument()
		doc.Observe(func(p vdom.Patch) { s.pending = append(s.pending, p) })

		s.doc = doc
		s.graphs = make(map[string]*circles.Graph, len(graphs))
		for _, opts := range graphs {
			mount := doc.CreateElement("div")
			mount.SetAttribute("id", opts.ID)
			mount.SetAttribute("class", "circle")
			doc.Body().AppendChild(mount)
			s.graphs[opts.ID] = circles.Create(doc, s, opts)
		}

		// The mount frame carries everything built so far
		s.pending = nil
		markup, err := s.markup()
		if err != nil {
			log.Printf("[Live Session %s] Failed to render markup: %v", s.ID, err)
			return
		}
		s.send(EncodeControl(ControlMount, markup))
		log.Printf("[Live Session %s] Mounted %d graphs", s.ID, len(graphs))
	})
}

func (s *Session) markup() (string, error) {
	body := s.doc.Body().VNode(true)
	return html.RenderToString(vdom.NewFragment(childPointers(body)...))
}

func childPointers(v *vdom.VNode) []*vdom.VNode {
	out := make([]*vdom.VNode, len(v.Kids))
	for i := range v.Kids {
		out[i] = &v.Kids[i]
	}
	return out
}

// Graph returns a mounted graph by id. Only call it from the session loop.
func (s *Session) Graph(id string) (*circles.Graph, bool) {
	g, ok := s.graphs[id]
	return g, ok
}

// HandleMessage applies a client message to its graph
func (s *Session) HandleMessage(msg ClientMessage) error {
	var err error
	doErr := s.Do(func() {
		g, ok := s.graphs[msg.ID]
		if !ok {
			err = fmt.Errorf("unknown graph %q", msg.ID)
			return
		}
		switch msg.Type {
		case "update":
			g.UpdatePercent(msg.Percent)
		case "generate":
			g.Generate(msg.Radius)
		default:
			err = fmt.Errorf("unknown message type %q", msg.Type)
		}
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// flush sends the patches collected since the last flush
func (s *Session) flush() {
	if len(s.pending) == 0 {
		return
	}
	patches := s.pending
	s.pending = nil

	data, err := EncodePatches(patches)
	if err != nil {
		log.Printf("[Live Session %s] Failed to encode patches: %v", s.ID, err)
		return
	}
	if s.send(data) {
		s.lastSeq++
	}
}

// send queues a frame for the writer, dropping it when the buffer is full
func (s *Session) send(data []byte) bool {
	select {
	case s.sendChan <- data:
		return true
	default:
		log.Printf("[Live Session %s] Send buffer full, dropping %d bytes", s.ID, len(data))
		return false
	}
}

// Frames returns the channel of outgoing frames
func (s *Session) Frames() <-chan []byte {
	return s.sendChan
}

// Close stops the session loop and its connection
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closeChan)
		s.loop.Stop()
		s.cancel()
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// handleTextMessage decodes and applies a JSON client message
func (s *Session) handleTextMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("[Live Session %s] Invalid text message: %v", s.ID, err)
		return
	}
	if err := s.HandleMessage(msg); err != nil {
		log.Printf("[Live Session %s] %v", s.ID, err)
	}
}

// handleBinaryMessage processes binary control frames
func (s *Session) handleBinaryMessage(data []byte) {
	msg, _, err := DecodeControl(data)
	if err != nil {
		log.Printf("[Live Session %s] %v", s.ID, err)
		return
	}
	switch msg {
	case ControlHello:
		log.Printf("[Live Session %s] Client hello", s.ID)
	case ControlPing:
		s.send(EncodeControl(ControlPong))
	}
}
