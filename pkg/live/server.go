//go:build !wasm
// +build !wasm

package live

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/recera/circles/pkg/components/circles"
)

// Server handles WebSocket connections for live gauges
type Server struct {
	upgrader websocket.Upgrader
	sessions map[string]*Session
	graphs   []circles.Options
	mu       sync.RWMutex
}

// NewServer creates a server whose sessions display graphs
func NewServer(graphs []circles.Options) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin:     sameOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[string]*Session),
		graphs:   graphs,
	}
}

// sameOrigin accepts requests without an Origin header and those whose
// origin host matches the request host
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if i := strings.Index(origin, "://"); i >= 0 {
		origin = origin[i+3:]
	}
	return strings.EqualFold(origin, r.Host)
}

// HandleWebSocket handles WebSocket upgrade and session management
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Extract session ID from path
	sessionID := strings.TrimPrefix(r.URL.Path, PathPrefix)
	if sessionID == "" || sessionID == r.URL.Path || strings.Contains(sessionID, "/") {
		http.Error(w, "Session ID required", http.StatusBadRequest)
		return
	}

	// Upgrade connection
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Live Server] Failed to upgrade connection: %v", err)
		return
	}

	session := s.createSession(sessionID, conn)
	go session.handleConnection(s)
}

// createSession replaces any session with the same id
func (s *Server) createSession(sessionID string, conn *websocket.Conn) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, exists := s.sessions[sessionID]; exists {
		old.Close()
	}

	session := newSession(sessionID, s.graphs)
	session.conn = conn
	s.sessions[sessionID] = session
	return session
}

// GetSession retrieves a session by ID
func (s *Server) GetSession(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

// RemoveSession closes and removes a session
func (s *Server) RemoveSession(sessionID string) {
	s.mu.Lock()
	session, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if exists {
		session.Close()
	}
}

// removeIfCurrent removes session unless it has been replaced already
func (s *Server) removeIfCurrent(session *Session) {
	s.mu.Lock()
	if s.sessions[session.ID] == session {
		delete(s.sessions, session.ID)
	}
	s.mu.Unlock()
	session.Close()
}

// SessionCount returns the number of connected sessions
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Graphs returns the graphs new sessions mount
func (s *Server) Graphs() []circles.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graphs
}

// Remount swaps the graph set and rebuilds every connected session
func (s *Server) Remount(graphs []circles.Options) {
	s.mu.Lock()
	s.graphs = graphs
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		if err := session.Remount(graphs); err != nil {
			log.Printf("[Live Session %s] Remount failed: %v", session.ID, err)
		}
	}
	log.Printf("[Live Server] Remounted %d sessions with %d graphs", len(sessions), len(graphs))
}

// Close closes every session
func (s *Server) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// handleConnection manages the WebSocket connection for a session
func (s *Session) handleConnection(srv *Server) {
	defer srv.removeIfCurrent(s)

	go s.writer()

	// Set up ping/pong to detect disconnects
	s.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Read messages
	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Live Session %s] Unexpected close: %v", s.ID, err)
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			s.handleBinaryMessage(data)
		case websocket.TextMessage:
			s.handleTextMessage(data)
		}
	}
}

// writer handles writing messages to the WebSocket
func (s *Session) writer() {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.sendChan:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				log.Printf("[Live Session %s] Failed to write message: %v", s.ID, err)
				s.Close()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.closeChan:
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}
