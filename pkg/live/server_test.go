//go:build !wasm

package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/recera/circles/pkg/components/circles"
	"github.com/recera/circles/pkg/vango/vdom"
)

func newTestServer(t *testing.T, graphs []circles.Options) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(graphs)
	mux := http.NewServeMux()
	mux.HandleFunc(PathPrefix, srv.HandleWebSocket)
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + PathPrefix + session
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", kind)
	}
	return data
}

func TestServer_LiveUpdate(t *testing.T) {
	srv, ts := newTestServer(t, []circles.Options{staticGraph("g")})
	conn := dial(t, ts, "abc")

	expectControl(t, readFrame(t, conn), ControlHello)
	dec := expectControl(t, readFrame(t, conn), ControlMount)
	markup, err := dec.ReadString()
	if err != nil || !strings.Contains(markup, `id="g"`) {
		t.Fatalf("mount markup = %q, %v", markup, err)
	}
	if srv.SessionCount() != 1 {
		t.Errorf("SessionCount = %d, want 1", srv.SessionCount())
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"update","id":"g","percent":31}`)); err != nil {
		t.Fatal(err)
	}

	patches, err := DecodePatches(readFrame(t, conn))
	if err != nil {
		t.Fatal(err)
	}
	want := circles.NewGeometry(50, 10).ArcPath(31, true)
	if len(patches) != 1 || patches[0].Op != vdom.OpSetAttribute || patches[0].Value != want {
		t.Errorf("patches = %v, want d=%q", patches, want)
	}
}

func TestServer_Remount(t *testing.T) {
	srv, ts := newTestServer(t, []circles.Options{staticGraph("g")})
	conn := dial(t, ts, "abc")
	readFrame(t, conn)
	readFrame(t, conn)

	srv.Remount([]circles.Options{staticGraph("h")})

	dec := expectControl(t, readFrame(t, conn), ControlMount)
	markup, _ := dec.ReadString()
	if !strings.Contains(markup, `id="h"`) {
		t.Errorf("remount markup = %s", markup)
	}
	if got := srv.Graphs(); len(got) != 1 || got[0].ID != "h" {
		t.Errorf("Graphs() = %v", got)
	}
}

func TestServer_RemovesClosedSessions(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	conn := dial(t, ts, "abc")
	readFrame(t, conn)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session was not removed after the client left")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_RequiresSessionID(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + PathPrefix)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		origin string
		host   string
		want   bool
	}{
		{"", "localhost:8080", true},
		{"http://localhost:8080", "localhost:8080", true},
		{"https://Example.com", "example.com", true},
		{"http://evil.test", "localhost:8080", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/live/x", nil)
		r.Host = tt.host
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := sameOrigin(r); got != tt.want {
			t.Errorf("sameOrigin(%q, %q) = %v, want %v", tt.origin, tt.host, got, tt.want)
		}
	}
}
