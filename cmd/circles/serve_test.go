package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recera/circles/cmd/circles/internal/config"
)

func newTestDevServer(t *testing.T, yaml string) (*devServer, *httptest.Server) {
	t.Helper()
	dir := writeConfig(t, yaml)
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	s := newDevServer(dir, cfg)
	ts := httptest.NewServer(s.routes())
	t.Cleanup(func() {
		ts.Close()
		s.live.Close()
	})
	return s, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestServe_Index(t *testing.T) {
	_, ts := newTestDevServer(t, "graphs: [{id: cpu, radius: 40, value: 12}]")

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{`data-graph="cpu"`, `/png/cpu`, `/live/`} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}

	if resp, _ := get(t, ts.URL+"/nope"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path status = %d", resp.StatusCode)
	}
}

func TestServe_PNG(t *testing.T) {
	s, ts := newTestDevServer(t, "graphs: [{id: cpu, radius: 40, value: 12}]")

	resp, body := get(t, ts.URL+"/png/cpu")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("status %d, content type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.HasPrefix(body, "\x89PNG") {
		t.Error("body is not a PNG")
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	again, body2 := get(t, ts.URL+"/png/cpu")
	if again.StatusCode != http.StatusOK || body2 != body {
		t.Error("second request returned a different image")
	}
	if stats := s.snapshots.GetStats(); stats.Hits != 1 || stats.EntryCount != 1 {
		t.Errorf("snapshot cache hits/entries = %d/%d, want 1/1", stats.Hits, stats.EntryCount)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/png/cpu", nil)
	req.Header.Set("If-None-Match", etag)
	notModified, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	notModified.Body.Close()
	if notModified.StatusCode != http.StatusNotModified {
		t.Errorf("conditional request status = %d", notModified.StatusCode)
	}

	if resp, _ := get(t, ts.URL+"/png/missing"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing graph status = %d", resp.StatusCode)
	}
}

func TestServe_Reload(t *testing.T) {
	s, _ := newTestDevServer(t, "graphs: [{id: cpu, radius: 40, value: 12}]\ndev: {port: 9999}")

	path := filepath.Join(s.configDir, config.FileName)
	if err := os.WriteFile(path, []byte("graphs: [{id: mem, radius: 30, value: 80}]"), 0644); err != nil {
		t.Fatal(err)
	}
	s.reload()

	cfg := s.currentConfig()
	if _, ok := cfg.Graph("mem"); !ok {
		t.Errorf("reload did not pick up the new graph: %+v", cfg.Graphs)
	}
	if cfg.Dev.Port != 9999 {
		t.Errorf("reload should keep the listener settings, port = %d", cfg.Dev.Port)
	}
	if graphs := s.live.Graphs(); len(graphs) != 1 || graphs[0].ID != "mem" {
		t.Errorf("live server graphs = %+v", graphs)
	}

	// An invalid file keeps the previous config
	if err := os.WriteFile(path, []byte("graphs: [{id: bad}]"), 0644); err != nil {
		t.Fatal(err)
	}
	s.reload()
	if _, ok := s.currentConfig().Graph("mem"); !ok {
		t.Error("invalid config replaced the previous one")
	}
}
