package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/recera/circles/cmd/circles/internal/config"
	"github.com/recera/circles/internal/cache"
	"github.com/recera/circles/pkg/components/circles"
	"github.com/recera/circles/pkg/live"
	"github.com/recera/circles/pkg/renderer/raster"
)

//go:embed assets/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type devServer struct {
	configDir string
	watcher   *fsnotify.Watcher
	live      *live.Server
	snapshots *cache.Cache

	mu     sync.RWMutex
	config *config.Config
}

func newServeCommand() *cobra.Command {
	var port int
	var host string
	var configDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live graphs over a websocket",
		Long: `Starts an HTTP server whose page streams the graphs of circles.yaml from
server-side sessions. Edits to circles.yaml are picked up and remounted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configDir, host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from circles.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from circles.yaml)")
	cmd.Flags().StringVar(&configDir, "config", ".", "Directory containing circles.yaml")

	return cmd
}

func runServe(configDir, host string, port int) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// CLI takes precedence
	if port != 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	server := newDevServer(configDir, cfg)
	defer server.live.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	server.watcher = watcher
	if err := watcher.Add(configDir); err != nil {
		log.Printf("[Serve] Not watching %s: %v", configDir, err)
	} else {
		go server.watchConfig()
	}

	addr := net.JoinHostPort(cfg.Dev.Host, strconv.Itoa(cfg.Dev.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[Serve] Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Printf("[Serve] %d graphs on http://%s", len(cfg.Graphs), addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func newDevServer(configDir string, cfg *config.Config) *devServer {
	return &devServer{
		configDir: configDir,
		config:    cfg,
		live:      live.NewServer(cfg.Options()),
		snapshots: cache.New(cfg.Dev.CacheConfig()),
	}
}

func (s *devServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.serveIndex)
	mux.HandleFunc("GET /png/{id}", s.servePNG)
	mux.HandleFunc(live.PathPrefix, s.live.HandleWebSocket)
	return mux
}

func (s *devServer) currentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *devServer) serveIndex(w http.ResponseWriter, r *http.Request) {
	cfg := s.currentConfig()
	data := struct {
		Version string
		Graphs  []config.GraphConfig
	}{circles.Version, cfg.Graphs}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Printf("[Serve] Failed to render index: %v", err)
	}
}

// servePNG renders the final state of a configured graph. Encoded images
// are cached by gauge so unchanged graphs are not redrawn.
func (s *devServer) servePNG(w http.ResponseWriter, r *http.Request) {
	g, ok := s.currentConfig().Graph(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	gauge := raster.FromGraph(circles.Create(nil, nil, g.Options()))
	key := cache.Key(fmt.Sprintf("%+v", gauge))
	etag := `"` + key[:16] + `"`
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, ok := s.snapshots.Get(key)
	if !ok {
		var buf bytes.Buffer
		if err := raster.EncodePNG(&buf, gauge); err != nil {
			log.Printf("[Serve] Failed to render %s.png: %v", g.ID, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = buf.Bytes()
		s.snapshots.Put(key, data)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// watchConfig reloads circles.yaml after it changes, debounced
func (s *devServer) watchConfig() {
	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != config.FileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Println("[Serve] Watcher error:", err)

		case <-debounce.C:
			s.reload()
		}
	}
}

// reload re-reads the config and remounts every live session. An invalid
// file keeps the previous config.
func (s *devServer) reload() {
	cfg, err := config.Load(s.configDir)
	if err != nil {
		log.Printf("[Serve] Keeping previous config: %v", err)
		return
	}

	s.mu.Lock()
	// The listener address does not change on reload
	cfg.Dev = s.config.Dev
	s.config = cfg
	s.mu.Unlock()

	s.live.Remount(cfg.Options())
	log.Printf("[Serve] Reloaded %s: %d graphs", config.FileName, len(cfg.Graphs))
}
