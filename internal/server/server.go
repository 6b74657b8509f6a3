// Package server serves the latest spawn report over HTTP and pushes every
// recomputed report to WebSocket subscribers.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/roguestats/internal/config"
	"github.com/lawnchairsociety/roguestats/internal/engine"
	"github.com/lawnchairsociety/roguestats/internal/logger"
	"github.com/lawnchairsociety/roguestats/internal/report"
	"github.com/lawnchairsociety/roguestats/internal/stats"
)

// Server recomputes the report for one spawn log file and publishes it.
type Server struct {
	cfg      config.ServeConfig
	engine   *engine.Engine
	path     string
	weights  stats.Weights
	textOpts report.TextOptions

	connLimiter *ConnLimiter
	hub         *Hub

	refreshMu sync.Mutex // Serializes recomputation and broadcast

	mu      sync.RWMutex // Guards the fields below
	latest  *report.Report
	encoded []byte
}

// New creates a server for the spawn log at path.
func New(cfg config.ServeConfig, eng *engine.Engine, path string, w stats.Weights, textOpts report.TextOptions) (*Server, error) {
	if path == "" || path == "-" {
		return nil, fmt.Errorf("serve needs a named spawn log file")
	}
	return &Server{
		cfg:         cfg,
		engine:      eng,
		path:        path,
		weights:     w,
		textOpts:    textOpts,
		connLimiter: NewConnLimiter(cfg.MaxClients, cfg.MaxPerIP),
		hub:         NewHub(),
	}, nil
}

// Refresh recomputes the report and pushes it to every client. On failure
// the previous report stays published. Readers see the new report before the
// broadcast starts, so a slow subscriber never blocks GET /report.
func (s *Server) Refresh() error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	res, err := s.engine.Analyze(engine.File(s.path), s.weights)
	if err != nil {
		logger.Warning("Could not refresh report", "path", s.path, "error", err)
		return err
	}

	data, err := json.Marshal(res.Report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	s.mu.Lock()
	s.latest = res.Report
	s.encoded = data
	s.mu.Unlock()

	sent := s.hub.Broadcast(data)
	logger.Info("Report published", "path", s.path, "levels", res.Report.Header.Levels, "clients", sent, "cache_hit", res.CacheHit)
	return nil
}

// Latest returns the current report, or nil before the first Refresh.
func (s *Server) Latest() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Handler returns the HTTP routes: GET /report and the /ws subscription.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/report", s.handleReport)
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// Run serves HTTP and watches the spawn log until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Refresh(); err != nil {
		return err
	}

	debounce := time.Duration(s.cfg.DebounceMS) * time.Millisecond
	watcher, err := NewFileWatcher(s.path, debounce, func() {
		// Failures are logged by Refresh; the old report stays up.
		_ = s.Refresh()
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx)
	})
	g.Go(func() error {
		logger.Info("Report server listening", "address", s.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("report server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := report.FormatJSON
	if name := r.URL.Query().Get("format"); name != "" {
		f, err := report.ParseFormat(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	s.mu.RLock()
	latest, data := s.latest, s.encoded
	s.mu.RUnlock()
	if latest == nil {
		http.Error(w, "report not ready", http.StatusServiceUnavailable)
		return
	}

	switch format {
	case report.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	default:
		var buf bytes.Buffer
		if err := report.Render(&buf, latest, format, s.textOpts); err != nil {
			logger.Error("Failed to render report", "format", format, "error", err)
			http.Error(w, "failed to render report", http.StatusInternalServerError)
			return
		}
		if format == report.FormatYAML {
			w.Header().Set("Content-Type", "application/yaml")
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		w.Write(buf.Bytes())
	}
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	// Get the real client IP (supports X-Forwarded-For from reverse proxies)
	clientIP := getRealIP(r)

	// Check connection limits before upgrading
	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("WebSocket upgrade failed", "error", err)
		// Release the connection slot since upgrade failed
		s.connLimiter.Release(clientIP)
		return
	}

	go s.handleWebSocketConnection(wsConn, clientIP)
}

// handleWebSocketConnection subscribes a client until it disconnects.
func (s *Server) handleWebSocketConnection(wsConn *websocket.Conn, clientIP string) {
	client := NewWebSocketClient(wsConn, clientIP)
	defer func() {
		s.hub.Remove(client)
		s.connLimiter.Release(clientIP)
		client.Close()
	}()

	// Holding the read lock orders the first message before any later broadcast.
	s.mu.RLock()
	s.hub.Add(client)
	data := s.encoded
	var err error
	if data != nil {
		err = client.Write(data)
	}
	s.mu.RUnlock()
	if err != nil {
		logger.Debug("Initial report write failed", "client_ip", clientIP, "error", err)
		return
	}

	logger.Debug("WebSocket client subscribed", "client_ip", clientIP, "clients", s.hub.Count())
	client.WaitClosed()
	logger.Debug("WebSocket client left", "client_ip", clientIP)
}
