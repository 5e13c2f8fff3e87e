// Package mockapi serves a fake "poll until ready" backend for manual
// testing of the engine. It reproduces the wire contract exactly:
// 404 {"ready":false} while pending, 200 {"ready":true,"data":...} once
// ready, plus failure modes for every classification branch.
package mockapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mode selects what /data answers.
type Mode string

const (
	ModeReady       Mode = "ready"         // pending, then ready
	ModeServerError Mode = "server-error"  // always 500
	ModeBadFormat   Mode = "bad-format"    // 200 with a malformed body
	ModeBadNotReady Mode = "bad-not-ready" // 404 with ready not exactly false
)

// Config holds mock backend settings.
type Config struct {
	Addr       string        `yaml:"addr"`
	ReadyAfter int           `yaml:"ready_after"` // requests served before the data is ready
	ReadyDelay time.Duration `yaml:"ready_delay"` // additionally, minimum uptime before ready
	Mode       Mode          `yaml:"mode"`
	Data       string        `yaml:"data"` // payload echoed once ready
}

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mockapi_requests_total",
		Help: "Total mock backend requests by response kind",
	},
	[]string{"kind"},
)

// Server is the mock backend HTTP server.
type Server struct {
	cfg     Config
	mux     *http.ServeMux
	server  *http.Server
	log     *slog.Logger
	started time.Time
	served  atomic.Int64
}

// NewServer creates a mock backend bound to cfg.Addr.
func NewServer(cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeReady
	}
	if cfg.Data == "" {
		cfg.Data = "hello from mockapi"
	}

	mux := http.NewServeMux()
	s := &Server{
		cfg: cfg,
		mux: mux,
		log: log,
		server: &http.Server{
			Addr:    cfg.Addr,
			Handler: mux,
		},
	}

	mux.HandleFunc("/data", s.handleData)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Handler exposes the mux for httptest-style embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.started = time.Now()
	s.log.Info("mock backend listening", "addr", s.cfg.Addr, "mode", s.cfg.Mode)
	return s.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	n := s.served.Add(1)

	// Per-request mode override for manual poking.
	mode := s.cfg.Mode
	if q := r.URL.Query().Get("mode"); q != "" {
		mode = Mode(q)
	}

	switch mode {
	case ModeServerError:
		requestsTotal.WithLabelValues("server_error").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal failure"})

	case ModeBadFormat:
		requestsTotal.WithLabelValues("bad_format").Inc()
		writeJSON(w, http.StatusOK, map[string]any{"ready": false, "data": s.cfg.Data})

	case ModeBadNotReady:
		requestsTotal.WithLabelValues("bad_not_ready").Inc()
		writeJSON(w, http.StatusNotFound, map[string]any{"ready": "soon"})

	default:
		if s.ready(n) {
			requestsTotal.WithLabelValues("ready").Inc()
			writeJSON(w, http.StatusOK, map[string]any{"ready": true, "data": s.cfg.Data})
			return
		}
		requestsTotal.WithLabelValues("not_ready").Inc()
		writeJSON(w, http.StatusNotFound, map[string]any{"ready": false})
	}
}

// ready reports whether request n should be served the final payload.
func (s *Server) ready(n int64) bool {
	if n <= int64(s.cfg.ReadyAfter) {
		return false
	}
	if s.cfg.ReadyDelay > 0 && !s.started.IsZero() && time.Since(s.started) < s.cfg.ReadyDelay {
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"served": s.served.Load(),
		"mode":   s.cfg.Mode,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
