// Package metrics exposes Prometheus metrics and the health endpoint
// for the signal bot.
package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the signal pipeline.
type Metrics struct {
	SignalsTotal    *prometheus.CounterVec // labels: direction
	ProviderErrors  prometheus.Counter
	FetchDur        prometheus.Histogram
	LogAppendErrors prometheus.Counter
	UpdatesTotal    prometheus.Counter
	WSClients       prometheus.Gauge
}

// New registers and returns all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_signals_total",
			Help: "Total signals produced (by direction)",
		}, []string{"direction"}),
		ProviderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalbot_provider_errors_total",
			Help: "Failed or malformed upstream data fetches",
		}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalbot_fetch_duration_seconds",
			Help:    "Upstream bar fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		LogAppendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalbot_log_append_errors_total",
			Help: "Signal log appends that failed (delivery unaffected)",
		}),
		UpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalbot_updates_total",
			Help: "Chat updates processed",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signalbot_ws_clients",
			Help: "Connected signal-stream WebSocket clients",
		}),
	}

	prometheus.MustRegister(
		m.SignalsTotal,
		m.ProviderErrors,
		m.FetchDur,
		m.LogAppendErrors,
		m.UpdatesTotal,
		m.WSClients,
	)
	return m
}

// HealthStatus represents the bot's health.
type HealthStatus struct {
	mu sync.RWMutex

	StartedAt    time.Time
	LastUpdateAt time.Time
	LastSignalAt time.Time
	LogOK        bool
	RedisInUse   bool
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now(), LogOK: true}
}

func (h *HealthStatus) SetLastUpdate(t time.Time) {
	h.mu.Lock()
	h.LastUpdateAt = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastSignal(t time.Time) {
	h.mu.Lock()
	h.LastSignalAt = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetLogOK(v bool) {
	h.mu.Lock()
	h.LogOK = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetRedisInUse(v bool) {
	h.mu.Lock()
	h.RedisInUse = v
	h.mu.Unlock()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	code := http.StatusOK
	if !h.LogOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	fmtTime := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}

	resp := struct {
		Status       string `json:"status"`
		Uptime       string `json:"uptime"`
		LastUpdateAt string `json:"last_update_at"`
		LastSignalAt string `json:"last_signal_at"`
		LogOK        bool   `json:"log_ok"`
		RedisInUse   bool   `json:"redis_in_use"`
	}{
		Status:       status,
		Uptime:       time.Since(h.StartedAt).Round(time.Second).String(),
		LastUpdateAt: fmtTime(h.LastUpdateAt),
		LastSignalAt: fmtTime(h.LastSignalAt),
		LogOK:        h.LogOK,
		RedisInUse:   h.RedisInUse,
	}

	w.Header().Set("Content-Type", "application/json")
	if code != http.StatusOK {
		w.WriteHeader(code)
	}
	json.NewEncoder(w).Encode(resp)
}

// Server runs an HTTP server exposing /metrics, /healthz, and any extra
// handlers (e.g. the signal-stream WebSocket endpoint).
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates the ops HTTP server.
func NewServer(addr string, health *HealthStatus, extra map[string]http.Handler) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", health)
	for path, handler := range extra {
		mux.Handle(path, handler)
	}

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
