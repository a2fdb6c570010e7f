// Package server runs the small HTTP listener hosting platforms poll to
// keep the bot process alive. It also exposes health and metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"earning-bot/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker is satisfied by *database.Mongo.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

func NewMux(health HealthChecker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("Bot Alive"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := health.HealthCheck(ctx); err != nil {
			logger.Warn("⚠️ health check failed", "err", err)
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

type KeepAlive struct {
	srv *http.Server
}

func NewKeepAlive(port string, health HealthChecker) *KeepAlive {
	return &KeepAlive{srv: &http.Server{
		Addr:              ":" + port,
		Handler:           NewMux(health),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Start serves in the background. A listener failure is logged, not fatal.
func (k *KeepAlive) Start() {
	go func() {
		logger.Info("Listening", "addr", k.srv.Addr)
		if err := k.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("❌ keep-alive server failed", "err", err)
		}
	}()
}

func (k *KeepAlive) Shutdown(ctx context.Context) error {
	return k.srv.Shutdown(ctx)
}
