// Package ops configures the operational HTTP server: Prometheus metrics,
// pprof and a health endpoint. There is no business API; the monitor itself
// has no inbound surface.
package ops

import (
	"net/http"
	"time"

	"subwatch/internal/config"
	"subwatch/pkg/controller"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options holds configuration for the operational HTTP server.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":9090".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
}

// NewOptions constructs an Options value from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:         cfg.Ops.Addr,
		ReadTimeout:  cfg.Ops.ReadTimeout,
		WriteTimeout: cfg.Ops.WriteTimeout,
		IdleTimeout:  cfg.Ops.IdleTimeout,
		MetricsPath:  cfg.Ops.MetricsPath,
	}
}

// NewServer wires up and returns the operational *http.Server. It exposes:
//   - Prometheus metrics at MetricsPath
//   - pprof endpoints under /debug/pprof/
//   - a liveness endpoint at /healthz
//
// The mux is wrapped with the access-logging middleware.
func NewServer(opts Options) *http.Server {
	mux := http.NewServeMux()

	mux.Handle(opts.MetricsPath, promhttp.Handler())

	mux.Handle("/debug/pprof/", controller.PprofMux())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:         opts.Addr,
		Handler:      controller.WithLogger(mux),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}
}
