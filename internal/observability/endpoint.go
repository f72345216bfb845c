package observability

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsPath = "/metrics"

// Endpoint serves the metrics registry over HTTP for Prometheus scraping.
type Endpoint struct {
	server        *http.Server
	ListenAddress string
	logger        *slog.Logger
}

// NewEndpoint creates a telemetry endpoint serving the given metrics on
// listenAddress. logger may be nil.
func NewEndpoint(listenAddress string, metrics *PipelineMetrics, logger *slog.Logger) *Endpoint {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	}))

	return &Endpoint{
		server:        &http.Server{Addr: listenAddress, Handler: mux},
		ListenAddress: listenAddress,
		logger:        logger.With("component", "telemetry"),
	}
}

// Start runs the HTTP server in a goroutine and shuts it down gracefully
// when quitChan closes.
func (e *Endpoint) Start(wg *sync.WaitGroup, quitChan <-chan struct{}) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.logger.Info("telemetry endpoint starting", "address", e.ListenAddress)
		if err := e.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			e.logger.Error("telemetry endpoint failed", "address", e.ListenAddress, "error", err)
		}
	}()

	go func() {
		<-quitChan
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.server.Shutdown(ctx); err != nil {
			e.logger.Error("telemetry endpoint shutdown failed", "error", err)
		}
	}()
}
