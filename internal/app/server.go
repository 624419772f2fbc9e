package app

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthHandler reports liveness and logs the probe at debug level.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startMetricsServer runs the metrics and health HTTP server in the background.
func (a *App) startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", a.healthHandler)

	addr := fmt.Sprintf(":%d", port)

	go func() {
		a.logger.Info("Metrics server starting.", "address", fmt.Sprintf("http://localhost%s/metrics", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			a.logger.Error("Metrics server failed.", "error", err)
		}
	}()
}
