package http

import (
	"net/http"
	"time"

	"github.com/nimbuzyn/nimbuzyn/pkg/httpx"
)

// LivezHandler answers liveness probes with uptime and build version.
func LivezHandler(startTime time.Time, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"version": version,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		})
	})
}

// ReadyzHandler answers readiness probes; it fails while the database is
// unreachable.
func ReadyzHandler(ping func(r *http.Request) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r); err != nil {
				httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
}
