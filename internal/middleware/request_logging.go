package middleware

import (
	"log"
	"net/http"
	"time"
)

// RequestLogging writes one line per request. Kept off the hot path for
// /metrics scrapes, which arrive every few seconds.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: 200}

		next.ServeHTTP(wrapped, r)

		log.Printf("[HTTP] %s %s %d %s", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}
