package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Logging logs one line per request. Server errors log at Error, client
// errors at Warn and everything else at Debug.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := wrap(w, r)
			next.ServeHTTP(sw, r)

			status := sw.Status()
			level := slog.LevelDebug
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "inspector request",
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.Int("status", status),
				slog.Int("bytes", sw.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
