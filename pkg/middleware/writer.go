package middleware

import (
	"bufio"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// statusWriter records the response status. It keeps http.Hijacker working
// for websocket upgrades.
type statusWriter struct {
	chimw.WrapResponseWriter
}

func wrap(w http.ResponseWriter, r *http.Request) statusWriter {
	return statusWriter{chimw.NewWrapResponseWriter(w, r.ProtoMajor)}
}

// Status returns the written status, 200 when nothing was written.
func (w statusWriter) Status() int {
	if s := w.WrapResponseWriter.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

// Hijack goes through the unwrapped writer. chi only wraps writers with a
// Hijack method when they also flush, so a nested statusWriter may sit
// behind a basic wrapper.
func (w statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(w.Unwrap()).Hijack()
}

func (w statusWriter) Flush() {
	http.NewResponseController(w.Unwrap()).Flush()
}

// routePattern returns the matched chi route, or "unmatched". Call it after
// the request was routed.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
