// Package middleware provides HTTP middleware for the inspector API.
//
// This package includes:
//   - OpenTelemetry tracing, one server span per request
//   - Prometheus request metrics
//   - Structured request logging with slog
//
// Every middleware has the func(http.Handler) http.Handler shape and plugs
// into a chi router with Use:
//
//	r := chi.NewRouter()
//	r.Use(
//	    middleware.OpenTelemetry(middleware.WithTracerName("guise-inspect")),
//	    middleware.Prometheus(middleware.WithRegistry(reg)),
//	    middleware.Logging(logger),
//	)
//
// # OpenTelemetry
//
// Spans are named after the matched chi route pattern ("GET /commits/{seq}")
// rather than the raw path, so sequence numbers do not explode span
// cardinality. The tracer comes from the global provider; configure it in
// main before serving:
//
//	otel.SetTracerProvider(tp)
//
// # Prometheus Metrics
//
//   - guise_http_requests_total{method,route,code}
//   - guise_http_request_duration_seconds{method,route}
//   - guise_http_requests_in_flight
package middleware
