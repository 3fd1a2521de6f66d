// Package middleware provides observability for pageglue.
//
// This package includes:
//   - Prometheus collectors for notifications, confirmations and requests
//   - HTTP metrics and OpenTelemetry tracing middleware for the live server
//   - Span helpers used by the request client
//
// # Prometheus Metrics
//
// NewMetrics registers these collectors on the configured registry:
//   - pageglue_notifications_total: alerts shown, by severity
//   - pageglue_dismissals_total: alerts detached, by reason
//   - pageglue_confirmations_total: confirmation outcomes
//   - pageglue_requests_total: outbound requests by method and outcome
//   - pageglue_request_duration_seconds: outbound request latency
//   - pageglue_http_requests_total: inbound HTTP requests to the live server
//   - pageglue_active_connections: open live-page websocket connections
//
// Every recording method is safe to call on a nil *Metrics, so components
// can treat metrics as optional.
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r := chi.NewRouter()
//	r.Use(m.HTTPMetrics)
//
// # OpenTelemetry
//
// Tracing uses the global tracer provider. Configure it in main() before
// starting the server:
//
//	otel.SetTracerProvider(tp)
//	r.Use(middleware.Tracing())
package middleware
