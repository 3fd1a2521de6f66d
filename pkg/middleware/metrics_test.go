package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordNotification("success")
	m.RecordDismissal("timeout")
	m.RecordConfirmation("accepted")
	m.RecordRequest("GET", "ok", time.Millisecond)
	m.ConnectionOpened()
	m.ConnectionClosed()

	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	if got := m.HTTPMetrics(h); got == nil {
		t.Fatal("nil metrics should pass the handler through")
	}
}

func TestRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"), WithBuckets([]float64{0.1, 1}))

	m.RecordNotification("danger")
	m.RecordNotification("danger")
	m.RecordDismissal("click")
	m.RecordConfirmation("declined")
	m.RecordRequest("POST", "server_error", 20*time.Millisecond)
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()

	if got := metricCounterValue(t, m.notificationsTotal.WithLabelValues("danger")); got != 2 {
		t.Errorf("notifications_total(danger) = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.dismissalsTotal.WithLabelValues("click")); got != 1 {
		t.Errorf("dismissals_total(click) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.confirmationsTotal.WithLabelValues("declined")); got != 1 {
		t.Errorf("confirmations_total(declined) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("POST", "server_error")); got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues("POST")); got != 1 {
		t.Errorf("request_duration samples = %d, want 1", got)
	}
	if got := metricGaugeValue(t, m.activeConnections); got != 1 {
		t.Errorf("active_connections = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_notifications_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected namespaced notifications_total family")
	}
}

func TestHTTPMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	r := chi.NewRouter()
	r.Use(m.HTTPMetrics)
	r.Delete("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	for _, target := range []string{"/api/items/1", "/api/items/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, target, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := metricCounterValue(t, m.httpRequestsTotal.WithLabelValues("/api/items/{id}", "404")); got != 2 {
		t.Errorf("http_requests_total(items,404) = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.httpRequestsTotal.WithLabelValues("/", "200")); got != 1 {
		t.Errorf("http_requests_total(/,200) = %v, want 1", got)
	}
}

func TestTracingPassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Tracing())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
