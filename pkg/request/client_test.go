package request

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/vango-dev/pageglue/pkg/clock"
	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/notify"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *notify.Notifier) {
	t.Helper()
	n := notify.New(dom.New(nil), notify.Config{Clock: clock.NewManual(time.Unix(0, 0))})
	opts = append([]Option{
		WithNotifier(n),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	c, err := New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c, n
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dangerAlerts(t *testing.T, n *notify.Notifier) []*notify.Alert {
	t.Helper()
	alerts := n.Active()
	for _, a := range alerts {
		if a.Severity != notify.SeverityDanger {
			t.Errorf("alert %q has severity %q, want danger", a.Message, a.Severity)
		}
	}
	return alerts
}

func TestServerErrorDetail(t *testing.T) {
	srv := serve(t, http.StatusNotFound, `{"detail":"not found"}`)
	c, n := newTestClient(t)

	_, err := c.Do(context.Background(), Request{URL: srv.URL})
	if err == nil || err.Error() != "not found" {
		t.Fatalf("err = %v, want message %q", err, "not found")
	}
	var se *ServerError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("err = %#v, want *ServerError with 404", err)
	}
	if !errors.Is(err, ErrServer) {
		t.Error("errors.Is(err, ErrServer) = false")
	}

	alerts := dangerAlerts(t, n)
	if len(alerts) != 1 || alerts[0].Message != "not found" {
		t.Errorf("alerts = %v, want exactly one danger notification", alerts)
	}
}

func TestServerErrorFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", "<h1>Bad Gateway</h1>", FallbackMessage},
		{"no detail", `{"error":"x"}`, FallbackMessage},
		{"empty detail", `{"detail":""}`, FallbackMessage},
		{"structured detail", `{"detail":[{"loc":"a"}]}`, `[{"loc":"a"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, http.StatusBadGateway, tt.body)
			c, n := newTestClient(t)

			_, err := c.Do(context.Background(), Request{URL: srv.URL})
			if !errors.Is(err, ErrServer) || err.Error() != tt.want {
				t.Errorf("err = %v, want server error %q", err, tt.want)
			}
			if len(dangerAlerts(t, n)) != 1 {
				t.Error("want exactly one notification")
			}
		})
	}
}

func TestSuccessDecodesJSON(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"ok":true}`)
	c, n := newTestClient(t)

	got, err := c.Do(context.Background(), Request{URL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"ok": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(n.Active()) != 0 {
		t.Error("success must not notify")
	}
}

func TestPostEncodesJSON(t *testing.T) {
	var (
		gotMethod string
		gotType   string
		gotBody   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t)
	_, err := c.Do(context.Background(), Request{URL: srv.URL, Method: "post", Data: map[string]int{"a": 1}})
	if err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q", gotMethod)
	}
	if gotType != ContentTypeJSON {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotBody != `{"a":1}` {
		t.Errorf("body = %q", gotBody)
	}
}

func TestRawBodyPassesThrough(t *testing.T) {
	var gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, _ := newTestClient(t)
	got, err := c.Do(context.Background(), Request{
		URL:         srv.URL,
		Method:      http.MethodPut,
		Data:        "plain words",
		ContentType: "text/plain",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("empty body should decode to nil, got %v", got)
	}
	if gotType != "text/plain" || gotBody != "plain words" {
		t.Errorf("type = %q body = %q", gotType, gotBody)
	}
}

func TestNilDataSendsNoBody(t *testing.T) {
	var gotLen int64 = -2
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLen = r.ContentLength
		gotType = r.Header.Get("Content-Type")
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t)
	if _, err := c.Do(context.Background(), Request{URL: srv.URL}); err != nil {
		t.Fatal(err)
	}
	if gotLen != 0 {
		t.Errorf("ContentLength = %d, want 0", gotLen)
	}
	if gotType != ContentTypeJSON {
		t.Errorf("Content-Type must always be set, got %q", gotType)
	}
}

func TestDecodeFailure(t *testing.T) {
	srv := serve(t, http.StatusOK, `not json`)
	c, n := newTestClient(t)

	_, err := c.Do(context.Background(), Request{URL: srv.URL})
	var de *DecodeError
	if !errors.As(err, &de) || !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	if len(dangerAlerts(t, n)) != 1 {
		t.Error("want exactly one notification")
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, n := newTestClient(t)
	_, err := c.Do(context.Background(), Request{URL: url})
	var ne *NetworkError
	if !errors.As(err, &ne) || !errors.Is(err, ErrNetwork) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
	if ne.Method != http.MethodGet || ne.URL != url {
		t.Errorf("NetworkError = %+v", ne)
	}
	if len(dangerAlerts(t, n)) != 1 {
		t.Error("want exactly one notification")
	}
}

func TestContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := newTestClient(t)
	_, err := c.Do(ctx, Request{URL: srv.URL})
	if !errors.Is(err, ErrNetwork) || !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want network failure wrapping context.Canceled", err)
	}
}

func TestEncodeFailure(t *testing.T) {
	c, n := newTestClient(t)
	_, err := c.Do(context.Background(), Request{URL: "http://127.0.0.1:1", Method: "POST", Data: make(chan int)})
	if !errors.Is(err, ErrEncode) {
		t.Fatalf("err = %v, want ErrEncode", err)
	}
	if len(dangerAlerts(t, n)) != 1 {
		t.Error("encode failures are surfaced too")
	}

	_, err = c.Do(context.Background(), Request{URL: "http://127.0.0.1:1", Method: "POST", Data: 42, ContentType: "text/plain"})
	if !errors.Is(err, ErrEncode) {
		t.Errorf("err = %v, want ErrEncode for unsupported raw body", err)
	}
}

func TestBaseURLAndHeaders(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"id":7,"name":"seven"}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, WithBaseURL(srv.URL+"/api/"), WithHeader("Authorization", "Bearer t"))

	var item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := c.DoInto(context.Background(), Request{URL: "items/7"}, &item); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/api/items/7" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer t" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if item.ID != 7 || item.Name != "seven" {
		t.Errorf("item = %+v", item)
	}
}

func TestWithoutNotifier(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, `{"detail":"boom"}`)
	c, err := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Do(context.Background(), Request{URL: srv.URL}); err == nil || err.Error() != "boom" {
		t.Errorf("err = %v", err)
	}
}

func TestInvalidBaseURL(t *testing.T) {
	if _, err := New(WithBaseURL("://bad")); err == nil {
		t.Error("expected error for invalid base url")
	}
}
