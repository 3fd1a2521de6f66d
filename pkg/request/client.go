package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/pageglue/pkg/middleware"
	"github.com/vango-dev/pageglue/pkg/notify"
)

// ContentTypeJSON is the default request content type.
const ContentTypeJSON = "application/json"

// Notifier surfaces request failures to the user.
type Notifier interface {
	Notify(message string, opts ...notify.Option) (*notify.Alert, error)
}

// Request describes a single call.
type Request struct {
	URL    string
	Method string // default GET

	// Data is the request body. With a JSON content type it is encoded
	// with encoding/json; otherwise it must be []byte, string, io.Reader
	// or url.Values. A nil Data sends no body.
	Data any

	ContentType string // default application/json
}

// Client sends JSON requests and reports every failure to a Notifier.
type Client struct {
	http     *http.Client
	baseURL  *url.URL
	headers  http.Header
	notifier Notifier
	logger   *slog.Logger
	metrics  *middleware.Metrics
}

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.http = hc
		return nil
	}
}

// WithBaseURL resolves relative request URLs against base.
func WithBaseURL(base string) Option {
	return func(c *Client) error {
		if base == "" {
			return nil
		}
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("request: base url: %w", err)
		}
		c.baseURL = u
		return nil
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) error {
		c.headers.Add(key, value)
		return nil
	}
}

// WithNotifier sets where failures are surfaced.
func WithNotifier(n Notifier) Option {
	return func(c *Client) error {
		c.notifier = n
		return nil
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics records request counts and latency.
func WithMetrics(m *middleware.Metrics) Option {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		http:    http.DefaultClient,
		headers: make(http.Header),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "request")
	return c, nil
}

// Do sends req and returns the decoded JSON response body. An empty
// success body yields nil.
func (c *Client) Do(ctx context.Context, req Request) (any, error) {
	var out any
	if err := c.DoInto(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoInto sends req and decodes the JSON response body into v. An empty
// success body leaves v untouched.
//
// Failures are returned as *NetworkError, *ServerError, *DecodeError or
// *EncodeError after being logged and shown as a danger notification.
func (c *Client) DoInto(ctx context.Context, req Request, v any) (err error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	req.Method = strings.ToUpper(req.Method)
	if req.ContentType == "" {
		req.ContentType = ContentTypeJSON
	}
	target := c.resolve(req.URL)

	ctx, span := middleware.StartSpan(ctx, "pageglue.request",
		attribute.String("http.method", req.Method),
		attribute.String("http.url", target),
	)
	start := time.Now()
	defer func() {
		c.metrics.RecordRequest(req.Method, outcome(err), time.Since(start))
		middleware.EndSpan(span, err)
		if err != nil {
			c.fail(req, target, err)
		}
	}()

	body, err := encodeBody(req.Data, req.ContentType)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return &NetworkError{Method: req.Method, URL: target, Err: err}
	}
	for k, vs := range c.headers {
		for _, hv := range vs {
			httpReq.Header.Add(k, hv)
		}
	}
	httpReq.Header.Set("Content-Type", req.ContentType)
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", ContentTypeJSON)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &NetworkError{Method: req.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: req.Method, URL: target, Err: err}
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{StatusCode: resp.StatusCode, Detail: detailOf(data)}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

func (c *Client) resolve(raw string) string {
	if c.baseURL == nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return c.baseURL.ResolveReference(ref).String()
}

func (c *Client) fail(req Request, target string, err error) {
	c.logger.Error("request failed",
		"method", req.Method,
		"url", target,
		"error", err,
	)
	if c.notifier == nil {
		return
	}
	if _, nerr := c.notifier.Notify(err.Error(), notify.WithSeverity(notify.SeverityDanger)); nerr != nil {
		c.logger.Warn("failure notification not shown", "error", nerr)
	}
}

// detailOf extracts the detail field of an error body.
func detailOf(body []byte) string {
	if !gjson.ValidBytes(body) {
		return FallbackMessage
	}
	d := gjson.GetBytes(body, "detail")
	switch d.Type {
	case gjson.String:
		if d.Str != "" {
			return d.Str
		}
	case gjson.Number, gjson.True, gjson.JSON:
		return d.Raw
	}
	return FallbackMessage
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == ContentTypeJSON || strings.HasSuffix(mt, "+json")
}

func encodeBody(data any, contentType string) (io.Reader, error) {
	if data == nil {
		return nil, nil
	}
	if isJSON(contentType) {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, &EncodeError{ContentType: contentType, Err: err}
		}
		return bytes.NewReader(b), nil
	}

	switch d := data.(type) {
	case []byte:
		return bytes.NewReader(d), nil
	case string:
		return strings.NewReader(d), nil
	case url.Values:
		return strings.NewReader(d.Encode()), nil
	case io.Reader:
		return d, nil
	default:
		return nil, &EncodeError{ContentType: contentType, Err: fmt.Errorf("unsupported body type %T", data)}
	}
}
