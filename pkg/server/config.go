package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/pageglue/pkg/middleware"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

// DefaultStyleSheet styles the alert and button classes used by pages.
const DefaultStyleSheet = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"

// Config configures a Server.
type Config struct {
	// Address is the listen address.
	Address string

	// Title is the page title.
	Title string

	// StyleSheets are linked from the page head.
	StyleSheets []string

	// Template builds the body of a fresh page. Every page load and every
	// live connection gets its own tree. Nil renders the item list.
	Template func() *vdom.VNode

	// Notify configures the notifier of each live connection.
	Notify notify.Config

	// Metrics records server and page metrics. Nil disables them.
	Metrics *middleware.Metrics

	// Gatherer backs the /metrics endpoint.
	Gatherer prometheus.Gatherer

	// WebSocket settings.
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool

	// ReadTimeout is the websocket read deadline, refreshed by pongs.
	ReadTimeout time.Duration

	// PingInterval must be shorter than ReadTimeout.
	PingInterval time.Duration

	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration

	// HTTP server settings.
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		Title:             "pageglue",
		StyleSheets:       []string{DefaultStyleSheet},
		Gatherer:          prometheus.DefaultGatherer,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		CheckOrigin:       sameOrigin,
		ReadTimeout:       60 * time.Second,
		PingInterval:      25 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.Title == "" {
		out.Title = d.Title
	}
	if out.StyleSheets == nil {
		out.StyleSheets = d.StyleSheets
	}
	if out.Gatherer == nil {
		out.Gatherer = d.Gatherer
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.PingInterval == 0 {
		out.PingInterval = d.PingInterval
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = d.IdleTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	return &out
}

// Validate checks timing constraints.
func (c *Config) Validate() error {
	if c.PingInterval >= c.ReadTimeout {
		return fmt.Errorf("server: ping interval %s must be shorter than read timeout %s", c.PingInterval, c.ReadTimeout)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("server: write timeout must be positive")
	}
	return nil
}

// sameOrigin accepts requests without an Origin header and those whose
// Origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
