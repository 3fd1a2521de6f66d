package server

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/middleware"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/render"
	"github.com/vango-dev/pageglue/pkg/toast"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

//go:embed client.js
var clientScript string

// Server serves live pages and the item API.
type Server struct {
	config   *Config
	router   chi.Router
	upgrader websocket.Upgrader
	items    *ItemStore
	toasts   *toast.Queue
	template func() *vdom.VNode

	httpServer *http.Server
	logger     *slog.Logger

	mu    sync.Mutex
	conns map[*Conn]struct{}

	stopItems func()
}

// New creates a Server. A nil items store starts empty.
func New(config *Config, items *ItemStore) *Server {
	config = config.withDefaults()
	if items == nil {
		items = NewItemStore()
	}

	s := &Server{
		config: config,
		items:  items,
		toasts: toast.NewQueue(0),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: slog.Default().With("component", "server"),
		conns:  make(map[*Conn]struct{}),
	}
	s.template = config.Template
	if s.template == nil {
		s.template = s.itemsPage
	}
	if err := config.Validate(); err != nil {
		s.logger.Error("config validation failed", "error", err)
	}
	s.router = s.routes()
	s.stopItems = items.Subscribe(s.refreshItems)
	return s
}

// SetLogger replaces the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger.With("component", "server")
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger { return s.logger }

// Config returns the effective configuration.
func (s *Server) Config() *Config { return s.config }

// Items returns the item store.
func (s *Server) Items() *ItemStore { return s.items }

// Toasts returns the queue of alerts waiting for a browser's next page.
func (s *Server) Toasts() *toast.Queue { return s.toasts }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing())
	r.Use(s.config.Metrics.HTTPMetrics)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", s.handleListItems)
		r.Post("/", s.handleCreateItem)
		r.Delete("/{id}", s.handleDeleteItem)
	})
	r.Get("/items/{id}/delete", s.handleDeleteLink)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	toast.Key(w, r)
	doc := dom.New(s.template())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := doc.RenderPage(w, render.PageData{
		Title:       s.config.Title,
		StyleSheets: s.config.StyleSheets,
		Script:      clientScript,
	})
	if err != nil {
		s.logger.Error("page render failed", "error", err)
	}
}

// HandleWebSocket upgrades the request and serves a live page on it.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := s.newConn(ws, toast.KeyOf(r))
	s.track(c)
	c.logger.Debug("connection opened", "remote", r.RemoteAddr)
	c.serve()
}

func (s *Server) track(c *Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
	s.config.Metrics.ConnectionOpened()
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	_, ok := s.conns[c]
	delete(s.conns, c)
	s.mu.Unlock()
	if ok {
		s.config.Metrics.ConnectionClosed()
	}
}

// Conns returns the open live connections.
func (s *Server) Conns() []*Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Conn, 0, len(s.conns))
	for c := range s.conns {
		out = append(out, c)
	}
	return out
}

// Broadcast shows message on every live page and returns how many pages
// received it.
func (s *Server) Broadcast(message string, opts ...notify.Option) int {
	n := 0
	for _, c := range s.Conns() {
		if _, err := c.notifier.Notify(message, opts...); err != nil {
			c.logger.Warn("broadcast failed", "error", err)
			continue
		}
		n++
	}
	return n
}

// refreshItems rebuilds the item list on every live page. Pages built from
// a custom Template without an items region are left alone.
func (s *Server) refreshItems() {
	for _, c := range s.Conns() {
		err := c.replaceItems(s.itemList())
		if err != nil && !errors.Is(err, errNoItemsRegion) {
			c.logger.Warn("item list not refreshed", "error", err)
		}
	}
}

// Run serves until SIGINT or SIGTERM and then shuts down gracefully.
func (s *Server) Run() error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes live connections and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.stopItems()

	for _, c := range s.Conns() {
		c.Close()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
