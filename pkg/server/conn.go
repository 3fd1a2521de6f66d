package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/pageglue/pkg/confirm"
	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/page"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

// Conn is a live page bound to one websocket. It owns its own document,
// notifier and confirmation broker.
type Conn struct {
	id     string
	server *Server
	ws     *websocket.Conn
	logger *slog.Logger

	doc      *dom.Document
	notifier *notify.Notifier
	broker   *confirm.Broker
	page     *page.Page

	ctx    context.Context
	cancel context.CancelFunc

	writeMu     sync.Mutex
	closed      atomic.Bool
	closeOnce   sync.Once
	unsubscribe func()
}

func (s *Server) newConn(ws *websocket.Conn, toastKey string) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		id:     uuid.NewString(),
		server: s,
		ws:     ws,
		ctx:    ctx,
		cancel: cancel,
	}
	c.logger = s.logger.With("conn", c.id)
	c.doc = dom.New(s.template())

	ncfg := s.config.Notify
	ncfg.Logger = c.logger
	if ncfg.Metrics == nil {
		ncfg.Metrics = s.config.Metrics
	}
	c.notifier = notify.New(c.doc, ncfg)

	c.broker = confirm.NewBroker(c.publishConfirm)
	gate := confirm.NewGate(c.broker,
		confirm.WithLogger(c.logger),
		confirm.WithMetrics(s.config.Metrics),
	)
	c.page = page.New(c.notifier, gate, page.NavigatorFunc(c.navigate), page.WithLogger(c.logger))
	c.page.Ready()

	if shown, err := s.toasts.Show(toastKey, c.notifier); err != nil {
		c.logger.Warn("queued alerts not shown", "error", err)
	} else if shown > 0 {
		c.logger.Debug("queued alerts shown", "count", shown)
	}

	c.unsubscribe = c.doc.Subscribe(c.pushHTML)
	return c
}

// ID returns the connection id.
func (c *Conn) ID() string { return c.id }

// Page returns the live page.
func (c *Conn) Page() *page.Page { return c.page }

// Notifier returns the page notifier.
func (c *Conn) Notifier() *notify.Notifier { return c.notifier }

// serve runs the read loop until the connection ends.
func (c *Conn) serve() {
	defer c.Close()

	cfg := c.server.config
	c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})
	go c.pingLoop()

	c.pushHTML()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reportError(fmt.Errorf("server: decode message: %w", err))
			continue
		}
		c.handle(msg)
	}
}

func (c *Conn) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgClick:
		// Clicks may block on a confirmation whose answer arrives through
		// this read loop, so they run on their own goroutine.
		go func() {
			err := c.click(msg)
			if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, confirm.ErrClosed) {
				return
			}
			c.reportError(err)
		}()

	case MsgConfirm:
		if err := c.broker.Resolve(msg.ID, msg.Accepted); err != nil {
			c.reportError(err)
		}

	default:
		c.reportError(fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type))
	}
}

func (c *Conn) click(msg ClientMessage) error {
	if msg.Target != "" {
		return c.page.ClickID(c.ctx, msg.Target)
	}
	target, err := c.doc.ElementAt(msg.Path)
	if err != nil {
		return err
	}
	return c.page.Click(c.ctx, target)
}

func (c *Conn) reportError(err error) {
	c.logger.Warn("client message failed", "error", err)
	if serr := c.send(ServerMessage{Type: MsgError, Message: err.Error()}); serr != nil {
		c.logger.Debug("error not delivered", "error", serr)
	}
}

func (c *Conn) pingLoop() {
	ticker := time.NewTicker(c.server.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.server.config.WriteTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.logger.Debug("ping failed", "error", err)
				c.Close()
				return
			}
		}
	}
}

// send writes msg to the browser.
func (c *Conn) send(msg ServerMessage) error {
	if c.closed.Load() {
		return ErrNoConnection
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.server.config.WriteTimeout))
	if err := c.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("server: write %s: %w", msg.Type, err)
	}
	return nil
}

// pushHTML sends the current body markup.
func (c *Conn) pushHTML() {
	html, err := c.doc.HTML()
	if err != nil {
		c.logger.Error("render failed", "error", err)
		return
	}
	if err := c.send(ServerMessage{Type: MsgHTML, HTML: html}); err != nil && !errors.Is(err, ErrNoConnection) {
		c.logger.Debug("html push failed", "error", err)
	}
}

// replaceItems swaps the children of the items region for list. The alert
// holder lives outside the region and keeps its alerts.
func (c *Conn) replaceItems(list *vdom.VNode) error {
	return c.doc.Update(func(t *dom.Tree) error {
		region := t.GetElementByID(ItemsRegionID)
		if region == nil {
			return errNoItemsRegion
		}
		return t.ReplaceChildren(region, list)
	})
}

func (c *Conn) publishConfirm(p confirm.PendingAction) error {
	return c.send(ServerMessage{Type: MsgConfirm, ID: p.ID, Message: p.Message})
}

func (c *Conn) navigate(_ context.Context, href string) error {
	return c.send(ServerMessage{Type: MsgNavigate, Href: href})
}

// Close ends the connection and aborts pending confirmations.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.cancel()
		c.broker.Close()
		c.unsubscribe()
		c.ws.Close()
		c.server.untrack(c)
		c.logger.Debug("connection closed")
	})
}
