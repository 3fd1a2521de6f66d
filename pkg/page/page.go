package page

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/vango-dev/pageglue/pkg/confirm"
	"github.com/vango-dev/pageglue/pkg/delegate"
	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

const (
	// ConfirmAttr marks elements whose default action needs confirmation.
	// Its value is the prompt.
	ConfirmAttr = "data-confirm"

	// BootstrapDismissAttr marks close buttons in Bootstrap alert markup,
	// as in <button class="btn-close" data-bs-dismiss="alert">.
	BootstrapDismissAttr = "data-bs-dismiss"

	// EventClick is the event type dispatched by Click.
	EventClick = "click"
)

// Navigator performs page navigation.
type Navigator interface {
	Navigate(ctx context.Context, href string) error
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(ctx context.Context, href string) error

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(ctx context.Context, href string) error {
	return f(ctx, href)
}

// Page wires the delegated page behaviours: alert close buttons and
// confirm-before-navigate links.
type Page struct {
	doc      *dom.Document
	notifier *notify.Notifier
	gate     *confirm.Gate
	nav      Navigator
	registry *delegate.Registry
	logger   *slog.Logger

	readyOnce sync.Once
}

// Option configures a Page.
type Option func(*Page)

// WithLogger sets the page logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Page) { p.logger = logger }
}

// WithRegistry shares a delegation registry, letting callers register
// their own markers next to the built-in ones.
func WithRegistry(r *delegate.Registry) Option {
	return func(p *Page) { p.registry = r }
}

// New creates a Page on the notifier's document.
func New(n *notify.Notifier, gate *confirm.Gate, nav Navigator, opts ...Option) *Page {
	p := &Page{
		doc:      n.Document(),
		notifier: n,
		gate:     gate,
		nav:      nav,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = delegate.NewRegistry()
	}
	p.logger = p.logger.With("component", "page")
	return p
}

// Document returns the page document.
func (p *Page) Document() *dom.Document { return p.doc }

// Notifier returns the page notifier.
func (p *Page) Notifier() *notify.Notifier { return p.notifier }

// Registry returns the delegation registry.
func (p *Page) Registry() *delegate.Registry { return p.registry }

// Ready registers the page behaviours. It is safe to call more than once.
func (p *Page) Ready() {
	p.readyOnce.Do(func() {
		p.registry.Handle(EventClick,
			delegate.Marker{Attr: notify.DismissAttr, Value: notify.DismissValue},
			p.handleDismiss)
		p.registry.Handle(EventClick,
			delegate.Marker{Attr: BootstrapDismissAttr, Value: notify.DismissValue},
			p.handleDismiss)
		p.registry.Handle(EventClick,
			delegate.Marker{Attr: ConfirmAttr},
			p.handleConfirm)
		p.logger.Debug("page ready")
	})
}

// Click dispatches a click on target. When no handler prevents it, the
// default action runs: navigating to the href of target or of its nearest
// linked ancestor.
func (p *Page) Click(ctx context.Context, target *vdom.VNode) error {
	ev := &delegate.Event{Type: EventClick, Target: target}
	err := p.registry.Dispatch(ctx, p.doc, ev)
	if err != nil && !errors.Is(err, delegate.ErrNoHandler) {
		return err
	}
	if ev.DefaultPrevented() {
		return nil
	}
	return p.followLink(ctx, target)
}

// ClickID clicks the element with the given id.
func (p *Page) ClickID(ctx context.Context, id string) error {
	target := p.doc.GetElementByID(id)
	if target == nil {
		return &dom.TargetNotFoundError{Selector: "#" + id}
	}
	return p.Click(ctx, target)
}

func (p *Page) followLink(ctx context.Context, target *vdom.VNode) error {
	var href string
	p.doc.Read(func(t *dom.Tree) {
		link, err := t.Closest(target, "[href]")
		if err != nil {
			return
		}
		href, _ = vdom.GetAttr(link, "href")
	})
	if href == "" {
		return nil
	}
	return p.nav.Navigate(ctx, href)
}

func (p *Page) handleDismiss(_ context.Context, ev *delegate.Event) error {
	var alert *vdom.VNode
	p.doc.Read(func(t *dom.Tree) {
		alert, _ = t.Closest(ev.Matched, ".alert")
	})
	if alert == nil {
		p.logger.Debug("dismiss marker outside an alert")
		return nil
	}
	p.notifier.DismissNode(alert)
	return nil
}

func (p *Page) handleConfirm(ctx context.Context, ev *delegate.Event) error {
	ev.PreventDefault()

	message, _ := p.doc.Attr(ev.Matched, ConfirmAttr)
	if message == "" {
		message = confirm.DefaultMessage
	}

	var navErr error
	_, err := p.gate.Run(ctx, message, func() {
		// href is read when the action runs, never cached.
		href, ok := p.doc.Attr(ev.Matched, "href")
		if !ok || href == "" {
			return
		}
		navErr = p.nav.Navigate(ctx, href)
	})
	if err != nil {
		return err
	}
	return navErr
}
