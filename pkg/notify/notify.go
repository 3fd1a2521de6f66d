package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/pageglue/pkg/clock"
	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/middleware"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

const (
	// DefaultTimeout is how long an alert stays before auto-dismissal.
	DefaultTimeout = 5 * time.Second

	// FadeDuration is the grace period between hiding an alert and
	// detaching it, leaving room for the CSS fade transition.
	FadeDuration = 150 * time.Millisecond

	// HolderID is the id of the page-level alert holder.
	HolderID = "alert-container"

	// DismissAttr marks the close button inside an alert.
	DismissAttr = "data-dismiss"

	// DismissValue is the DismissAttr value that targets alerts.
	DismissValue = "alert"

	// visibleClass toggles the visible state of an alert.
	visibleClass = "show"
)

var (
	// ErrUnknownSeverity is returned for severities outside the supported set.
	ErrUnknownSeverity = errors.New("notify: unknown severity")

	// ErrNegativeTimeout is returned when a negative timeout is requested.
	ErrNegativeTimeout = errors.New("notify: negative timeout")
)

// Config configures a Notifier.
type Config struct {
	// Timeout is the default auto-dismiss delay. Zero means DefaultTimeout;
	// a negative value disables auto-dismiss by default.
	Timeout time.Duration

	// Fade is the delay between hiding and detaching. Zero means FadeDuration.
	Fade time.Duration

	// HolderID overrides the id of the page-level holder.
	HolderID string

	// Clock schedules dismissal timers. Defaults to the system clock.
	Clock clock.Clock

	// Logger receives debug logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *middleware.Metrics
}

// Notifier shows alerts in a Document.
type Notifier struct {
	doc *dom.Document
	cfg Config

	mu         sync.Mutex
	holder     *vdom.VNode
	alerts     map[*vdom.VNode]*Alert
	dismissing map[*vdom.VNode]bool
	seq        uint64
}

// New creates a Notifier that writes into doc.
func New(doc *dom.Document, cfg Config) *Notifier {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	} else if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if cfg.Fade <= 0 {
		cfg.Fade = FadeDuration
	}
	if cfg.HolderID == "" {
		cfg.HolderID = HolderID
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Logger = cfg.Logger.With("component", "notify")

	return &Notifier{
		doc:        doc,
		cfg:        cfg,
		alerts:     make(map[*vdom.VNode]*Alert),
		dismissing: make(map[*vdom.VNode]bool),
	}
}

// Document returns the document the Notifier writes into.
func (n *Notifier) Document() *dom.Document {
	return n.doc
}

// Option configures a single Notify call.
type Option func(*options)

type options struct {
	severity  Severity
	container string
	timeout   time.Duration
	markup    bool
}

// WithSeverity sets the alert severity. The default is success.
func WithSeverity(s Severity) Option {
	return func(o *options) { o.severity = s }
}

// WithContainer appends the alert into the first element matching selector
// instead of the page-level holder. Selectors may combine tag, id, class and
// attribute parts with the descendant combinator ("#main .inbox"); the
// ">", "+" and "~" combinators fail with dom.ErrInvalidSelector.
func WithContainer(selector string) Option {
	return func(o *options) { o.container = selector }
}

// WithTimeout sets the auto-dismiss delay. Zero keeps the alert until the
// user closes it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMarkup inserts the message as pre-sanitized HTML instead of text.
// Only use it for markup the server produced itself.
func WithMarkup() Option {
	return func(o *options) { o.markup = true }
}

// Notify creates an alert and appends it to its container. Unless the
// effective timeout is zero, the alert is dismissed after the timeout.
func (n *Notifier) Notify(message string, opts ...Option) (*Alert, error) {
	o := options{severity: SeveritySuccess, timeout: n.cfg.Timeout}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.severity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeverity, o.severity)
	}
	if o.timeout < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeTimeout, o.timeout)
	}

	node := buildAlert(message, o)
	alert := &Alert{
		n:        n,
		node:     node,
		Severity: o.severity,
		Message:  message,
		done:     make(chan struct{}),
	}

	n.mu.Lock()
	n.seq++
	alert.seq = n.seq
	n.alerts[node] = alert
	n.mu.Unlock()

	err := n.doc.Update(func(t *dom.Tree) error {
		parent, err := n.resolveContainer(t, o.container)
		if err != nil {
			return err
		}
		return t.AppendChild(parent, node)
	})
	if err != nil {
		n.forget(node)
		return nil, err
	}

	n.cfg.Metrics.RecordNotification(string(o.severity))
	n.cfg.Logger.Debug("alert shown",
		"severity", o.severity,
		"container", containerName(o.container),
		"timeout", o.timeout,
	)

	if o.timeout > 0 {
		alert.mu.Lock()
		alert.timer = n.cfg.Clock.AfterFunc(o.timeout, func() {
			n.dismiss(node, "timeout")
		})
		alert.mu.Unlock()
	}
	return alert, nil
}

// Success shows a success alert with default options.
func (n *Notifier) Success(message string) (*Alert, error) {
	return n.Notify(message, WithSeverity(SeveritySuccess))
}

// Danger shows a danger alert with default options.
func (n *Notifier) Danger(message string) (*Alert, error) {
	return n.Notify(message, WithSeverity(SeverityDanger))
}

// Warning shows a warning alert with default options.
func (n *Notifier) Warning(message string) (*Alert, error) {
	return n.Notify(message, WithSeverity(SeverityWarning))
}

// Info shows an info alert with default options.
func (n *Notifier) Info(message string) (*Alert, error) {
	return n.Notify(message, WithSeverity(SeverityInfo))
}

// Holder returns the page-level holder, creating it on first use.
func (n *Notifier) Holder() (*vdom.VNode, error) {
	var holder *vdom.VNode
	err := n.doc.Update(func(t *dom.Tree) error {
		var err error
		holder, err = n.holderIn(t)
		return err
	})
	return holder, err
}

// holderIn is the single place the holder is created. It reuses a holder
// already present in the document, including one rendered by the server.
// Called with the document locked.
func (n *Notifier) holderIn(t *dom.Tree) (*vdom.VNode, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.holder != nil && t.Contains(n.holder) {
		return n.holder, nil
	}
	if existing := t.GetElementByID(n.cfg.HolderID); existing != nil {
		n.holder = existing
		return existing, nil
	}

	holder := vdom.Div(
		vdom.ID(n.cfg.HolderID),
		vdom.Class("position-fixed", "top-0", "end-0", "p-3"),
		vdom.StyleAttr("z-index: 1050"),
		vdom.AriaLive("polite"),
	)
	if err := t.AppendChild(t.Body(), holder); err != nil {
		return nil, err
	}
	n.holder = holder
	return holder, nil
}

func (n *Notifier) resolveContainer(t *dom.Tree, selector string) (*vdom.VNode, error) {
	if selector == "" {
		return n.holderIn(t)
	}
	return t.QuerySelector(selector)
}

// Active returns the alerts created by this Notifier that are not yet
// detached, oldest first.
func (n *Notifier) Active() []*Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*Alert, 0, len(n.alerts))
	for _, a := range n.alerts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// DismissNode starts the dismiss sequence for an alert element, whether
// this Notifier created it or it came from server-rendered markup.
// It reports false if the element is already being dismissed or is not
// attached.
func (n *Notifier) DismissNode(node *vdom.VNode) bool {
	return n.dismiss(node, "click")
}

// dismiss hides the alert at once and detaches it after the fade delay.
func (n *Notifier) dismiss(node *vdom.VNode, reason string) bool {
	n.mu.Lock()
	if n.dismissing[node] {
		n.mu.Unlock()
		return false
	}
	n.dismissing[node] = true
	alert := n.alerts[node]
	n.mu.Unlock()

	if alert != nil {
		alert.stopTimer()
	}

	err := n.doc.Update(func(t *dom.Tree) error {
		if !t.Contains(node) {
			return dom.ErrNotAttached
		}
		vdom.RemoveClass(node, visibleClass)
		return nil
	})
	if err != nil {
		n.forget(node)
		if alert != nil {
			alert.markDone()
		}
		return false
	}

	n.cfg.Clock.AfterFunc(n.cfg.Fade, func() {
		err := n.doc.Update(func(t *dom.Tree) error { return t.Remove(node) })
		if err != nil && !errors.Is(err, dom.ErrNotAttached) {
			n.cfg.Logger.Warn("alert detach failed", "error", err)
		}
		n.forget(node)
		n.cfg.Metrics.RecordDismissal(reason)
		n.cfg.Logger.Debug("alert dismissed", "reason", reason)
		if alert != nil {
			alert.markDone()
		}
	})
	return true
}

func (n *Notifier) forget(node *vdom.VNode) {
	n.mu.Lock()
	delete(n.alerts, node)
	delete(n.dismissing, node)
	n.mu.Unlock()
}

func buildAlert(message string, o options) *vdom.VNode {
	content := vdom.Text(message)
	if o.markup {
		// Raw markup stays inside its own element so element paths into
		// the alert are the same on both sides of the wire.
		content = vdom.Span(vdom.Raw(message))
	}
	return vdom.Div(
		vdom.Class("alert", o.severity.Class(), "alert-dismissible", "fade", visibleClass),
		vdom.Role("alert"),
		content,
		vdom.Button(
			vdom.Type("button"),
			vdom.Class("btn-close"),
			vdom.Data("dismiss", DismissValue),
			vdom.AriaLabel("Close"),
		),
	)
}

func containerName(selector string) string {
	if selector == "" {
		return "page"
	}
	return selector
}
