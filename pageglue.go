// Package pageglue provides the public API for wiring alerts, delete
// confirmations and JSON requests into a page.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/pageglue"
//
// Usage:
//
//	doc, _ := pageglue.ParseString(markup)
//	p := pageglue.Wire(doc, pageglue.Options{Prompter: prompter, Navigator: nav})
//	p.Notifier().Notify("Saved", pageglue.WithSeverity(pageglue.Success))
//
//	client, _ := pageglue.NewClient(p.Notifier(), request.WithBaseURL(api))
//	data, err := client.Do(ctx, pageglue.Request{URL: "/items"})
package pageglue

import (
	"io"
	"log/slog"

	"github.com/vango-dev/pageglue/pkg/confirm"
	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/page"
	"github.com/vango-dev/pageglue/pkg/request"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

// =============================================================================
// Documents (re-export from dom and vdom)
// =============================================================================

// Document is a page body guarded for concurrent use.
type Document = dom.Document

// VNode is an element or text node of a page.
type VNode = vdom.VNode

// TargetNotFoundError reports a selector or id that matched nothing.
type TargetNotFoundError = dom.TargetNotFoundError

// NewDocument creates a Document around body.
func NewDocument(body *VNode) *Document { return dom.New(body) }

// Parse reads an HTML page into a Document.
func Parse(r io.Reader) (*Document, error) { return dom.Parse(r) }

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*Document, error) { return dom.ParseString(s) }

// =============================================================================
// Alerts (re-export from notify)
// =============================================================================

type (
	Notifier     = notify.Notifier
	Alert        = notify.Alert
	Severity     = notify.Severity
	NotifyOption = notify.Option
	NotifyConfig = notify.Config
)

const (
	Success   = notify.SeveritySuccess
	Danger    = notify.SeverityDanger
	Warning   = notify.SeverityWarning
	Info      = notify.SeverityInfo
	Primary   = notify.SeverityPrimary
	Secondary = notify.SeveritySecondary
	Light     = notify.SeverityLight
	Dark      = notify.SeverityDark
)

var (
	WithSeverity  = notify.WithSeverity
	WithContainer = notify.WithContainer
	WithTimeout   = notify.WithTimeout
	WithMarkup    = notify.WithMarkup
)

// =============================================================================
// Confirmation and page wiring (re-export from confirm and page)
// =============================================================================

type (
	Prompter     = confirm.Prompter
	PrompterFunc = confirm.PrompterFunc
	Page         = page.Page
	Navigator    = page.Navigator
	Location     = page.Location
)

// DefaultConfirmMessage is asked when a confirm marker carries no text.
const DefaultConfirmMessage = confirm.DefaultMessage

// Options configures Wire.
type Options struct {
	// Notify configures the page notifier.
	Notify NotifyConfig

	// Prompter answers confirmations. Nil declines every prompt.
	Prompter Prompter

	// Navigator follows links. Nil records them in a fresh Location.
	Navigator Navigator

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Wire builds a notifier and a confirmation gate for doc and returns the
// page with its delegated handlers installed.
func Wire(doc *Document, opts Options) *Page {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prompter := opts.Prompter
	if prompter == nil {
		prompter = confirm.Always(false)
	}
	nav := opts.Navigator
	if nav == nil {
		nav = &page.Location{}
	}

	ncfg := opts.Notify
	if ncfg.Logger == nil {
		ncfg.Logger = logger
	}
	n := notify.New(doc, ncfg)
	gate := confirm.NewGate(prompter, confirm.WithLogger(logger))

	p := page.New(n, gate, nav, page.WithLogger(logger))
	p.Ready()
	return p
}

// =============================================================================
// Requests (re-export from request)
// =============================================================================

type (
	Client        = request.Client
	Request       = request.Request
	NetworkError  = request.NetworkError
	ServerError   = request.ServerError
	DecodeError   = request.DecodeError
	RequestOption = request.Option
)

var (
	ErrNetwork = request.ErrNetwork
	ErrServer  = request.ErrServer
	ErrDecode  = request.ErrDecode
)

// NewClient creates a request client that reports failures to n.
func NewClient(n *Notifier, opts ...RequestOption) (*Client, error) {
	return request.New(append([]RequestOption{request.WithNotifier(n)}, opts...)...)
}
