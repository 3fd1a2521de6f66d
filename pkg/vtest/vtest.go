package vtest

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/pageglue/pkg/clock"
	"github.com/vango-dev/pageglue/pkg/confirm"
	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/page"
	"github.com/vango-dev/pageglue/pkg/render"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

// Harness is a ready page with test doubles for time, prompts and
// navigation.
type Harness struct {
	Clock    *clock.Manual
	Doc      *dom.Document
	Notifier *notify.Notifier
	Page     *page.Page
	Location *page.Location
	Prompter *Prompter
}

// Option configures NewPage.
type Option func(*options)

type options struct {
	accept bool
	notify notify.Config
}

// WithAnswer sets the default confirmation answer. The default is to
// decline.
func WithAnswer(accept bool) Option {
	return func(o *options) { o.accept = accept }
}

// WithNotifyConfig sets the notifier configuration. Its Clock is always
// replaced by the harness clock.
func WithNotifyConfig(cfg notify.Config) Option {
	return func(o *options) { o.notify = cfg }
}

// NewPage wires body into a ready page.
func NewPage(body *vdom.VNode, opts ...Option) *Harness {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	h := &Harness{
		Clock:    clock.NewManual(time.Unix(0, 0)),
		Doc:      dom.New(body),
		Location: &page.Location{},
		Prompter: NewPrompter(o.accept),
	}
	cfg := o.notify
	cfg.Clock = h.Clock
	h.Notifier = notify.New(h.Doc, cfg)
	h.Page = page.New(h.Notifier, confirm.NewGate(h.Prompter), h.Location)
	h.Page.Ready()
	return h
}

// Click clicks the element with the given id and fails the test on error.
func (h *Harness) Click(t testing.TB, id string) {
	t.Helper()
	if err := h.Page.ClickID(context.Background(), id); err != nil {
		t.Fatalf("click #%s: %v", id, err)
	}
}

// Advance moves the harness clock forward, firing due alert timers.
func (h *Harness) Advance(d time.Duration) {
	h.Clock.Advance(d)
}

// HTML renders the body and fails the test on error.
func (h *Harness) HTML(t testing.TB) string {
	t.Helper()
	html, err := h.Doc.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return html
}

// ExpectNavigated asserts the navigation history, oldest first.
func (h *Harness) ExpectNavigated(t testing.TB, hrefs ...string) {
	t.Helper()
	got := h.Location.History()
	if len(got) == 0 && len(hrefs) == 0 {
		return
	}
	if !slices.Equal(got, hrefs) {
		t.Errorf("navigated to %v, want %v", got, hrefs)
	}
}

// ExpectAsked asserts the confirmation messages prompted so far.
func (h *Harness) ExpectAsked(t testing.TB, messages ...string) {
	t.Helper()
	got := h.Prompter.Asked()
	if len(got) == 0 && len(messages) == 0 {
		return
	}
	if !slices.Equal(got, messages) {
		t.Errorf("asked %q, want %q", got, messages)
	}
}

// RenderToString renders a VNode and returns the HTML string, or "" on
// error.
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that the rendered document contains expected.
func ExpectContains(t testing.TB, doc *dom.Document, expected string) {
	t.Helper()
	html, _ := doc.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected document to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered document does not contain
// unexpected.
func ExpectNotContains(t testing.TB, doc *dom.Document, unexpected string) {
	t.Helper()
	html, _ := doc.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected document to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that selector matches exactly count elements.
func ExpectElement(t testing.TB, doc *dom.Document, selector string, count int) {
	t.Helper()
	nodes, err := doc.QuerySelectorAll(selector)
	if err != nil {
		t.Fatalf("selector %q: %v", selector, err)
	}
	if len(nodes) != count {
		html, _ := doc.HTML()
		t.Errorf("%q matched %d elements, want %d, document:\n%s", selector, len(nodes), count, truncate(html, 500))
	}
}

// ExpectAttribute asserts that node renders with attr set to value.
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	got, ok := vdom.GetAttr(node, attr)
	if !ok || got != value {
		t.Errorf("attribute %s = %q (present %v), want %q in:\n%s", attr, got, ok, value, truncate(RenderToString(node), 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
