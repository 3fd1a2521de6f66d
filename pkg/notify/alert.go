package notify

import (
	"sync"

	"github.com/vango-dev/pageglue/pkg/clock"
	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

// Alert is the handle returned by Notify.
type Alert struct {
	Severity Severity
	Message  string

	n    *Notifier
	node *vdom.VNode
	seq  uint64

	mu    sync.Mutex
	timer clock.Timer

	done     chan struct{}
	doneOnce sync.Once
}

// Node returns the alert element.
func (a *Alert) Node() *vdom.VNode {
	return a.node
}

// Dismiss starts the dismiss sequence. Calling it more than once is a no-op.
func (a *Alert) Dismiss() {
	a.n.dismiss(a.node, "api")
}

// Done is closed once the alert has been detached from the document.
func (a *Alert) Done() <-chan struct{} {
	return a.done
}

// Visible reports whether the alert is attached and not fading out.
func (a *Alert) Visible() bool {
	visible := false
	a.n.doc.Read(func(t *dom.Tree) {
		visible = t.Contains(a.node) && vdom.HasClass(a.node, visibleClass)
	})
	return visible
}

// Attached reports whether the alert element is still in the document.
func (a *Alert) Attached() bool {
	return a.n.doc.Contains(a.node)
}

func (a *Alert) stopTimer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
}

func (a *Alert) markDone() {
	a.doneOnce.Do(func() { close(a.done) })
}
