// Package delegate dispatches page events to handlers by marker attribute.
//
// Handlers are registered once per page for an attribute such as
// data-confirm, not per element, so elements added to the document after
// registration are covered as well. An event walks from its target up to
// the body and the nearest marked element wins.
package delegate

import (
	"context"
	"errors"
	"sync"

	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

// ErrNoHandler is returned by Dispatch when no element on the event path
// carries a registered marker.
var ErrNoHandler = errors.New("delegate: no handler")

// Marker selects elements by attribute. An empty Value matches any
// element carrying Attr.
type Marker struct {
	Attr  string
	Value string
}

func (m Marker) match(node *vdom.VNode) bool {
	v, ok := vdom.GetAttr(node, m.Attr)
	if !ok {
		return false
	}
	return m.Value == "" || v == m.Value
}

// Event is a page event travelling from Target towards the body.
type Event struct {
	Type   string
	Target *vdom.VNode

	// Matched is the element whose marker selected the handler.
	Matched *vdom.VNode

	// Marker is the marker that matched.
	Marker Marker

	defaultPrevented bool
}

// PreventDefault suppresses the element's default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Handler handles a delegated event.
type Handler func(ctx context.Context, ev *Event) error

type entry struct {
	eventType string
	marker    Marker
	handler   Handler
}

// Registry holds delegated handlers in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Handle registers h for events of eventType on elements matching m.
func (r *Registry) Handle(eventType string, m Marker, h Handler) {
	r.mu.Lock()
	r.entries = append(r.entries, entry{eventType: eventType, marker: m, handler: h})
	r.mu.Unlock()
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Dispatch finds the nearest element on ev's path carrying a marker
// registered for ev.Type and runs its handler. When one element carries
// several markers the first registered wins.
//
// The document is only locked while the path is resolved, so handlers may
// update it.
func (r *Registry) Dispatch(ctx context.Context, doc *dom.Document, ev *Event) error {
	r.mu.RLock()
	entries := make([]entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.eventType == ev.Type {
			entries = append(entries, e)
		}
	}
	r.mu.RUnlock()

	var (
		found   *entry
		matched *vdom.VNode
		err     error
	)
	doc.Read(func(t *dom.Tree) {
		chain, ok := t.Ancestors(ev.Target)
		if !ok {
			err = dom.ErrNotAttached
			return
		}
		path := append([]*vdom.VNode{ev.Target}, chain...)
		for _, node := range path {
			for i := range entries {
				if entries[i].marker.match(node) {
					found, matched = &entries[i], node
					return
				}
			}
		}
	})
	if err != nil {
		return err
	}
	if found == nil {
		return ErrNoHandler
	}

	ev.Matched = matched
	ev.Marker = found.marker
	return found.handler(ctx, ev)
}
