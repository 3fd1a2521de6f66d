package dom

import (
	"bytes"
	"io"
	"sync"

	"github.com/vango-dev/pageglue/pkg/render"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

// Document is a mutable page tree shared between goroutines.
type Document struct {
	mu   sync.Mutex
	tree Tree

	renderer *render.Renderer

	obsMu     sync.Mutex
	observers map[int]func()
	nextObs   int
}

// New creates a Document. A nil body or a non-body root is wrapped in a
// fresh <body> element.
func New(body *vdom.VNode) *Document {
	if body == nil || body.Tag != "body" {
		body = vdom.Body(body)
	}
	return &Document{
		tree:      Tree{body: body},
		renderer:  render.NewRenderer(render.RendererConfig{}),
		observers: make(map[int]func()),
	}
}

// Read runs fn with the document locked. fn must not mutate the tree.
func (d *Document) Read(fn func(t *Tree)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.tree)
}

// Update runs fn with the document locked and, if fn succeeds, notifies
// observers after the lock is released.
func (d *Document) Update(fn func(t *Tree) error) error {
	d.mu.Lock()
	err := fn(&d.tree)
	d.mu.Unlock()

	if err != nil {
		return err
	}
	d.notify()
	return nil
}

// Subscribe registers fn to run after every successful Update.
// The returned function removes the subscription.
func (d *Document) Subscribe(fn func()) (unsubscribe func()) {
	d.obsMu.Lock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	d.obsMu.Unlock()

	return func() {
		d.obsMu.Lock()
		delete(d.observers, id)
		d.obsMu.Unlock()
	}
}

func (d *Document) notify() {
	d.obsMu.Lock()
	fns := make([]func(), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.obsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// GetElementByID is the locked form of Tree.GetElementByID.
func (d *Document) GetElementByID(id string) (n *vdom.VNode) {
	d.Read(func(t *Tree) { n = t.GetElementByID(id) })
	return n
}

// QuerySelector is the locked form of Tree.QuerySelector.
func (d *Document) QuerySelector(selector string) (n *vdom.VNode, err error) {
	d.Read(func(t *Tree) { n, err = t.QuerySelector(selector) })
	return n, err
}

// QuerySelectorAll is the locked form of Tree.QuerySelectorAll.
func (d *Document) QuerySelectorAll(selector string) (ns []*vdom.VNode, err error) {
	d.Read(func(t *Tree) { ns, err = t.QuerySelectorAll(selector) })
	return ns, err
}

// Contains is the locked form of Tree.Contains.
func (d *Document) Contains(node *vdom.VNode) (ok bool) {
	d.Read(func(t *Tree) { ok = t.Contains(node) })
	return ok
}

// Attr reads an attribute of node under the document lock.
func (d *Document) Attr(node *vdom.VNode, key string) (v string, ok bool) {
	d.Read(func(*Tree) { v, ok = vdom.GetAttr(node, key) })
	return v, ok
}

// Render writes the body markup to w.
func (d *Document) Render(w io.Writer) error {
	var err error
	d.Read(func(t *Tree) { err = d.renderer.RenderToWriter(w, t.body) })
	return err
}

// RenderPage writes a complete HTML page around the body.
func (d *Document) RenderPage(w io.Writer, page render.PageData) error {
	var err error
	d.Read(func(t *Tree) {
		page.Body = t.body
		err = d.renderer.RenderPage(w, page)
	})
	return err
}

// HTML returns the body markup.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ElementAt is the locked form of Tree.ElementAt.
func (d *Document) ElementAt(path []int) (n *vdom.VNode, err error) {
	d.Read(func(t *Tree) { n, err = t.ElementAt(path) })
	return n, err
}
