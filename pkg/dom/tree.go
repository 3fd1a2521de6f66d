package dom

import (
	"strconv"
	"strings"

	"github.com/vango-dev/pageglue/pkg/vdom"
)

// Tree is the unlocked view of a Document, valid only inside Read or Update.
type Tree struct {
	body *vdom.VNode
}

// Body returns the root <body> element.
func (t *Tree) Body() *vdom.VNode {
	return t.body
}

// GetElementByID returns the first element whose id attribute equals id.
func (t *Tree) GetElementByID(id string) *vdom.VNode {
	var found *vdom.VNode
	vdom.Walk(t.body, func(n *vdom.VNode) bool {
		if found != nil {
			return false
		}
		if v, ok := vdom.GetAttr(n, "id"); ok && v == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// QuerySelector returns the first element matching selector in document
// order. It returns a *TargetNotFoundError when nothing matches.
func (t *Tree) QuerySelector(selector string) (*vdom.VNode, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	if n := t.First(sel); n != nil {
		return n, nil
	}
	return nil, &TargetNotFoundError{Selector: selector}
}

// QuerySelectorAll returns every element matching selector in document order.
func (t *Tree) QuerySelectorAll(selector string) ([]*vdom.VNode, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return t.All(sel), nil
}

// First returns the first element matching a parsed selector, or nil.
func (t *Tree) First(sel Selector) *vdom.VNode {
	var found *vdom.VNode
	t.walkMatches(sel, func(n *vdom.VNode) bool {
		found = n
		return false
	})
	return found
}

// All returns every element matching a parsed selector.
func (t *Tree) All(sel Selector) []*vdom.VNode {
	var out []*vdom.VNode
	t.walkMatches(sel, func(n *vdom.VNode) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Matches reports whether an attached node matches sel, taking its
// ancestors into account.
func (t *Tree) Matches(node *vdom.VNode, sel Selector) bool {
	chain, ok := t.Ancestors(node)
	if !ok {
		return false
	}
	return sel.matchWithin(node, rootFirst(chain))
}

// walkMatches visits matching elements in document order until visit
// returns false.
func (t *Tree) walkMatches(sel Selector, visit func(*vdom.VNode) bool) {
	var stack []*vdom.VNode
	var walk func(n *vdom.VNode) bool
	walk = func(n *vdom.VNode) bool {
		if n == nil {
			return true
		}
		if sel.matchWithin(n, stack) && !visit(n) {
			return false
		}
		if n.IsElement() {
			stack = append(stack, n)
			defer func() { stack = stack[:len(stack)-1] }()
		}
		for _, c := range n.Children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(t.body)
}

// rootFirst reverses a nearest-first ancestor chain, dropping fragments.
func rootFirst(chain []*vdom.VNode) []*vdom.VNode {
	out := make([]*vdom.VNode, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].IsElement() {
			out = append(out, chain[i])
		}
	}
	return out
}

// Ancestors returns the chain from node's parent up to the body.
// ok is false when node is not attached to the tree.
func (t *Tree) Ancestors(node *vdom.VNode) (chain []*vdom.VNode, ok bool) {
	if node == nil {
		return nil, false
	}
	if node == t.body {
		return nil, true
	}
	path := pathTo(t.body, node)
	if path == nil {
		return nil, false
	}
	// path runs body..parent; reverse it so the nearest ancestor comes first.
	for i := len(path) - 1; i >= 0; i-- {
		chain = append(chain, path[i])
	}
	return chain, true
}

// Parent returns node's parent, or nil for the body and detached nodes.
func (t *Tree) Parent(node *vdom.VNode) *vdom.VNode {
	chain, _ := t.Ancestors(node)
	if len(chain) == 0 {
		return nil
	}
	return chain[0]
}

// Contains reports whether node is attached to the tree.
func (t *Tree) Contains(node *vdom.VNode) bool {
	_, ok := t.Ancestors(node)
	return ok
}

// Closest returns node itself or its nearest ancestor matching selector.
func (t *Tree) Closest(node *vdom.VNode, selector string) (*vdom.VNode, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	chain, ok := t.Ancestors(node)
	if !ok {
		if sel.Match(node) {
			return node, nil
		}
		return nil, &TargetNotFoundError{Selector: selector}
	}
	up := rootFirst(chain)
	if sel.matchWithin(node, up) {
		return node, nil
	}
	for k := len(up) - 1; k >= 0; k-- {
		if sel.matchWithin(up[k], up[:k]) {
			return up[k], nil
		}
	}
	return nil, &TargetNotFoundError{Selector: selector}
}

// AppendChild appends child to parent. parent must be an attached element.
func (t *Tree) AppendChild(parent, child *vdom.VNode) error {
	if !parent.IsElement() {
		return ErrNotElement
	}
	if !t.Contains(parent) {
		return ErrNotAttached
	}
	if child == nil {
		return nil
	}
	parent.Children = append(parent.Children, child)
	return nil
}

// ReplaceChildren swaps parent's children for children. Nodes outside
// parent are left alone.
func (t *Tree) ReplaceChildren(parent *vdom.VNode, children ...*vdom.VNode) error {
	if !parent.IsElement() {
		return ErrNotElement
	}
	if !t.Contains(parent) {
		return ErrNotAttached
	}
	kids := make([]*vdom.VNode, 0, len(children))
	for _, c := range children {
		if c != nil {
			kids = append(kids, c)
		}
	}
	parent.Children = kids
	return nil
}

// Remove detaches node from its parent. Removing a detached node returns
// ErrNotAttached; the body cannot be removed.
func (t *Tree) Remove(node *vdom.VNode) error {
	parent := t.Parent(node)
	if parent == nil {
		return ErrNotAttached
	}
	kept := parent.Children[:0]
	for _, c := range parent.Children {
		if c != node {
			kept = append(kept, c)
		}
	}
	// Clear the tail so the detached node is not retained by the backing array.
	for i := len(kept); i < len(parent.Children); i++ {
		parent.Children[i] = nil
	}
	parent.Children = kept
	return nil
}

// pathTo returns the nodes from root down to target's parent, or nil when
// target is not below root.
func pathTo(root, target *vdom.VNode) []*vdom.VNode {
	for _, child := range root.Children {
		if child == target {
			return []*vdom.VNode{root}
		}
		if p := pathTo(child, target); p != nil {
			return append([]*vdom.VNode{root}, p...)
		}
	}
	return nil
}

// ElementAt resolves a path of element-child indexes starting at the body.
// Text and raw children are not counted and fragments are flattened, which
// matches Element.children in a browser. An empty path is the body.
func (t *Tree) ElementAt(path []int) (*vdom.VNode, error) {
	node := t.body
	for depth, idx := range path {
		kids := elementChildren(node, nil)
		if idx < 0 || idx >= len(kids) {
			return nil, &TargetNotFoundError{Selector: formatPath(path[:depth+1])}
		}
		node = kids[idx]
	}
	return node, nil
}

func elementChildren(node *vdom.VNode, out []*vdom.VNode) []*vdom.VNode {
	for _, c := range node.Children {
		switch {
		case c == nil:
		case c.Kind == vdom.KindFragment:
			out = elementChildren(c, out)
		case c.IsElement():
			out = append(out, c)
		}
	}
	return out
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return "path:" + strings.Join(parts, "/")
}
