package vdom

import (
	"fmt"
	"strings"
)

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0),
	}

	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

// GetAttr returns the string form of an attribute and whether it is present.
// Boolean true renders as the empty string, matching HTML boolean attributes.
func GetAttr(v *VNode, key string) (string, bool) {
	if !v.IsElement() {
		return "", false
	}
	val, ok := v.Props[key]
	if !ok || val == nil {
		return "", false
	}
	switch t := val.(type) {
	case string:
		return t, true
	case bool:
		if !t {
			return "", false
		}
		return "", true
	default:
		return fmt.Sprint(t), true
	}
}

// HasAttr reports whether the attribute is present.
func HasAttr(v *VNode, key string) bool {
	_, ok := GetAttr(v, key)
	return ok
}

// SetAttr sets an attribute on an element. It is a no-op for non-elements.
func SetAttr(v *VNode, key string, value any) {
	if !v.IsElement() {
		return
	}
	if v.Props == nil {
		v.Props = make(Props)
	}
	v.Props[key] = value
}

// RemoveAttr deletes an attribute.
func RemoveAttr(v *VNode, key string) {
	if !v.IsElement() {
		return
	}
	delete(v.Props, key)
}

// Classes returns the element's class list.
func Classes(v *VNode) []string {
	s, _ := GetAttr(v, "class")
	return strings.Fields(s)
}

// HasClass reports whether the element carries the class.
func HasClass(v *VNode, class string) bool {
	for _, c := range Classes(v) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a class unless it is already present.
func AddClass(v *VNode, class string) {
	if !v.IsElement() || HasClass(v, class) {
		return
	}
	SetAttr(v, "class", strings.Join(append(Classes(v), class), " "))
}

// RemoveClass removes every occurrence of class.
func RemoveClass(v *VNode, class string) {
	if !v.IsElement() {
		return
	}
	classes := Classes(v)
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	SetAttr(v, "class", strings.Join(kept, " "))
}

// Walk visits v and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(v *VNode, fn func(node *VNode) bool) {
	if v == nil {
		return
	}
	if !fn(v) {
		return
	}
	for _, child := range v.Children {
		Walk(child, fn)
	}
}

// TextContent concatenates all descendant text and raw nodes.
func TextContent(v *VNode) string {
	var b strings.Builder
	Walk(v, func(n *VNode) bool {
		if n.Kind == KindText || n.Kind == KindRaw {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}
