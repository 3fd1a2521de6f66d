// Package vdom provides the in-memory page tree used by pageglue.
//
// The tree is made of VNode values: elements, text, fragments and raw
// (pre-sanitized) markup. Unlike a diffing virtual DOM, pageglue mutates
// this tree in place: alerts are appended to it and later detached, and
// attributes are read at event time.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("alert", "alert-success"), Role("alert"),
//	    Text("Saved"),
//	    Button(Type("button"), Class("btn-close"), Data("dismiss", "alert")),
//	)
//
// # Node Helpers
//
// GetAttr, SetAttr, HasClass, AddClass and RemoveClass operate on a single
// element. Walk visits a subtree depth-first.
package vdom
