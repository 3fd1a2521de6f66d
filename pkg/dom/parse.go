package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/pageglue/pkg/vdom"
)

// Parse builds a Document from an HTML page. Only the body is kept;
// comments and whitespace-only text between elements are dropped.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	body := findBody(root)
	if body == nil {
		// html.Parse always synthesizes a body; guard anyway.
		return New(nil), nil
	}
	return New(convert(body, false)), nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// convert maps an html node to a VNode. Text inside script and style
// elements is kept raw so rendering does not escape it.
func convert(n *html.Node, rawText bool) *vdom.VNode {
	switch n.Type {
	case html.TextNode:
		if rawText {
			return vdom.Raw(n.Data)
		}
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return vdom.Text(n.Data)
	case html.ElementNode:
		node := &vdom.VNode{
			Kind:     vdom.KindElement,
			Tag:      n.Data,
			Props:    make(vdom.Props, len(n.Attr)),
			Children: make([]*vdom.VNode, 0),
		}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			node.Props[key] = a.Val
		}
		raw := n.DataAtom == atom.Script || n.DataAtom == atom.Style
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c, raw); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		return node
	default:
		return nil
	}
}
