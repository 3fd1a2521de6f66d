package dom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/pageglue/pkg/vdom"
)

// Selector is a parsed selector group. Each member is a chain of compound
// selectors joined by the descendant combinator; the last one is matched
// against the element itself.
type Selector struct {
	source string
	chains [][]compound
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	name     string
	value    string
	hasValue bool
}

// ParseSelector parses a selector group such as "#main .inbox, a[data-confirm]".
// The descendant combinator is supported; ">", "+" and "~" are not.
func ParseSelector(s string) (Selector, error) {
	sel := Selector{source: s}
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			return Selector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, s)
		}
		chain := make([]compound, 0, len(fields))
		for _, f := range fields {
			c, err := parseCompound(f)
			if err != nil {
				return Selector{}, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, s, err)
			}
			chain = append(chain, c)
		}
		sel.chains = append(sel.chains, chain)
	}
	return sel, nil
}

// MustParseSelector is like ParseSelector but panics on error.
func MustParseSelector(s string) Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// String returns the selector source.
func (s Selector) String() string {
	return s.source
}

// Match reports whether a detached node matches the group. Chains with a
// descendant part never match here; use Tree.Matches for attached nodes.
func (s Selector) Match(node *vdom.VNode) bool {
	return s.matchWithin(node, nil)
}

// matchWithin matches node given its element ancestors, root first.
func (s Selector) matchWithin(node *vdom.VNode, ancestors []*vdom.VNode) bool {
	if !node.IsElement() {
		return false
	}
	for _, chain := range s.chains {
		if !chain[len(chain)-1].match(node) {
			continue
		}
		// Descendant-only chains can be matched greedily from the nearest
		// ancestor outwards.
		j := len(chain) - 2
		for i := len(ancestors) - 1; i >= 0 && j >= 0; i-- {
			if chain[j].match(ancestors[i]) {
				j--
			}
		}
		if j < 0 {
			return true
		}
	}
	return false
}

func (c compound) match(node *vdom.VNode) bool {
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(c.tag, node.Tag) {
		return false
	}
	if c.id != "" {
		if id, _ := vdom.GetAttr(node, "id"); id != c.id {
			return false
		}
	}
	for _, class := range c.classes {
		if !vdom.HasClass(node, class) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := vdom.GetAttr(node, a.name)
		if !ok || (a.hasValue && v != a.value) {
			return false
		}
	}
	return true
}

func parseCompound(s string) (compound, error) {
	var c compound

	i := 0
	ident := func() string {
		start := i
		for i < len(s) && isIdentByte(s[i]) {
			i++
		}
		return s[start:i]
	}

	if i < len(s) && (s[i] == '*' || isIdentByte(s[i])) {
		if s[i] == '*' {
			c.tag = "*"
			i++
		} else {
			c.tag = strings.ToLower(ident())
		}
	}

	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			if c.id = ident(); c.id == "" {
				return c, fmt.Errorf("empty id at offset %d", i)
			}
		case '.':
			i++
			class := ident()
			if class == "" {
				return c, fmt.Errorf("empty class at offset %d", i)
			}
			c.classes = append(c.classes, class)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute selector")
			}
			a, err := parseAttrMatch(s[i+1 : i+end])
			if err != nil {
				return c, err
			}
			c.attrs = append(c.attrs, a)
			i += end + 1
		case '>', '+', '~':
			return c, fmt.Errorf("combinator %q is not supported", s[i])
		default:
			return c, fmt.Errorf("unexpected %q at offset %d", s[i], i)
		}
	}
	return c, nil
}

func parseAttrMatch(body string) (attrMatch, error) {
	name, value, hasValue := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return attrMatch{}, fmt.Errorf("empty attribute name")
	}
	a := attrMatch{name: strings.ToLower(name), hasValue: hasValue}
	if hasValue {
		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}
		a.value = value
	}
	return a, nil
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
