package dom

import (
	"errors"
	"testing"

	"github.com/vango-dev/pageglue/pkg/vdom"
)

func TestSelectorMatch(t *testing.T) {
	link := vdom.A(vdom.ID("del-1"), vdom.Class("btn", "btn-danger"), vdom.Data("confirm", "Delete?"), vdom.Href("/items/1/delete"))

	tests := []struct {
		selector string
		want     bool
	}{
		{"a", true},
		{"A", true},
		{"*", true},
		{"div", false},
		{"#del-1", true},
		{"#del-2", false},
		{".btn", true},
		{".btn.btn-danger", true},
		{".btn.btn-primary", false},
		{"[data-confirm]", true},
		{"[data-missing]", false},
		{`[data-confirm="Delete?"]`, true},
		{"[data-confirm='Delete?']", true},
		{"[data-confirm=Nope]", false},
		{"a.btn[href]#del-1", true},
		{"div, a", true},
		{"div, span", false},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sel, err := ParseSelector(tt.selector)
			if err != nil {
				t.Fatalf("ParseSelector(%q): %v", tt.selector, err)
			}
			if got := sel.Match(link); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectorDoesNotMatchText(t *testing.T) {
	if MustParseSelector("*").Match(vdom.Text("x")) {
		t.Error("text nodes never match")
	}
}

func TestParseSelectorErrors(t *testing.T) {
	for _, s := range []string{"", "#", ".", "a > b", "a>b", "a + b", "a ~ b", "[unterminated", "[]", "a,", "a$"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseSelector(s)
			if !errors.Is(err, ErrInvalidSelector) {
				t.Errorf("ParseSelector(%q) error = %v, want ErrInvalidSelector", s, err)
			}
		})
	}
}

func TestMustParseSelectorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseSelector("a > b")
}

func TestDescendantSelector(t *testing.T) {
	item := vdom.Li(vdom.Class("item"), "x")
	other := vdom.Li(vdom.Class("item"), "y")
	inbox := vdom.Div(vdom.Class("inbox"), vdom.Ul(item))
	doc := New(vdom.Body(
		vdom.Main(vdom.ID("main"), inbox),
		vdom.Div(vdom.Class("inbox"), vdom.Ul(other)),
	))

	tests := []struct {
		selector string
		want     []*vdom.VNode
	}{
		{"#main .inbox", []*vdom.VNode{inbox}},
		{"#main .item", []*vdom.VNode{item}},
		{"body  .inbox  li", []*vdom.VNode{item, other}},
		{".inbox .item", []*vdom.VNode{item, other}},
		{"#main .item, .nope", []*vdom.VNode{item}},
		{"#other .item", nil},
		{".item .inbox", nil},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := doc.QuerySelectorAll(tt.selector)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("matched %d nodes, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("match %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	doc.Read(func(tr *Tree) {
		sel := MustParseSelector("#main li")
		if !tr.Matches(item, sel) || tr.Matches(other, sel) {
			t.Error("Matches should honour ancestors")
		}
		if sel.Match(item) {
			t.Error("detached Match cannot satisfy a descendant part")
		}
		got, err := tr.Closest(item, "#main .inbox")
		if err != nil || got != inbox {
			t.Errorf("Closest = %v, %v", got, err)
		}
	})
}
