package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindRaw, "Raw"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCreateElement(t *testing.T) {
	node := Div(
		ID("main"),
		Class("card", "shadow"),
		nil,
		[]Attr{Data("confirm", "sure?"), Href("/x")},
		"hello",
		Span(Text("child")),
		[]*VNode{P(), nil},
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("unexpected node %+v", node)
	}
	if node.Props["id"] != "main" {
		t.Errorf("id = %v", node.Props["id"])
	}
	if node.Props["class"] != "card shadow" {
		t.Errorf("class = %v", node.Props["class"])
	}
	if node.Props["data-confirm"] != "sure?" {
		t.Errorf("data-confirm = %v", node.Props["data-confirm"])
	}
	if node.Props["href"] != "/x" {
		t.Errorf("href = %v", node.Props["href"])
	}
	if len(node.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(node.Children))
	}
	if node.Children[0].Kind != KindText || node.Children[0].Text != "hello" {
		t.Errorf("first child = %+v", node.Children[0])
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("br") || !IsVoidElement("input") {
		t.Error("br and input are void elements")
	}
	if IsVoidElement("div") {
		t.Error("div is not a void element")
	}
}

func TestFragment(t *testing.T) {
	f := Fragment("a", nil, Text("b"), []*VNode{Text("c"), nil})
	if f.Kind != KindFragment {
		t.Fatalf("Kind = %v", f.Kind)
	}
	if got := TextContent(f); got != "abc" {
		t.Errorf("TextContent = %q, want abc", got)
	}
}
