package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/pageglue/pkg/vdom"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

func TestRenderToString(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "nil",
			node: nil,
			want: "",
		},
		{
			name: "escaped text",
			node: vdom.Text("<b>&</b>"),
			want: "&lt;b&gt;&amp;&lt;/b&gt;",
		},
		{
			name: "raw markup",
			node: vdom.Raw("<b>bold</b>"),
			want: "<b>bold</b>",
		},
		{
			name: "sorted attributes",
			node: vdom.Div(vdom.Role("alert"), vdom.Class("alert"), vdom.ID("a1"), "hi"),
			want: `<div class="alert" id="a1" role="alert">hi</div>`,
		},
		{
			name: "void element",
			node: vdom.Input(vdom.Type("text"), vdom.Attr{Key: "disabled", Value: true}),
			want: `<input disabled type="text">`,
		},
		{
			name: "false boolean omitted",
			node: vdom.Input(vdom.Attr{Key: "disabled", Value: false}),
			want: `<input>`,
		},
		{
			name: "empty data attribute renders bare",
			node: vdom.A(vdom.Data("confirm", ""), vdom.Href("/x")),
			want: `<a data-confirm href="/x"></a>`,
		},
		{
			name: "empty class skipped",
			node: vdom.Span(vdom.Class()),
			want: `<span></span>`,
		},
		{
			name: "fragment",
			node: vdom.Fragment(vdom.Span("a"), "b"),
			want: `<span>a</span>b`,
		},
		{
			name: "attribute escaping",
			node: vdom.A(vdom.Href(`/x?a="1"&b=2`)),
			want: `<a href="/x?a=&quot;1&quot;&amp;b=2"></a>`,
		},
	}

	r := NewRenderer(RendererConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("RenderToString: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer(RendererConfig{})

	if _, err := r.RenderToString(&vdom.VNode{Kind: vdom.VKind(42)}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := r.RenderToString(&vdom.VNode{Kind: vdom.KindElement}); err == nil {
		t.Error("expected error for missing tag")
	}
	if err := r.RenderToWriter(failWriter{}, vdom.Div()); err == nil {
		t.Error("expected writer error to propagate")
	}
}

func TestRenderPretty(t *testing.T) {
	r := NewRenderer(RendererConfig{Pretty: true})
	got, err := r.RenderToString(vdom.Div(vdom.P("x")))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "<div>\n  <p>") || !strings.HasSuffix(got, "</div>\n") {
		t.Errorf("pretty output missing indentation: %q", got)
	}
}

func TestRenderPage(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	body := vdom.Body(vdom.H1("Items"))

	var sb strings.Builder
	err := r.RenderPage(&sb, PageData{
		Title:       "A & B",
		Body:        body,
		StyleSheets: []string{"/app.css"},
		Script:      "console.log(1)",
	})
	if err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>A &amp; B</title>",
		`<link rel="stylesheet" href="/app.css">`,
		"<body><h1>Items</h1><script>console.log(1)</script></body>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
	if len(body.Children) != 1 {
		t.Error("RenderPage must not mutate the body tree")
	}
}

func TestRenderPageWrapsNonBody(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	var sb strings.Builder
	if err := r.RenderPage(&sb, PageData{Body: vdom.Div("x"), Lang: "fa"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), `<html lang="fa">`) || !strings.Contains(sb.String(), "<body><div>x</div></body>") {
		t.Errorf("unexpected page: %s", sb.String())
	}
}

func TestEscaping(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"text plain", escapeText, "Hello 世界", "Hello 世界"},
		{"text script", escapeText, "<script>alert('x')</script>", "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;"},
		{"text ampersand first", escapeText, "&lt;", "&amp;lt;"},
		{"attr quotes and whitespace", escapeAttr, "a\"b\nc\td", "a&quot;b&#10;c&#9;d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
