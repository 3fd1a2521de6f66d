// Package render converts vdom trees into HTML.
//
// Text nodes and attribute values are escaped. Raw nodes are written
// verbatim and must only carry markup that was sanitized upstream.
// Attributes are emitted in sorted order so output is deterministic,
// which keeps rendered pages diffable in tests.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	err := renderer.RenderPage(w, render.PageData{
//	    Title: "Items",
//	    Body:  doc.Body(),
//	})
package render
