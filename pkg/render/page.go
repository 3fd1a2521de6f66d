package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/pageglue/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the <body> element of the page. Non-body roots are wrapped.
	Body *vdom.VNode

	// Title is the page title
	Title string

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Script is inline JavaScript appended to the end of the body.
	Script string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", escapeText(page.Title)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "<link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n"); err != nil {
		return err
	}

	body := page.Body
	if body == nil || body.Tag != "body" {
		body = vdom.Body(body)
	}
	if page.Script != "" {
		// Render a shallow copy so the script never lands in the caller's tree.
		withScript := *body
		withScript.Children = append(append([]*vdom.VNode(nil), body.Children...),
			vdom.Element("script", vdom.Raw(page.Script)))
		body = &withScript
	}
	if err := r.RenderToWriter(w, body); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n</html>\n")
	return err
}
