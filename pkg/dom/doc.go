// Package dom provides the mutable document that pageglue operates on.
//
// A Document owns a <body> vdom tree. Alert timers fire on their own
// goroutines while the live server renders and dispatches clicks, so every
// access goes through Read or Update, which serialize on the document lock.
// Inside those callbacks a *Tree offers lock-free lookup and mutation.
//
//	err := doc.Update(func(t *dom.Tree) error {
//	    holder, err := t.QuerySelector("#alert-container")
//	    if err != nil {
//	        return err
//	    }
//	    return t.AppendChild(holder, vdom.Div("hi"))
//	})
//
// # Selectors
//
// QuerySelector understands compound selectors made of a tag, #id, .class,
// [attr] and [attr=value] parts, chained with the descendant combinator
// ("#main .inbox") and grouped with commas. The ">", "+" and "~"
// combinators are rejected with ErrInvalidSelector.
//
// # Parsing
//
// Parse builds a Document from server-rendered HTML so the page-load wiring
// can run against markup produced elsewhere.
package dom
