// Package notify shows transient alert banners in a page document.
//
// Alerts are appended to a page-level holder, created once on first use and
// reused afterwards, or to an explicit container selected by CSS selector.
// A container selector that matches nothing yields a *dom.TargetNotFoundError.
//
//	n := notify.New(doc, notify.Config{})
//	n.Notify("Saved")
//	n.Notify("Delete failed", notify.WithSeverity(notify.SeverityDanger))
//	n.Notify("Pinned", notify.WithTimeout(0), notify.WithContainer("#sidebar"))
//
// # Escaping
//
// Messages are inserted as text and escaped on render. WithMarkup opts in
// to inserting pre-sanitized HTML.
//
// # Dismissal
//
// Dismissal is two-phase: the "show" class is removed at once so the fade
// transition can run, and the element is detached FadeDuration later. The
// auto-dismiss timer, Alert.Dismiss and a click on the close button all go
// through the same sequence, and repeated dismissals are ignored.
package notify
