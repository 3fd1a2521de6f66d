// Package vtest provides testing helpers for wired pages.
//
// NewPage builds a document, a notifier on a manual clock, a scripted
// confirmation prompter and a recording navigator, and wires them into a
// ready page:
//
//	func TestDeleteLink(t *testing.T) {
//	    h := vtest.NewPage(vdom.Body(
//	        vdom.A(vdom.ID("del"), vdom.Data("confirm", "Delete?"), vdom.Href("/delete")),
//	    ))
//	    h.Prompter.Queue(true)
//
//	    h.Click(t, "del")
//	    h.ExpectNavigated(t, "/delete")
//	}
//
// Alert timers only fire when the test advances the clock:
//
//	h.Notifier.Notify("Saved")
//	h.Advance(notify.DefaultTimeout + notify.FadeDuration)
//	vtest.ExpectNotContains(t, h.Doc, "Saved")
package vtest
