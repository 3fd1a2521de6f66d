// Package page wires the delegated behaviours of a page.
//
// After Ready, clicking an element marked data-dismiss="alert" closes the
// surrounding alert, and clicking an element marked data-confirm asks for
// confirmation before following its href. Both are registered once on the
// page, so content added later behaves the same.
package page
