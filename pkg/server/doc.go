// Package server serves live pages over a websocket.
//
// A page is rendered on the server and wired with the page package. The
// browser forwards clicks, and the server answers with the new body
// markup, confirmation prompts and navigation requests:
//
//	browser -> {"type":"click","target":"delete-3"}
//	server  -> {"type":"confirm","id":"…","message":"Delete beta?"}
//	browser -> {"type":"confirm","id":"…","accepted":true}
//	server  -> {"type":"navigate","href":"/items/3/delete"}
//
// Every connection owns its own document, notifier and confirmation
// broker. Alerts raised on a connection, including those from Broadcast,
// are pushed as {"type":"html"} messages whenever the document changes.
//
// The server also exposes /healthz, Prometheus metrics on /metrics and a
// small JSON item API whose errors carry a "detail" field.
package server
