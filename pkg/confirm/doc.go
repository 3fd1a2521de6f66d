// Package confirm gates actions behind a user confirmation.
//
// A Gate asks a Prompter and runs the action only on accept. Browsers offer
// a blocking confirm dialog, but a server driving a page over a websocket
// does not, so Broker models confirmation as an explicit protocol: the
// prompt is published with an id, the caller waits, and the answer arrives
// later through Resolve.
//
//	broker := confirm.NewBroker(func(p confirm.PendingAction) error {
//	    return conn.WriteJSON(p)
//	})
//	gate := confirm.NewGate(broker)
//
//	// on the request goroutine
//	ran, err := gate.Run(ctx, "Delete this project?", func() { deleteProject() })
//
//	// on the connection read loop
//	broker.Resolve(msg.ID, msg.Accepted)
package confirm
