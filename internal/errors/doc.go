// Package errors provides coded, actionable error messages for the
// pageglue command line.
//
// Each code maps to a category, a short message and a longer detail. Call
// sites add a suggestion and the underlying cause:
//
//	err := errors.New("P101").
//	    WithDetail("server.port is 70000").
//	    WithSuggestion("Use a port between 1 and 65535")
//
//	errors.PrintError(os.Stderr, err)
//	// ERROR P101: Invalid port
//	//
//	//   server.port is 70000
//	//
//	//   Hint: Use a port between 1 and 65535
//
// Errors unwrap to their cause, so errors.Is and errors.As keep working
// through them.
package errors
