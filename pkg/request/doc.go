// Package request is a JSON HTTP client that surfaces its failures.
//
// Every failed call is logged, shown to the user as a danger notification
// and returned to the caller, so callers only need to decide whether to
// continue:
//
//	client, _ := request.New(request.WithNotifier(notifier))
//	items, err := client.Do(ctx, request.Request{URL: "/api/items"})
//	if err != nil {
//	    return err // already shown to the user
//	}
//
// Failures are classified as *NetworkError, *ServerError, *DecodeError or
// *EncodeError and match ErrNetwork, ErrServer, ErrDecode and ErrEncode
// under errors.Is.
package request
