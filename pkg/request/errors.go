package request

import (
	"errors"
	"fmt"
)

// FallbackMessage is reported for server errors without a usable detail.
const FallbackMessage = "error communicating with server"

var (
	// ErrNetwork matches failures to send a request or receive its response.
	ErrNetwork = errors.New("request: network failure")

	// ErrServer matches non-2xx responses.
	ErrServer = errors.New("request: server error")

	// ErrDecode matches success responses whose body is not valid JSON.
	ErrDecode = errors.New("request: decode failure")

	// ErrEncode matches request bodies that could not be encoded.
	ErrEncode = errors.New("request: encode failure")
)

// NetworkError reports a request that could not be sent or whose response
// could not be read.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ServerError reports a non-2xx response. Its message is the detail sent
// by the server, or FallbackMessage.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string { return e.Detail }

func (e *ServerError) Is(target error) bool { return target == ErrServer }

// DecodeError reports a success response body that is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// EncodeError reports a request body that could not be encoded.
type EncodeError struct {
	ContentType string
	Err         error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode %s body: %v", e.ContentType, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Is(target error) bool { return target == ErrEncode }

// outcome is the metrics label for err.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrServer):
		return "server"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrEncode):
		return "encode"
	default:
		return "network"
	}
}
