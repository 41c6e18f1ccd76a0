package api

import (
	"errors"
	"fmt"
)

// ErrUnreachable means no response was obtained from the server at all
// (connection refused, DNS failure, timeout). The triggering action can
// simply be retried.
var ErrUnreachable = errors.New("server unreachable")

// ErrMalformedResponse means the server signaled success but the body
// was missing fields the client requires.
var ErrMalformedResponse = errors.New("malformed server response")

// RejectedError means the server explicitly declined the request. The
// message is taken from the response body when one is present, else
// derived from the status code.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected: %s", e.Message)
}

// statusMessage builds the generic fallback message for a non-success
// response with no usable body message.
func statusMessage(status int) string {
	return fmt.Sprintf("server error: %d", status)
}
