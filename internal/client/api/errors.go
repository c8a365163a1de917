package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport-level failures (connection refused,
	// timeout, malformed response body).
	ErrUnavailable = errors.New("server unavailable")
)

// Error is a rejected envelope: the server answered, but with a non-success
// code. Message is suitable for user-visible alerts.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request rejected (code %d)", e.Code)
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// AlertMessage extracts a user-presentable message from a mutation failure:
// the server's own message when there is one, a generic fallback otherwise.
func AlertMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong, please try again"
}
