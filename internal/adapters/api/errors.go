package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no credentials are stored. No request was sent.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the API answered 401. The session store has
	// already been cleared.
	ErrSessionExpired = errors.New("session expired")
	ErrRequestFailed  = errors.New("request failed")
	ErrTransport      = errors.New("transport failure")
	ErrDecode         = errors.New("decode response")
)

// FallbackMessage is shown when the server gives no usable message.
const FallbackMessage = "Request failed"

// RequestError is a non-2xx, non-401 response.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

func (e *RequestError) Unwrap() error { return ErrRequestFailed }

// Message returns the user-facing text for err: the server message for
// request failures and the fallback for anything else.
func Message(err error) string {
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return FallbackMessage
}

// IsAuth reports whether err should end in a redirect rather than a notice.
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrSessionExpired)
}
