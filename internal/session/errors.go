package session

import "errors"

// Sentinel kinds for session errors.
var (
	// ErrNoCredentials means nobody is logged in; callers redirect to login.
	ErrNoCredentials = errors.New("no stored credentials")

	ErrInvalidCredential = errors.New("invalid credential")
	ErrStore             = errors.New("session store failed")
)
