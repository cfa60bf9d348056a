package app

import "errors"

var (
	// ErrValidation is a client-side precondition failure. Nothing was sent.
	ErrValidation = errors.New("validation failed")
	// ErrSuperseded means a newer quiz session replaced the one a response
	// belonged to. The response was dropped.
	ErrSuperseded = errors.New("quiz session superseded")
	ErrNotReady   = errors.New("quiz is not ready")
)
