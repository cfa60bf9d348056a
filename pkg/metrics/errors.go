package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrRegistryUnavailable = errors.New("metrics registry unavailable")
)
