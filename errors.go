package nexus

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrRateLimited indicates the conversation API rejected a request
	// because of throttling. Callers distinguish it from generic
	// transport failures with errors.Is.
	ErrRateLimited = errors.New("rate limited")
)
