package hook

import "errors"

// Errors returned by the hook runtime.
var (
	// ErrNoScript is returned by Load when no script path is configured.
	ErrNoScript = errors.New("no hook script configured")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("hook runtime is closed")
)
