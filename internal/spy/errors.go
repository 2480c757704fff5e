package spy

import "errors"

var (
	// ErrUnresolvedTarget is returned when an activated item's section does
	// not exist in the document.
	ErrUnresolvedTarget = errors.New("navigation target not found")

	// ErrUnknownItem is returned by Activate for ids no item points at.
	ErrUnknownItem = errors.New("no navigation item for target")

	// ErrClosed is returned by operations on a closed Spy.
	ErrClosed = errors.New("spy is closed")

	// ErrInvalidOptions is returned for option values that cannot be used.
	ErrInvalidOptions = errors.New("invalid spy options")
)
