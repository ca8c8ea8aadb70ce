package editor

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrNotFound              = errors.New("not found")
	ErrNoSpace               = errors.New("no space left to duplicate segment")
	ErrRequestInFlight       = errors.New("suggestion request already in flight")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
