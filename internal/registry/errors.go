package registry

import "errors"

var (
	// ErrNotFound means the referenced welder or authorization does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the target identifier is already held by another welder.
	ErrConflict = errors.New("identifier already in use")
	// ErrInvalidRequest means the input violates a domain rule, such as
	// clearing a required field to null.
	ErrInvalidRequest = errors.New("invalid request")
)
