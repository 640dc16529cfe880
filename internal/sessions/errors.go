package sessions

import "errors"

var (
	ErrNotFound     = errors.New("session not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrPrecondition means a required table has not been uploaded yet.
	ErrPrecondition = errors.New("precondition failed")
)
