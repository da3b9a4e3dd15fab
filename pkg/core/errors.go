package core

import "errors"

// Request-level errors. Callers match them with errors.Is and translate
// them into protocol errors.
var (
	ErrNotFound     = errors.New("entry not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("entry already exists")
)
