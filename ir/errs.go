package ir

import "errors"

var (
	ErrUnhashable  = errors.New("unhashable value")
	ErrUnsupported = errors.New("unsupported value")
)
