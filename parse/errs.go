package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/go-packet/token"
)

var (
	ErrParse     = errors.New("parse error")
	ErrMalformed = fmt.Errorf("%w: malformed expression", ErrParse)
)

// MalformedError names the construct which was rejected and where.
type MalformedError struct {
	Construct string
	Pos       token.Pos
	// Err is the tokenizer error, if any.
	Err error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrMalformed, e.Err)
	}
	return fmt.Sprintf("%s: %s at %s", ErrMalformed, e.Construct, e.Pos)
}

func (e *MalformedError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformed, e.Err}
	}
	return []error{ErrMalformed}
}

func malformed(construct string, pos *token.Pos) error {
	return &MalformedError{Construct: construct, Pos: *pos}
}
