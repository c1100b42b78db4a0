package token

import (
	"errors"
)

var (
	ErrBadUTF8           = errors.New("bad utf8")
	ErrUnterminated      = errors.New("unterminated")
	ErrNumberLeadingZero = errors.New("leading zero")
	ErrNumber            = errors.New("number")
	ErrBadEscape         = errors.New("bad escape")
	ErrBadUnicode        = errors.New("bad unicode")
	ErrUnicodeControl    = errors.New("unicode control")
	ErrTripleQuote       = errors.New("triple quoted string")
	ErrStringPrefix      = errors.New("unsupported string prefix")
	ErrNonASCIIBytes     = errors.New("bytes can only contain ascii characters")
	ErrUnexpected        = errors.New("unexpected character")
)

func LeadingZeroErr(pos *Pos) error {
	return NewTokenizeErr(ErrNumberLeadingZero, pos)
}
