package token

import (
	"fmt"
)

type TokenType int

const (
	TInteger TokenType = iota
	TFloat
	TImag
	TString
	TBytes
	TName
	TOp
	TLParen
	TRParen
	TLSquare
	TRSquare
	TLCurl
	TRCurl
	TComma
	TColon
	TPlus
	TMinus
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TInteger: "TInteger",
		TFloat:   "TFloat",
		TImag:    "TImag",
		TString:  "TString",
		TBytes:   "TBytes",
		TName:    "TName",
		TOp:      "TOp",
		TLParen:  "TLParen",
		TRParen:  "TRParen",
		TLSquare: "TLSquare",
		TRSquare: "TRSquare",
		TLCurl:   "TLCurl",
		TRCurl:   "TRCurl",
		TComma:   "TComma",
		TColon:   "TColon",
		TPlus:    "TPlus",
		TMinus:   "TMinus",
	}[t]
}

// Token is one lexical element. For TString and TBytes, Bytes holds the
// decoded value; for every other type it holds the source text.
type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

func (t *Token) String() string {
	return string(t.Bytes)
}

type TokenizeErr struct {
	Err error
	Pos Pos
}

func (t *TokenizeErr) Unwrap() error {
	return t.Err
}

func NewTokenizeErr(e error, p *Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: *p}
}

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func UnexpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("%w %s", ErrUnexpected, what), p)
}
