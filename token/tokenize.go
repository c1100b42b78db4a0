package token

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/signadot/go-packet/format"
)

var punct = map[byte]TokenType{
	'(': TLParen,
	')': TRParen,
	'[': TLSquare,
	']': TRSquare,
	'{': TLCurl,
	'}': TRCurl,
	',': TComma,
	':': TColon,
}

// Tokenize appends the tokens of src to dst. The grammar is selected with
// TokenJSON or TokenLiteral, literal being the default.
func Tokenize(dst []Token, src []byte, opts ...TokenOpt) ([]Token, error) {
	opt := &tokenOpts{format: format.LiteralFormat}
	for _, o := range opts {
		o(opt)
	}
	pd := NewPosDoc(src)
	if !utf8.Valid(src) {
		i := 0
		for i < len(src) {
			r, sz := utf8.DecodeRune(src[i:])
			if r == utf8.RuneError && sz <= 1 {
				break
			}
			i += sz
		}
		return nil, NewTokenizeErr(ErrBadUTF8, pd.Pos(i))
	}
	if opt.format.IsJSON() {
		return tokenizeJSON(dst, src, pd)
	}
	return tokenizeLiteral(dst, src, pd)
}

func tokenizeJSON(dst []Token, d []byte, pd *PosDoc) ([]Token, error) {
	i, n := 0, len(d)
	for i < n {
		c := d[i]
		switch c {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		case '{', '}', '[', ']', ',', ':':
			dst = append(dst, Token{Type: punct[c], Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
			continue
		case '"':
			v, sz, err := jsonString(d[i:], i, pd)
			if err != nil {
				return nil, err
			}
			dst = append(dst, Token{Type: TString, Pos: pd.Pos(i), Bytes: v})
			i += sz
			continue
		}
		if c == '-' && bytes.HasPrefix(d[i:], []byte("-Infinity")) {
			sz := len("-Infinity")
			if identContinueAt(d, i+sz) {
				return nil, UnexpectedErr("name", pd.Pos(i))
			}
			dst = append(dst, Token{Type: TName, Pos: pd.Pos(i), Bytes: d[i : i+sz]})
			i += sz
			continue
		}
		if c == '-' || asciiDigit(c) {
			sz, isFloat, err := jsonNumber(d[i:])
			if err != nil {
				return nil, NewTokenizeErr(err, pd.Pos(i))
			}
			tt := TInteger
			if isFloat {
				tt = TFloat
			}
			dst = append(dst, Token{Type: tt, Pos: pd.Pos(i), Bytes: d[i : i+sz]})
			i += sz
			continue
		}
		r, _ := utf8.DecodeRune(d[i:])
		if !identStart(r) {
			return nil, UnexpectedErr(fmt.Sprintf("%q", r), pd.Pos(i))
		}
		sz := identLen(d[i:])
		switch name := string(d[i : i+sz]); name {
		case "true", "false", "null", "NaN", "Infinity":
			dst = append(dst, Token{Type: TName, Pos: pd.Pos(i), Bytes: d[i : i+sz]})
		default:
			return nil, UnexpectedErr(fmt.Sprintf("name %q", name), pd.Pos(i))
		}
		i += sz
	}
	return dst, nil
}

func tokenizeLiteral(dst []Token, d []byte, pd *PosDoc) ([]Token, error) {
	i, n := 0, len(d)
	for i < n {
		c := d[i]
		switch c {
		case ' ', '\t', '\n', '\r', '\f':
			i++
			continue
		case '#':
			for i < n && d[i] != '\n' {
				i++
			}
			continue
		case '\\':
			// explicit line joining
			j := i + 1
			if j < n && d[j] == '\r' {
				j++
			}
			if j < n && d[j] == '\n' {
				i = j + 1
				continue
			}
			return nil, UnexpectedErr(`"\\"`, pd.Pos(i))
		case '(', ')', '[', ']', '{', '}', ',', ':':
			dst = append(dst, Token{Type: punct[c], Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
			continue
		case '+':
			dst = append(dst, Token{Type: TPlus, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
			continue
		case '-':
			dst = append(dst, Token{Type: TMinus, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
			continue
		case '\'', '"':
			tok, sz, err := literalStringToken(d[i:], i, pd, "")
			if err != nil {
				return nil, err
			}
			dst = append(dst, tok)
			i += sz
			continue
		}
		if asciiDigit(c) || (c == '.' && i+1 < n && asciiDigit(d[i+1])) {
			sz, tt, err := literalNumber(d[i:])
			if err != nil {
				return nil, NewTokenizeErr(err, pd.Pos(i))
			}
			dst = append(dst, Token{Type: tt, Pos: pd.Pos(i), Bytes: d[i : i+sz]})
			i += sz
			continue
		}
		r, rsz := utf8.DecodeRune(d[i:])
		if !identStart(r) {
			// operators and anything else are left for the parser to
			// reject with a description of the construct.
			dst = append(dst, Token{Type: TOp, Pos: pd.Pos(i), Bytes: d[i : i+rsz]})
			i += rsz
			continue
		}
		sz := identLen(d[i:])
		if i+sz < n && (d[i+sz] == '\'' || d[i+sz] == '"') {
			tok, ssz, err := literalStringToken(d[i+sz:], i+sz, pd, string(d[i:i+sz]))
			if err != nil {
				return nil, err
			}
			tok.Pos = pd.Pos(i)
			dst = append(dst, tok)
			i += sz + ssz
			continue
		}
		dst = append(dst, Token{Type: TName, Pos: pd.Pos(i), Bytes: d[i : i+sz]})
		i += sz
	}
	return dst, nil
}

func literalStringToken(d []byte, off int, pd *PosDoc, prefix string) (Token, int, error) {
	ok, raw, isBytes := stringPrefix(prefix)
	if !ok {
		return Token{}, 0, NewTokenizeErr(fmt.Errorf("%w %q", ErrStringPrefix, prefix), pd.Pos(off-len(prefix)))
	}
	v, sz, err := literalString(d, off, pd, raw, isBytes)
	if err != nil {
		return Token{}, 0, err
	}
	tt := TString
	if isBytes {
		tt = TBytes
	}
	return Token{Type: tt, Pos: pd.Pos(off), Bytes: v}, sz, nil
}

func identLen(d []byte) int {
	i := 0
	for i < len(d) {
		r, sz := utf8.DecodeRune(d[i:])
		if !identContinue(r) {
			break
		}
		i += sz
	}
	return i
}
