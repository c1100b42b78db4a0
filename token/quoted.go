package token

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// stringPrefix reports whether p is a supported literal string prefix and
// whether it makes the literal raw or bytes.
func stringPrefix(p string) (ok, raw, isBytes bool) {
	switch strings.ToLower(p) {
	case "":
		return true, false, false
	case "u":
		return true, false, false
	case "r":
		return true, true, false
	case "b":
		return true, false, true
	case "br", "rb":
		return true, true, true
	default:
		return false, false, false
	}
}

// literalString decodes a single or double quoted literal starting at
// d[0]. It returns the decoded value and the number of bytes consumed.
func literalString(d []byte, off int, pd *PosDoc, raw, isBytes bool) ([]byte, int, error) {
	q := d[0]
	if len(d) >= 3 && d[1] == q && d[2] == q {
		return nil, 0, NewTokenizeErr(ErrTripleQuote, pd.Pos(off))
	}
	out := []byte{}
	i := 1
	for {
		if i >= len(d) {
			return nil, 0, NewTokenizeErr(ErrUnterminated, pd.Pos(off))
		}
		c := d[i]
		switch {
		case c == q:
			return out, i + 1, nil
		case c == '\n' || c == '\r':
			return nil, 0, NewTokenizeErr(ErrUnterminated, pd.Pos(off))
		case c == '\\' && raw:
			if i+1 < len(d) && (d[i+1] == q || d[i+1] == '\\' || d[i+1] == '\n') {
				out = append(out, '\\', d[i+1])
				i += 2
				continue
			}
			out = append(out, '\\')
			i++
		case c == '\\':
			var (
				n   int
				err error
			)
			out, n, err = literalEscape(d[i:], isBytes, out)
			if err != nil {
				return nil, 0, NewTokenizeErr(err, pd.Pos(off+i))
			}
			i += n
		default:
			r, sz := utf8.DecodeRune(d[i:])
			if r == utf8.RuneError && sz <= 1 {
				return nil, 0, NewTokenizeErr(ErrBadUTF8, pd.Pos(off+i))
			}
			if isBytes && r >= utf8.RuneSelf {
				return nil, 0, NewTokenizeErr(ErrNonASCIIBytes, pd.Pos(off+i))
			}
			out = append(out, d[i:i+sz]...)
			i += sz
		}
	}
}

// literalEscape decodes the escape sequence at d[0] == '\\' onto out.
// Unrecognized escapes keep the backslash.
func literalEscape(d []byte, isBytes bool, out []byte) ([]byte, int, error) {
	if len(d) < 2 {
		return out, 0, ErrUnterminated
	}
	e := d[1]
	switch e {
	case '\n':
		return out, 2, nil
	case '\r':
		if len(d) > 2 && d[2] == '\n' {
			return out, 3, nil
		}
		return out, 2, nil
	case '\\', '\'', '"':
		return append(out, e), 2, nil
	case 'a':
		return append(out, '\a'), 2, nil
	case 'b':
		return append(out, '\b'), 2, nil
	case 'f':
		return append(out, '\f'), 2, nil
	case 'n':
		return append(out, '\n'), 2, nil
	case 'r':
		return append(out, '\r'), 2, nil
	case 't':
		return append(out, '\t'), 2, nil
	case 'v':
		return append(out, '\v'), 2, nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v, n := 0, 1
		for n < 4 && n < len(d) && d[n] >= '0' && d[n] <= '7' {
			v = v*8 + int(d[n]-'0')
			n++
		}
		if isBytes {
			if v > 0xff {
				return out, n, ErrBadEscape
			}
			return append(out, byte(v)), n, nil
		}
		return utf8.AppendRune(out, rune(v)), n, nil
	case 'x':
		v, ok := hexValue(d[2:], 2)
		if !ok {
			return out, 2, ErrBadEscape
		}
		if isBytes {
			return append(out, byte(v)), 4, nil
		}
		return utf8.AppendRune(out, rune(v)), 4, nil
	case 'u', 'U':
		if isBytes {
			break
		}
		w := 4
		if e == 'U' {
			w = 8
		}
		v, ok := hexValue(d[2:], w)
		if !ok {
			return out, 2, ErrBadEscape
		}
		r := rune(v)
		if v > utf8.MaxRune || utf16.IsSurrogate(r) {
			return out, 2, ErrBadUnicode
		}
		return utf8.AppendRune(out, r), 2 + w, nil
	case 'N':
		if !isBytes {
			return out, 2, ErrBadEscape
		}
	}
	return append(out, '\\'), 1, nil
}

func hexValue(d []byte, n int) (int, bool) {
	if len(d) < n {
		return 0, false
	}
	v := 0
	for _, c := range d[:n] {
		switch {
		case c >= '0' && c <= '9':
			v = v*16 + int(c-'0')
		case c >= 'a' && c <= 'f':
			v = v*16 + int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = v*16 + int(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}

// jsonString decodes a double quoted JSON string starting at d[0].
func jsonString(d []byte, off int, pd *PosDoc) ([]byte, int, error) {
	out := []byte{}
	i := 1
	for {
		if i >= len(d) {
			return nil, 0, NewTokenizeErr(ErrUnterminated, pd.Pos(off))
		}
		c := d[i]
		switch {
		case c == '"':
			return out, i + 1, nil
		case c < 0x20:
			return nil, 0, NewTokenizeErr(ErrUnicodeControl, pd.Pos(off+i))
		case c == '\\':
			if i+1 >= len(d) {
				return nil, 0, NewTokenizeErr(ErrUnterminated, pd.Pos(off))
			}
			switch e := d[i+1]; e {
			case '"', '\\', '/':
				out = append(out, e)
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'u':
				r, n, err := jsonUnicode(d[i:])
				if err != nil {
					return nil, 0, NewTokenizeErr(err, pd.Pos(off+i))
				}
				out = utf8.AppendRune(out, r)
				i += n
				continue
			default:
				return nil, 0, NewTokenizeErr(ErrBadEscape, pd.Pos(off+i))
			}
			i += 2
		default:
			r, sz := utf8.DecodeRune(d[i:])
			if r == utf8.RuneError && sz <= 1 {
				return nil, 0, NewTokenizeErr(ErrBadUTF8, pd.Pos(off+i))
			}
			out = append(out, d[i:i+sz]...)
			i += sz
		}
	}
}

// jsonUnicode decodes \uXXXX at d[0], combining a following low surrogate
// escape when d holds a high surrogate.
func jsonUnicode(d []byte) (rune, int, error) {
	v, ok := hexValue(d[2:], 4)
	if !ok {
		return 0, 0, ErrBadUnicode
	}
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		return r, 6, nil
	}
	if len(d) < 12 || d[6] != '\\' || d[7] != 'u' {
		return 0, 0, ErrBadUnicode
	}
	v2, ok := hexValue(d[8:], 4)
	if !ok {
		return 0, 0, ErrBadUnicode
	}
	r = utf16.DecodeRune(r, rune(v2))
	if r == utf8.RuneError {
		return 0, 0, ErrBadUnicode
	}
	return r, 12, nil
}
