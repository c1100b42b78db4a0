package token

import (
	"unicode"
	"unicode/utf8"
)

// jsonNumber scans an RFC 8259 number, sign included. The bool result
// reports whether the number has a fraction or exponent.
func jsonNumber(d []byte) (int, bool, error) {
	i := 0
	if len(d) > 0 && d[0] == '-' {
		i++
	}
	digits := asciiDigits(d[i:])
	if digits == 0 {
		return 0, false, ErrNumber
	}
	if digits > 1 && d[i] == '0' {
		return i + digits, false, ErrNumberLeadingZero
	}
	i += digits
	f := fract(d[i:])
	i += f
	e := exp(d[i:])
	i += e
	if identContinueAt(d, i) {
		return i, false, ErrNumber
	}
	return i, f+e != 0, nil
}

func asciiDigits(d []byte) int {
	i := 0
	for i < len(d) {
		if !asciiDigit(d[i]) {
			return i
		}
		i++
	}
	return i
}

func asciiDigit(c byte) bool {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	default:
		return false
	}
}

func exp(d []byte) int {
	if len(d) < 2 {
		return 0
	}
	switch d[0] {
	case 'e', 'E':
	default:
		return 0
	}
	i := 1
	switch d[1] {
	case '+', '-':
		i++
	default:
	}
	if i == len(d) {
		return 0
	}
	n := asciiDigits(d[i:])
	if n == 0 {
		return 0
	}
	return n + i
}

func fract(d []byte) int {
	if len(d) < 2 || d[0] != '.' {
		return 0
	}
	// . must be followed by 1 or more digits rfc 7159
	n := asciiDigits(d[1:])
	if n == 0 {
		return 0
	}
	return n + 1
}

// literalNumber scans a decimal, hex, octal or binary integer, a float or
// an imaginary number. Single underscores may separate digits.
func literalNumber(d []byte) (int, TokenType, error) {
	if len(d) > 1 && d[0] == '0' {
		base := 0
		switch d[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := digitPart(d[2:], base, true)
			if err != nil {
				return 2 + n, TInteger, err
			}
			if n == 0 {
				return 2, TInteger, ErrNumber
			}
			return numberEnd(d, 2+n, TInteger)
		}
	}
	i, err := digitPart(d, 10, false)
	if err != nil {
		return i, TInteger, err
	}
	tt := TInteger
	if i < len(d) && d[i] == '.' {
		f, err := digitPart(d[i+1:], 10, false)
		if err != nil {
			return i + 1 + f, TFloat, err
		}
		if i == 0 && f == 0 {
			return 1, TFloat, ErrNumber
		}
		i += 1 + f
		tt = TFloat
	}
	if i < len(d) && (d[i] == 'e' || d[i] == 'E') {
		e, err := literalExp(d[i:])
		if err != nil {
			return i + e, TFloat, err
		}
		i += e
		tt = TFloat
	}
	if i < len(d) && (d[i] == 'j' || d[i] == 'J') {
		return numberEnd(d, i+1, TImag)
	}
	if tt == TInteger && d[0] == '0' && !allZeros(d[:i]) {
		return i, tt, ErrNumberLeadingZero
	}
	return numberEnd(d, i, tt)
}

func literalExp(d []byte) (int, error) {
	i := 1
	if i < len(d) && (d[i] == '+' || d[i] == '-') {
		i++
	}
	n, err := digitPart(d[i:], 10, false)
	if err != nil {
		return i + n, err
	}
	if n == 0 {
		return i, ErrNumber
	}
	return i + n, nil
}

func digitPart(d []byte, base int, leadUnderscore bool) (int, error) {
	i := 0
	for i < len(d) {
		if d[i] == '_' {
			if (i == 0 && !leadUnderscore) || i+1 >= len(d) || !baseDigit(d[i+1], base) {
				return i, ErrNumber
			}
			i++
			continue
		}
		if !baseDigit(d[i], base) {
			break
		}
		i++
	}
	return i, nil
}

func baseDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return asciiDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	default:
		return asciiDigit(c)
	}
}

func allZeros(d []byte) bool {
	for _, c := range d {
		if c != '0' && c != '_' {
			return false
		}
	}
	return true
}

func numberEnd(d []byte, n int, tt TokenType) (int, TokenType, error) {
	if identContinueAt(d, n) {
		return n, tt, ErrNumber
	}
	return n, tt, nil
}

func identContinueAt(d []byte, i int) bool {
	if i >= len(d) {
		return false
	}
	r, _ := utf8.DecodeRune(d[i:])
	return identContinue(r)
}

func identStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func identContinue(r rune) bool {
	return identStart(r) || unicode.IsDigit(r)
}
