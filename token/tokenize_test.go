package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tok struct {
	Type  TokenType
	Bytes string
}

func simplify(toks []Token) []tok {
	res := make([]tok, len(toks))
	for i := range toks {
		res[i] = tok{Type: toks[i].Type, Bytes: string(toks[i].Bytes)}
	}
	return res
}

func TestTokenizeLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want []tok
	}{
		{"1", []tok{{TInteger, "1"}}},
		{"0x_ff 0o17 0b1_0 1_000", []tok{{TInteger, "0x_ff"}, {TInteger, "0o17"}, {TInteger, "0b1_0"}, {TInteger, "1_000"}}},
		{"1. .5 1e-3 1_0.0_1E+1_0", []tok{{TFloat, "1."}, {TFloat, ".5"}, {TFloat, "1e-3"}, {TFloat, "1_0.0_1E+1_0"}}},
		{"2j 1.5J 007j 00", []tok{{TImag, "2j"}, {TImag, "1.5J"}, {TImag, "007j"}, {TInteger, "00"}}},
		{"-1+2j", []tok{{TMinus, "-"}, {TInteger, "1"}, {TPlus, "+"}, {TImag, "2j"}}},
		{`'a' "b"`, []tok{{TString, "a"}, {TString, "b"}}},
		{`b'\x00\xff' rb'\n'`, []tok{{TBytes, "\x00\xff"}, {TBytes, `\n`}}},
		{`u'é' R'\d' '\U0001F600'`, []tok{{TString, "é"}, {TString, `\d`}, {TString, "😀"}}},
		{`'\101\x41\q' "\'"`, []tok{{TString, `AA\q`}, {TString, "'"}}},
		{`r'\''`, []tok{{TString, `\'`}}},
		{"'a\\\nb'", []tok{{TString, "ab"}}},
		{"None True set", []tok{{TName, "None"}, {TName, "True"}, {TName, "set"}}},
		{"([{,:}])", []tok{{TLParen, "("}, {TLSquare, "["}, {TLCurl, "{"}, {TComma, ","}, {TColon, ":"}, {TRCurl, "}"}, {TRSquare, "]"}, {TRParen, ")"}}},
		{"a.b * x", []tok{{TName, "a"}, {TOp, "."}, {TName, "b"}, {TOp, "*"}, {TName, "x"}}},
		{"1 # comment\n", []tok{{TInteger, "1"}}},
		{"[1,\\\n 2]", []tok{{TLSquare, "["}, {TInteger, "1"}, {TComma, ","}, {TInteger, "2"}, {TRSquare, "]"}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			toks, err := Tokenize(nil, []byte(tt.in), TokenLiteral())
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, simplify(toks)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeLiteralErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{"01", ErrNumberLeadingZero},
		{"1__0", ErrNumber},
		{"1_", ErrNumber},
		{"0x", ErrNumber},
		{"1abc", ErrNumber},
		{"1e", ErrNumber},
		{"'abc", ErrUnterminated},
		{"'a\nb'", ErrUnterminated},
		{"'''abc'''", ErrTripleQuote},
		{`f'x'`, ErrStringPrefix},
		{`b'é'`, ErrNonASCIIBytes},
		{`'\x4'`, ErrBadEscape},
		{`'\ud800'`, ErrBadUnicode},
		{`b'\777'`, ErrBadEscape},
		{"\xff", ErrBadUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Tokenize(nil, []byte(tt.in), TokenLiteral())
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			var te *TokenizeErr
			if !errors.As(err, &te) {
				t.Fatalf("expected *TokenizeErr, got %T", err)
			}
		})
	}
}

func TestTokenizeJSON(t *testing.T) {
	tests := []struct {
		in   string
		want []tok
	}{
		{`{"a": [1, -2.5e3]}`, []tok{
			{TLCurl, "{"}, {TString, "a"}, {TColon, ":"}, {TLSquare, "["},
			{TInteger, "1"}, {TComma, ","}, {TFloat, "-2.5e3"}, {TRSquare, "]"}, {TRCurl, "}"},
		}},
		{"NaN Infinity -Infinity", []tok{{TName, "NaN"}, {TName, "Infinity"}, {TName, "-Infinity"}}},
		{`"😀\/é"`, []tok{{TString, "😀/é"}}},
		{"true false null", []tok{{TName, "true"}, {TName, "false"}, {TName, "null"}}},
		{"0 1.5", []tok{{TInteger, "0"}, {TFloat, "1.5"}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			toks, err := Tokenize(nil, []byte(tt.in), TokenJSON())
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, simplify(toks)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeJSONErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{"01", ErrNumberLeadingZero},
		{`"a`, ErrUnterminated},
		{"\"a\nb\"", ErrUnicodeControl},
		{`"\x41"`, ErrBadEscape},
		{`"\ud83d"`, ErrBadUnicode},
		{"'a'", ErrUnexpected},
		{"None", ErrUnexpected},
		{"-x", ErrNumber},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Tokenize(nil, []byte(tt.in), TokenJSON())
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestPos(t *testing.T) {
	pd := NewPosDoc([]byte("ab\ncd\nef"))
	tests := []struct {
		off       int
		line, col int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{3, 1, 0},
		{7, 2, 1},
	}
	for _, tt := range tests {
		p := pd.Pos(tt.off)
		if p.Line() != tt.line || p.Col() != tt.col {
			t.Errorf("offset %d: got (%d, %d) want (%d, %d)", tt.off, p.Line(), p.Col(), tt.line, tt.col)
		}
	}
}
