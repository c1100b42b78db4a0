package parse

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-packet/ir"
)

func TestEval(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{`None`, nil},
		{`True`, true},
		{`False`, false},
		{`42`, 42},
		{`-0x_ff`, -255},
		{`0o17 `, 15},
		{`0b101`, 5},
		{`1_000`, 1000},
		{`--3`, 3},
		{`+-3`, -3},
		{`1.5`, 1.5},
		{`.5e1`, 5.0},
		{`1e400`, math.Inf(1)},
		{`-inf`, math.Inf(-1)},
		{`'a' "b"`, "ab"},
		{`b'\x00' b'1'`, []byte{0, '1'}},
		{`u'é'`, "é"},
		{`[1, 'two', None,]`, []any{1, "two", nil}},
		{`()`, ir.Tuple{}},
		{`(1,)`, ir.Tuple{1}},
		{`(1)`, 1},
		{`((1, 2), [3])`, ir.Tuple{ir.Tuple{1, 2}, []any{3}}},
		{`1, 2`, ir.Tuple{1, 2}},
		{`{}`, map[string]any{}},
		{`{'a': 1, 'b': [2]}`, map[string]any{"a": 1, "b": []any{2}}},
		{`{1: 'x', 1.0: 'y'}`, map[any]any{1: "y"}},
		{`{'a': 1, 'a': 2}`, map[string]any{"a": 2}},
		{`{1, 2, 2, True}`, ir.NewSet(1, 2)},
		{`set()`, ir.NewSet()},
		{`set([1, 2])`, ir.NewSet(1, 2)},
		{`set((1,))`, ir.NewSet(1)},
		{`set('abca')`, ir.NewSet("a", "b", "c")},
		{`set({3})`, ir.NewSet(3)},
		{"[1, # one\n 2]", []any{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Eval(tt.in)
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Eval(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestEvalBigInt(t *testing.T) {
	got, err := Eval("123456789012345678901234567890")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if b, ok := got.(*big.Int); !ok || b.Cmp(want) != 0 {
		t.Errorf("got %v (%T)", got, got)
	}
}

func TestEvalComplex(t *testing.T) {
	negZero := math.Copysign(0, -1)
	tests := []struct {
		in     string
		re, im float64
	}{
		{`2j`, 0, 2},
		{`1+2j`, 1, 2},
		{`(1.0-2.5j)`, 1, -2.5},
		{`-1-0j`, -1, negZero},
		{`-2j`, negZero, -2},
		{`(-0.0+0.0j)`, negZero, 0},
		{`(1.0+infj)`, 1, math.Inf(1)},
		{`(-inf-infj)`, math.Inf(-1), math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Eval(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			c, ok := got.(complex128)
			if !ok {
				t.Fatalf("got %T", got)
			}
			if !sameFloat(real(c), tt.re) || !sameFloat(imag(c), tt.im) {
				t.Errorf("got %v, want (%v, %v)", c, tt.re, tt.im)
			}
		})
	}
	got, err := Eval(`(nan+nanj)`)
	if err != nil {
		t.Fatal(err)
	}
	if c := got.(complex128); !math.IsNaN(real(c)) || !math.IsNaN(imag(c)) {
		t.Errorf("got %v", c)
	}
}

func sameFloat(a, b float64) bool {
	return a == b && math.Signbit(a) == math.Signbit(b)
}

func TestEvalMalformed(t *testing.T) {
	tests := []struct {
		in        string
		construct string
	}{
		{``, "empty expression"},
		{`foo`, "name"},
		{`os.system`, "name"},
		{`__import__('os')`, "call to __import__"},
		{`print(1)`, "call to print"},
		{`set(x=1)`, "name"},
		{`set(1)`, "set() argument"},
		{`set([1], [2])`, "at most 1 argument"},
		{`[1, 2][0]`, "subscript"},
		{`(1).real`, "attribute access"},
		{`[x for x in y]`, "name"},
		{`[1 for x in y]`, "comprehension"},
		{`1 + 2`, "operator +"},
		{`1 * 2`, "operator *"},
		{`1+2j+3j`, "operator +"},
		{`-'a'`, "unary - on string"},
		{`[*a]`, "unpacking"},
		{`{**a}`, "unpacking"},
		{`{[1]: 2}`, "unhashable dict key"},
		{`{[1]}`, "unhashable set element"},
		{`'a' b'b'`, "mixing bytes and str"},
		{`'''doc'''`, "token"},
		{`lambda: 1`, "lambda"},
		{`1 if True else 2`, "conditional expression"},
		{`[1, 2`, "unexpected end of input"},
		{`1 2`, "trailing"},
		{`{1: 2, 3}`, "where ':' expected"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Eval(tt.in)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Eval(%q) = %v, want ErrMalformed", tt.in, err)
			}
			var me *MalformedError
			if !errors.As(err, &me) {
				t.Fatalf("expected *MalformedError, got %T", err)
			}
			if !strings.Contains(me.Construct, tt.construct) {
				t.Errorf("construct %q does not mention %q", me.Construct, tt.construct)
			}
		})
	}
}

func TestEvalDepth(t *testing.T) {
	in := strings.Repeat("[", DefaultMaxDepth+1) + strings.Repeat("]", DefaultMaxDepth+1)
	if _, err := Eval(in); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
	in = strings.Repeat("[", 10) + strings.Repeat("]", 10)
	if _, err := Parse([]byte(in), ParseMaxDepth(5)); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		in   string
		want *ir.Node
	}{
		{`null`, ir.Null()},
		{`[1, 2.0, "x", true]`, ir.FromList([]*ir.Node{
			ir.FromInt(1), ir.FromFloat(2), ir.FromString("x"), ir.FromBool(true),
		})},
		{`{"a": {"b": []}, "a": -1}`, ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromString("a"), Val: ir.FromInt(-1)},
		})},
		{`[NaN, Infinity, -Infinity]`, ir.FromList([]*ir.Node{
			ir.FromFloat(math.NaN()), ir.FromFloat(math.Inf(1)), ir.FromFloat(math.Inf(-1)),
		})},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse([]byte(tt.in), ParseJSON())
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(got, tt.want) {
				t.Errorf("Parse(%q) gave unexpected tree", tt.in)
			}
		})
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []string{
		``,
		`{"a" 1}`,
		`{1: 2}`,
		`[1,]`,
		`{"a": 1,}`,
		`[1] [2]`,
		`(1, 2)`,
		`'a'`,
		`None`,
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			if _, err := Parse([]byte(in), ParseJSON()); !errors.Is(err, ErrParse) {
				t.Errorf("Parse(%q) = %v, want ErrParse", in, err)
			}
		})
	}
}
