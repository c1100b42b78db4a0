package ir

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToAny(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	tests := []struct {
		name string
		in   *Node
		want any
	}{
		{"null", Null(), nil},
		{"int", FromInt(-7), -7},
		{"float", FromFloat(1.5), 1.5},
		{"complex", FromComplex(1 - 2i), 1 - 2i},
		{"bytes", FromBytes([]byte("ab")), []byte("ab")},
		{"list", FromList([]*Node{FromInt(1), FromString("a")}), []any{1, "a"}},
		{"tuple", FromTuple([]*Node{FromBool(true)}), Tuple{true}},
		{"set", FromSet([]*Node{FromInt(1), FromInt(2)}), NewSet(1, 2)},
		{"dict", FromMap(map[string]*Node{"a": FromInt(1)}), map[string]any{"a": 1}},
		{"int keys",
			FromKeyVals([]KeyVal{{FromInt(1), FromString("one")}}),
			map[any]any{1: "one"}},
		{"tuple value",
			FromKeyVals([]KeyVal{{FromString("k"), FromTuple(nil)}}),
			map[string]any{"k": Tuple{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToAny(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ToAny() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	got, err := ToAny(FromBigInt(huge))
	if err != nil {
		t.Fatal(err)
	}
	if b, ok := got.(*big.Int); !ok || b.Cmp(huge) != 0 {
		t.Errorf("expected *big.Int %s, got %v", huge, got)
	}
}

func TestToAnyUnhashable(t *testing.T) {
	tests := []*Node{
		FromSet([]*Node{FromList(nil)}),
		FromKeyVals([]KeyVal{{FromTuple([]*Node{FromInt(1)}), FromInt(1)}}),
	}
	for _, n := range tests {
		if _, err := ToAny(n); !errors.Is(err, ErrUnhashable) {
			t.Errorf("expected ErrUnhashable for %s, got %v", n.Type, err)
		}
	}
}

func TestFromAny(t *testing.T) {
	in := map[string]any{
		"n":   nil,
		"i":   int8(3),
		"u":   uint64(1 << 63),
		"l":   []any{1.0, "x"},
		"t":   Tuple{1, 2},
		"s":   NewSet(3, 1, 2),
		"m":   map[any]any{2: "b", 1: "a"},
		"raw": []byte{0, 1},
	}
	n, err := FromAny(in)
	if err != nil {
		t.Fatal(err)
	}
	keys := []string{}
	for _, f := range n.Fields {
		keys = append(keys, f.String)
	}
	if diff := cmp.Diff([]string{"i", "l", "m", "n", "raw", "s", "t", "u"}, keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	s := Get(n, "s")
	if s.Type != SetType || len(s.Values) != 3 || s.Values[0].Int.Int64() != 1 {
		t.Errorf("set not sorted: %v", s.Values)
	}
	m := Get(n, "m")
	if m.Fields[0].Int.Int64() != 1 || m.Values[0].String != "a" {
		t.Errorf("map keys not sorted")
	}
	if u := Get(n, "u"); u.Int.String() != "9223372036854775808" {
		t.Errorf("got %s", u.Int)
	}

	if _, err := FromAny(struct{}{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
