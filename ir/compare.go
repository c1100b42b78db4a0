package ir

import (
	"bytes"
	"cmp"
	"math"
	"slices"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// Values of different types order by type; NaN sorts before other floats.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Type != b.Type {
		return cmp.Compare(a.Type, b.Type)
	}
	switch a.Type {
	case NullType:
		return 0
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case IntType:
		return a.Int.Cmp(b.Int)
	case FloatType:
		return compareFloat(a.Float, b.Float)
	case ComplexType:
		if c := compareFloat(real(a.Complex), real(b.Complex)); c != 0 {
			return c
		}
		return compareFloat(imag(a.Complex), imag(b.Complex))
	case StringType:
		return strings.Compare(a.String, b.String)
	case BytesType:
		return bytes.Compare(a.Bytes, b.Bytes)
	case ListType, TupleType, SetType:
		return compareNodes(a.Values, b.Values)
	case DictType:
		if c := compareNodes(a.Fields, b.Fields); c != 0 {
			return c
		}
		return compareNodes(a.Values, b.Values)
	}
	return 0
}

// cmp.Compare already puts NaN first and treats NaNs as equal.
func compareFloat(a, b float64) int {
	if c := cmp.Compare(a, b); c != 0 {
		return c
	}
	// order -0 before +0 so sorting is stable for signed zeros
	return cmp.Compare(boolRank(!math.Signbit(a)), boolRank(!math.Signbit(b)))
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}

func compareNodes(a, b []*Node) int {
	n := min(len(a), len(b))
	for i := range n {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// SortNodes sorts nodes in place by Compare.
func SortNodes(ns []*Node) {
	slices.SortFunc(ns, Compare)
}

// Equal reports whether a and b hold the same value. NaNs are equal to
// each other, sets compare without regard to order and dicts compare by
// key.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case SetType:
		return sameElements(a.Values, b.Values)
	case DictType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i, k := range a.Fields {
			j := slices.IndexFunc(b.Fields, func(bk *Node) bool { return Equal(k, bk) })
			if j == -1 || !Equal(a.Values[i], b.Values[j]) {
				return false
			}
		}
		return true
	case ListType, TupleType:
		return slices.EqualFunc(a.Values, b.Values, Equal)
	case FloatType:
		return floatEqual(a.Float, b.Float)
	case ComplexType:
		return floatEqual(real(a.Complex), real(b.Complex)) &&
			floatEqual(imag(a.Complex), imag(b.Complex))
	default:
		return Compare(a, b) == 0
	}
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

func sameElements(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for j, y := range b {
			if !used[j] && Equal(x, y) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}
