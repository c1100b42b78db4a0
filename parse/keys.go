package parse

import (
	"math"
	"math/big"

	"github.com/signadot/go-packet/ir"
)

// dictBuilder keeps the first position of a key and the last value given
// for it.
type dictBuilder struct {
	kvs []ir.KeyVal
}

func (d *dictBuilder) add(k, v *ir.Node) {
	for i := range d.kvs {
		if keyEqual(d.kvs[i].Key, k) {
			d.kvs[i].Val = v
			return
		}
	}
	d.kvs = append(d.kvs, ir.KeyVal{Key: k, Val: v})
}

func (d *dictBuilder) node() *ir.Node {
	return ir.FromKeyVals(d.kvs)
}

type setBuilder struct {
	vs []*ir.Node
}

func (s *setBuilder) add(v *ir.Node) {
	for _, e := range s.vs {
		if keyEqual(e, v) {
			return
		}
	}
	s.vs = append(s.vs, v)
}

func (s *setBuilder) node() *ir.Node {
	return ir.FromSet(s.vs)
}

// hashable reports whether n may be a set element or dict key: scalars,
// and tuples of hashable values.
func hashable(n *ir.Node) bool {
	switch n.Type {
	case ir.ListType, ir.SetType, ir.DictType:
		return false
	case ir.TupleType:
		for _, v := range n.Values {
			if !hashable(v) {
				return false
			}
		}
	}
	return true
}

// keyEqual is equality of keys: numbers compare by value across bool,
// int, float and complex, and NaN equals nothing.
func keyEqual(a, b *ir.Node) bool {
	ra, ia, aNum := numParts(a)
	rb, ib, bNum := numParts(b)
	if aNum || bNum {
		if ra == nil || rb == nil {
			return false
		}
		return ra.Cmp(rb) == 0 && ia == ib
	}
	if a.Type != b.Type {
		return false
	}
	if a.Type == ir.TupleType {
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !keyEqual(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	}
	return ir.Compare(a, b) == 0
}

// numParts returns the real and imaginary parts of a numeric node. The
// real part is nil when either part is NaN.
func numParts(n *ir.Node) (*big.Float, float64, bool) {
	switch n.Type {
	case ir.BoolType:
		if n.Bool {
			return big.NewFloat(1), 0, true
		}
		return big.NewFloat(0), 0, true
	case ir.IntType:
		return new(big.Float).SetInt(n.Int), 0, true
	case ir.FloatType:
		if math.IsNaN(n.Float) {
			return nil, 0, true
		}
		return big.NewFloat(n.Float), 0, true
	case ir.ComplexType:
		re, im := real(n.Complex), imag(n.Complex)
		if math.IsNaN(re) || math.IsNaN(im) {
			return nil, 0, true
		}
		return big.NewFloat(re), im, true
	}
	return nil, 0, false
}
