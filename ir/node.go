package ir

import (
	"maps"
	"math/big"
	"slices"
)

type Node struct {
	Type   Type
	Fields []*Node
	Values []*Node

	String  string
	Bytes   []byte
	Bool    bool
	Int     *big.Int
	Float   float64
	Complex complex128
}

func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	dst := &Node{
		Type:    y.Type,
		String:  y.String,
		Bool:    y.Bool,
		Float:   y.Float,
		Complex: y.Complex,
	}
	if y.Bytes != nil {
		dst.Bytes = slices.Clone(y.Bytes)
	}
	if y.Int != nil {
		dst.Int = new(big.Int).Set(y.Int)
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
		for i, f := range y.Fields {
			dst.Fields[i] = f.Clone()
		}
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			dst.Values[i] = v.Clone()
		}
	}
	return dst
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: IntType, Int: big.NewInt(v)}
}

func FromUint(v uint64) *Node {
	return &Node{Type: IntType, Int: new(big.Int).SetUint64(v)}
}

func FromBigInt(v *big.Int) *Node {
	return &Node{Type: IntType, Int: new(big.Int).Set(v)}
}

func FromFloat(f float64) *Node {
	return &Node{Type: FloatType, Float: f}
}

func FromComplex(c complex128) *Node {
	return &Node{Type: ComplexType, Complex: c}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromBytes(v []byte) *Node {
	if v == nil {
		v = []byte{}
	}
	return &Node{Type: BytesType, Bytes: v}
}

func FromList(vs []*Node) *Node {
	return fromSeq(ListType, vs)
}

func FromTuple(vs []*Node) *Node {
	return fromSeq(TupleType, vs)
}

// FromSet creates a set node. Elements are kept in the given order; callers
// producing sets from Go maps sort them first (see SortNodes).
func FromSet(vs []*Node) *Node {
	return fromSeq(SetType, vs)
}

func fromSeq(t Type, vs []*Node) *Node {
	if vs == nil {
		vs = []*Node{}
	}
	return &Node{Type: t, Values: vs}
}

type KeyVal struct {
	Key *Node
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   DictType,
		Fields: make([]*Node, len(kvs)),
		Values: make([]*Node, len(kvs)),
	}
	for i := range kvs {
		res.Fields[i] = kvs[i].Key
		res.Values[i] = kvs[i].Val
	}
	return res
}

// FromMap creates a dict node with string keys in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(yMap))
	kvs := make([]KeyVal, len(keys))
	for i, key := range keys {
		kvs[i] = KeyVal{Key: FromString(key), Val: yMap[key]}
	}
	return FromKeyVals(kvs)
}

// ToMap returns the string keyed entries of a dict node, or nil if node is
// not a dict.
func ToMap(node *Node) map[string]*Node {
	if node == nil || node.Type != DictType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i, field := range node.Fields {
		if field.Type != StringType {
			continue
		}
		res[field.String] = node.Values[i]
	}
	return res
}

// Get returns the value of the string key field of a dict node.
func Get(y *Node, field string) *Node {
	if y == nil || y.Type != DictType {
		return nil
	}
	for i := len(y.Fields) - 1; i >= 0; i-- {
		f := y.Fields[i]
		if f.Type == StringType && f.String == field {
			return y.Values[i]
		}
	}
	return nil
}

// StringKeys reports whether all keys of a dict node, at any depth, are
// strings.
func (y *Node) StringKeys() bool {
	ok := true
	y.Visit(func(n *Node) bool {
		if n == nil || n.Type != DictType {
			return true
		}
		for _, f := range n.Fields {
			if f.Type != StringType {
				ok = false
				return false
			}
		}
		return true
	})
	return ok
}

// Visit calls f on y and, while f returns true, on its keys and values.
func (y *Node) Visit(f func(*Node) bool) {
	if !f(y) {
		return
	}
	for _, k := range y.Fields {
		k.Visit(f)
	}
	for _, v := range y.Values {
		v.Visit(f)
	}
}
