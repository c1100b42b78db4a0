package ir

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
)

// Tuple is the natural Go value of a TupleType node.
type Tuple []any

// Set is the natural Go value of a SetType node.
type Set map[any]struct{}

func NewSet(vs ...any) Set {
	s := make(Set, len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}

// ToAny maps a node to natural Go values:
//
//	null     nil
//	bool     bool
//	int      int, or *big.Int when out of range
//	float    float64
//	complex  complex128
//	string   string
//	bytes    []byte
//	list     []any
//	tuple    Tuple
//	set      Set
//	dict     map[string]any when all keys are strings, else map[any]any
//
// Set elements and dict keys which have no comparable Go value result in
// ErrUnhashable.
func ToAny(node *Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Type {
	case NullType:
		return nil, nil
	case BoolType:
		return node.Bool, nil
	case IntType:
		if node.Int.IsInt64() {
			i64 := node.Int.Int64()
			if i64 >= math.MinInt && i64 <= math.MaxInt {
				return int(i64), nil
			}
		}
		return new(big.Int).Set(node.Int), nil
	case FloatType:
		return node.Float, nil
	case ComplexType:
		return node.Complex, nil
	case StringType:
		return node.String, nil
	case BytesType:
		return slices.Clone(node.Bytes), nil
	case ListType, TupleType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			a, err := ToAny(v)
			if err != nil {
				return nil, err
			}
			res[i] = a
		}
		if node.Type == TupleType {
			return Tuple(res), nil
		}
		return res, nil
	case SetType:
		res := make(Set, len(node.Values))
		for _, v := range node.Values {
			a, err := hashable(v)
			if err != nil {
				return nil, err
			}
			res[a] = struct{}{}
		}
		return res, nil
	case DictType:
		if node.StringKeys() {
			res := make(map[string]any, len(node.Fields))
			for i, f := range node.Fields {
				a, err := ToAny(node.Values[i])
				if err != nil {
					return nil, err
				}
				res[f.String] = a
			}
			return res, nil
		}
		res := make(map[any]any, len(node.Fields))
		for i, f := range node.Fields {
			k, err := hashable(f)
			if err != nil {
				return nil, err
			}
			a, err := ToAny(node.Values[i])
			if err != nil {
				return nil, err
			}
			res[k] = a
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: node type %s", ErrUnsupported, node.Type)
}

func hashable(node *Node) (any, error) {
	a, err := ToAny(node)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	if !reflect.TypeOf(a).Comparable() {
		return nil, fmt.Errorf("%w: %s", ErrUnhashable, node.Type)
	}
	return a, nil
}

// FromAny is the inverse of ToAny. It also accepts the other sized
// numeric Go types. Set elements and keys of maps other than
// map[string]any are sorted with Compare so that output is deterministic.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x.Clone(), nil
	case bool:
		return FromBool(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return FromUint(uint64(x)), nil
	case uint8:
		return FromUint(uint64(x)), nil
	case uint16:
		return FromUint(uint64(x)), nil
	case uint32:
		return FromUint(uint64(x)), nil
	case uint64:
		return FromUint(x), nil
	case *big.Int:
		if x == nil {
			return Null(), nil
		}
		return FromBigInt(x), nil
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case complex64:
		return FromComplex(complex128(x)), nil
	case complex128:
		return FromComplex(x), nil
	case string:
		return FromString(x), nil
	case []byte:
		return FromBytes(slices.Clone(x)), nil
	case []any:
		vs, err := fromAnys(x)
		if err != nil {
			return nil, err
		}
		return FromList(vs), nil
	case Tuple:
		vs, err := fromAnys(x)
		if err != nil {
			return nil, err
		}
		return FromTuple(vs), nil
	case Set:
		vs := make([]*Node, 0, len(x))
		for e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			vs = append(vs, n)
		}
		SortNodes(vs)
		return FromSet(vs), nil
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return FromMap(m), nil
	case map[any]any:
		kvs := make([]KeyVal, 0, len(x))
		for k, e := range x {
			kn, err := FromAny(k)
			if err != nil {
				return nil, err
			}
			vn, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, KeyVal{Key: kn, Val: vn})
		}
		slices.SortFunc(kvs, func(a, b KeyVal) int { return Compare(a.Key, b.Key) })
		return FromKeyVals(kvs), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func fromAnys(x []any) ([]*Node, error) {
	vs := make([]*Node, len(x))
	for i, e := range x {
		n, err := FromAny(e)
		if err != nil {
			return nil, err
		}
		vs[i] = n
	}
	return vs, nil
}
