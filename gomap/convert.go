package gomap

import (
	"math"
	"math/big"
	"reflect"
	"slices"

	"github.com/signadot/go-packet/ir"
)

var (
	bigIntType    = reflect.TypeFor[big.Int]()
	bigIntPtrType = reflect.TypeFor[*big.Int]()
	tupleType     = reflect.TypeFor[ir.Tuple]()
	emptyStruct   = reflect.TypeFor[struct{}]()
)

// valueType is the ir.Type a Go value maps to. ok is false for values
// with no primitive mapping.
func valueType(v reflect.Value) (ir.Type, bool) {
	if !v.IsValid() {
		return ir.NullType, true
	}
	switch v.Type() {
	case bigIntType:
		return ir.IntType, true
	case bigIntPtrType:
		if v.IsNil() {
			return ir.NullType, true
		}
		return ir.IntType, true
	case tupleType:
		return ir.TupleType, true
	}
	switch v.Kind() {
	case reflect.Bool:
		return ir.BoolType, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.IntType, true
	case reflect.Float32, reflect.Float64:
		return ir.FloatType, true
	case reflect.Complex64, reflect.Complex128:
		return ir.ComplexType, true
	case reflect.String:
		return ir.StringType, true
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return ir.BytesType, true
		}
		return ir.ListType, true
	case reflect.Array:
		return ir.TupleType, true
	case reflect.Map:
		if isSetType(v.Type()) {
			return ir.SetType, true
		}
		return ir.DictType, true
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return ir.NullType, true
		}
		return valueType(v.Elem())
	}
	return 0, false
}

func isSetType(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem() == emptyStruct
}

// toNode converts a primitive value. Everything reachable from v must be
// primitive and allowed by c.
func (s *serializer) toNode(v reflect.Value, path string) (*ir.Node, error) {
	t, ok := valueType(v)
	if !ok {
		return nil, marshalErr(path, nil, "%s has no primitive form", v.Type())
	}
	if !s.codec.Allowed(t) {
		return nil, marshalErr(path, nil, "%s values are not allowed in %s", t, s.codec.Format())
	}
	if t == ir.NullType {
		return ir.Null(), nil
	}
	switch v.Type() {
	case bigIntType:
		x := v.Interface().(big.Int)
		return ir.FromBigInt(&x), nil
	case bigIntPtrType:
		return ir.FromBigInt(v.Interface().(*big.Int)), nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.Kind() == reflect.Pointer {
			leave, err := s.enter(v, path)
			if err != nil {
				return nil, err
			}
			defer leave()
		}
		return s.toNode(v.Elem(), path)
	case reflect.Bool:
		return ir.FromBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.FromUint(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(v.Float()), nil
	case reflect.Complex64, reflect.Complex128:
		return ir.FromComplex(v.Complex()), nil
	case reflect.String:
		return ir.FromString(v.String()), nil
	case reflect.Slice, reflect.Array:
		if t == ir.BytesType {
			return ir.FromBytes(slices.Clone(v.Bytes())), nil
		}
		if v.Kind() == reflect.Slice && v.Len() > 0 {
			leave, err := s.enter(v, path)
			if err != nil {
				return nil, err
			}
			defer leave()
		}
		vs := make([]*ir.Node, v.Len())
		for i := range vs {
			n, err := s.toNode(v.Index(i), indexPath(path, i))
			if err != nil {
				return nil, err
			}
			vs[i] = n
		}
		if t == ir.TupleType {
			return ir.FromTuple(vs), nil
		}
		return ir.FromList(vs), nil
	case reflect.Map:
		leave, err := s.enter(v, path)
		if err != nil {
			return nil, err
		}
		defer leave()
		if t == ir.SetType {
			vs := make([]*ir.Node, 0, v.Len())
			iter := v.MapRange()
			for iter.Next() {
				n, err := s.toNode(iter.Key(), path)
				if err != nil {
					return nil, err
				}
				vs = append(vs, n)
			}
			ir.SortNodes(vs)
			return ir.FromSet(vs), nil
		}
		kvs := make([]ir.KeyVal, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k, err := s.toNode(iter.Key(), path)
			if err != nil {
				return nil, err
			}
			val, err := s.toNode(iter.Value(), fieldPath(path, k.String))
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: k, Val: val})
		}
		slices.SortFunc(kvs, func(a, b ir.KeyVal) int { return ir.Compare(a.Key, b.Key) })
		return ir.FromKeyVals(kvs), nil
	}
	return nil, marshalErr(path, nil, "%s has no primitive form", v.Type())
}

// fromNode converts n into a value of type typ, the Go type found in the
// template. Interface types receive natural values (see ir.ToAny).
func fromNode(n *ir.Node, typ reflect.Type, path string) (reflect.Value, error) {
	if n == nil {
		return reflect.Value{}, dataErr(path, nil, "missing value")
	}
	switch typ {
	case bigIntType, bigIntPtrType:
		if n.Type != ir.IntType {
			return cannot(n, typ, path)
		}
		x := new(big.Int).Set(n.Int)
		if typ == bigIntType {
			return reflect.ValueOf(x).Elem(), nil
		}
		return reflect.ValueOf(x), nil
	}
	switch typ.Kind() {
	case reflect.Interface:
		a, err := ir.ToAny(n)
		if err != nil {
			return reflect.Value{}, dataErr(path, err, "%s", err)
		}
		if a == nil {
			return reflect.Zero(typ), nil
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(typ) {
			return cannot(n, typ, path)
		}
		res := reflect.New(typ).Elem()
		res.Set(v)
		return res, nil
	case reflect.Pointer:
		if n.Type == ir.NullType {
			return reflect.Zero(typ), nil
		}
		elem, err := fromNode(n, typ.Elem(), path)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(typ.Elem())
		p.Elem().Set(elem)
		return p, nil
	}
	res := reflect.New(typ).Elem()
	switch n.Type {
	case ir.NullType:
		switch typ.Kind() {
		case reflect.Slice, reflect.Map:
			return res, nil
		}
	case ir.BoolType:
		if typ.Kind() == reflect.Bool {
			res.SetBool(n.Bool)
			return res, nil
		}
	case ir.IntType:
		switch typ.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if !n.Int.IsInt64() || res.OverflowInt(n.Int.Int64()) {
				return reflect.Value{}, dataErr(path, nil, "%s overflows %s", n.Int, typ)
			}
			res.SetInt(n.Int.Int64())
			return res, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if !n.Int.IsUint64() || res.OverflowUint(n.Int.Uint64()) {
				return reflect.Value{}, dataErr(path, nil, "%s overflows %s", n.Int, typ)
			}
			res.SetUint(n.Int.Uint64())
			return res, nil
		}
	case ir.FloatType:
		switch typ.Kind() {
		case reflect.Float32, reflect.Float64:
			if !math.IsInf(n.Float, 0) && res.OverflowFloat(n.Float) {
				return reflect.Value{}, dataErr(path, nil, "%v overflows %s", n.Float, typ)
			}
			res.SetFloat(n.Float)
			return res, nil
		}
	case ir.ComplexType:
		switch typ.Kind() {
		case reflect.Complex64, reflect.Complex128:
			res.SetComplex(n.Complex)
			return res, nil
		}
	case ir.StringType:
		if typ.Kind() == reflect.String {
			res.SetString(n.String)
			return res, nil
		}
	case ir.BytesType:
		if typ.Kind() == reflect.Slice && typ.Elem().Kind() == reflect.Uint8 {
			res.SetBytes(slices.Clone(n.Bytes))
			return res, nil
		}
	case ir.ListType, ir.TupleType:
		switch typ.Kind() {
		case reflect.Slice:
			res = reflect.MakeSlice(typ, len(n.Values), len(n.Values))
		case reflect.Array:
			if typ.Len() != len(n.Values) {
				return reflect.Value{}, dataErr(path, nil, "want %d elements, got %d", typ.Len(), len(n.Values))
			}
		default:
			return cannot(n, typ, path)
		}
		for i, e := range n.Values {
			v, err := fromNode(e, typ.Elem(), indexPath(path, i))
			if err != nil {
				return reflect.Value{}, err
			}
			res.Index(i).Set(v)
		}
		return res, nil
	case ir.SetType:
		if !isSetType(typ) {
			return cannot(n, typ, path)
		}
		res = reflect.MakeMapWithSize(typ, len(n.Values))
		for _, e := range n.Values {
			k, err := mapKey(e, typ, path)
			if err != nil {
				return reflect.Value{}, err
			}
			res.SetMapIndex(k, reflect.Zero(emptyStruct))
		}
		return res, nil
	case ir.DictType:
		if typ.Kind() != reflect.Map || isSetType(typ) {
			return cannot(n, typ, path)
		}
		res = reflect.MakeMapWithSize(typ, len(n.Fields))
		for i, f := range n.Fields {
			k, err := mapKey(f, typ, path)
			if err != nil {
				return reflect.Value{}, err
			}
			p := path
			if f.Type == ir.StringType {
				p = fieldPath(path, f.String)
			}
			v, err := fromNode(n.Values[i], typ.Elem(), p)
			if err != nil {
				return reflect.Value{}, err
			}
			res.SetMapIndex(k, v)
		}
		return res, nil
	}
	return cannot(n, typ, path)
}

func mapKey(n *ir.Node, mapType reflect.Type, path string) (reflect.Value, error) {
	k, err := fromNode(n, mapType.Key(), path)
	if err != nil {
		return reflect.Value{}, err
	}
	if k.Kind() == reflect.Interface && !k.IsNil() && !k.Elem().Type().Comparable() {
		return reflect.Value{}, dataErr(path, nil, "unhashable %s key", n.Type)
	}
	return k, nil
}

func cannot(n *ir.Node, typ reflect.Type, path string) (reflect.Value, error) {
	return reflect.Value{}, dataErr(path, nil, "cannot use %s as %s", n.Type, typ)
}

