package gomap

import (
	"reflect"

	"github.com/signadot/go-packet/codec"
	"github.com/signadot/go-packet/debug"
	"github.com/signadot/go-packet/ir"
)

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

type serializer struct {
	codec    codec.Codec
	registry *Registry
	visited  map[visitKey]string
}

// Serialize returns the attribute map of v, a struct, a pointer to a
// struct or a map with string keys, as a dict node with string keys.
// Values which c cannot carry result in a *MarshalError.
func Serialize(v any, c codec.Codec, opts ...Option) (*ir.Node, error) {
	o := newOptions(opts)
	s := &serializer{
		codec:    c,
		registry: o.registry,
		visited:  map[visitKey]string{},
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		leave, err := s.enter(rv, "")
		if err != nil {
			return nil, err
		}
		defer leave()
	}
	return s.object(rv, "")
}

// enter marks v as being serialized until the returned function is
// called. Reaching v again before that is a cycle.
func (s *serializer) enter(v reflect.Value, path string) (func(), error) {
	k := visitKey{ptr: v.Pointer(), typ: v.Type()}
	if prev, ok := s.visited[k]; ok {
		if prev == "" {
			prev = "root"
		}
		return nil, marshalErr(path, nil, "circular reference detected: %s refers back to %s", v.Type(), prev)
	}
	s.visited[k] = path
	return func() { delete(s.visited, k) }, nil
}

func (s *serializer) object(v reflect.Value, path string) (*ir.Node, error) {
	o, err := objectOf(v, path)
	if err != nil {
		return nil, err
	}
	kvs := make([]ir.KeyVal, o.len())
	for i := range kvs {
		name := o.name(i)
		n, err := s.value(o.get(i), fieldPath(path, name))
		if err != nil {
			return nil, err
		}
		kvs[i] = ir.KeyVal{Key: ir.FromString(name), Val: n}
	}
	return ir.FromKeyVals(kvs), nil
}

func (s *serializer) value(v reflect.Value, path string) (*ir.Node, error) {
	if !v.IsValid() {
		return s.toNode(v, path)
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return s.toNode(v, path)
		}
	}
	if red, ok := s.registry.Lookup(v.Type()); ok {
		return s.reduce(red, v, path)
	}
	switch v.Kind() {
	case reflect.Interface:
		return s.value(v.Elem(), path)
	case reflect.Pointer:
		if v.Type() == bigIntPtrType {
			break
		}
		leave, err := s.enter(v, path)
		if err != nil {
			return nil, err
		}
		defer leave()
		return s.value(v.Elem(), path)
	}
	if t, ok := valueType(v); ok && s.codec.Allowed(t) {
		return s.toNode(v, path)
	}
	if v.Kind() == reflect.Struct {
		return s.object(v, path)
	}
	return nil, marshalErr(path, nil, "%s values are not serializable in %s", v.Type(), s.codec.Format())
}

func (s *serializer) reduce(red *Reducer, v reflect.Value, path string) (*ir.Node, error) {
	r, err := red.Reduce(v)
	if err != nil {
		return nil, marshalErr(path, err, "reducing %s: %s", red.Name, err)
	}
	if debug.Reduce() {
		debug.Logf("reduce %s at %q: %+v\n", red.Name, path, r)
	}
	args := make([]*ir.Node, len(r.Args))
	for i, a := range r.Args {
		n, err := s.toNode(reflect.ValueOf(a), indexPath(fieldPath(path, "args"), i))
		if err != nil {
			return nil, err
		}
		args[i] = n
	}
	parts := []*ir.Node{ir.FromTuple(args)}
	var state, items, dictItems *ir.Node
	if r.State != nil {
		if state, err = s.toNode(reflect.ValueOf(r.State), fieldPath(path, "state")); err != nil {
			return nil, err
		}
	}
	if r.Items != nil {
		vs := make([]*ir.Node, len(r.Items))
		for i, x := range r.Items {
			if vs[i], err = s.toNode(reflect.ValueOf(x), indexPath(fieldPath(path, "items"), i)); err != nil {
				return nil, err
			}
		}
		items = ir.FromList(vs)
	}
	if r.DictItems != nil {
		vs := make([]*ir.Node, len(r.DictItems))
		for i, it := range r.DictItems {
			p := indexPath(fieldPath(path, "dict_items"), i)
			k, err := s.toNode(reflect.ValueOf(it.Key), p)
			if err != nil {
				return nil, err
			}
			val, err := s.toNode(reflect.ValueOf(it.Value), p)
			if err != nil {
				return nil, err
			}
			vs[i] = ir.FromTuple([]*ir.Node{k, val})
		}
		dictItems = ir.FromList(vs)
	}
	optional := []*ir.Node{state, items, dictItems}
	last := -1
	for i, n := range optional {
		if n != nil {
			last = i
		}
	}
	for _, n := range optional[:last+1] {
		if n == nil {
			n = ir.Null()
		}
		parts = append(parts, n)
	}
	return ir.FromList(parts), nil
}
