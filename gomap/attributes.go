package gomap

import (
	"reflect"
	"slices"
	"strings"
)

// InternalPrefix marks map keys which are never attributes.
const InternalPrefix = "_packet_"

// object is an attribute holder: a struct (fixed layout) or a map with
// string keys (dynamic layout).
type object struct {
	val    reflect.Value
	fields []*FieldInfo
	keys   []string
}

func objectOf(v reflect.Value, path string) (*object, error) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil, marshalErr(path, nil, "nil %s is not an object", v.Type())
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil, marshalErr(path, nil, "nil is not an object")
	}
	switch v.Kind() {
	case reflect.Struct:
		fields, err := Fields(v.Type())
		if err != nil {
			return nil, marshalErr(path, err, "%s", err)
		}
		return &object{val: v, fields: fields}, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, marshalErr(path, nil, "%s has non string keys", v.Type())
		}
		keys := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			if strings.HasPrefix(k, InternalPrefix) {
				continue
			}
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return &object{val: v, keys: keys}, nil
	}
	return nil, marshalErr(path, nil, "%s is not an object", v.Type())
}

func (o *object) names() []string {
	if o.val.Kind() == reflect.Map {
		return o.keys
	}
	res := make([]string, len(o.fields))
	for i, f := range o.fields {
		res[i] = f.AttrName
	}
	return res
}

func (o *object) len() int {
	if o.val.Kind() == reflect.Map {
		return len(o.keys)
	}
	return len(o.fields)
}

func (o *object) name(i int) string {
	if o.val.Kind() == reflect.Map {
		return o.keys[i]
	}
	return o.fields[i].AttrName
}

func (o *object) get(i int) reflect.Value {
	if o.val.Kind() == reflect.Map {
		return o.val.MapIndex(o.mapKey(i))
	}
	return o.val.FieldByIndex(o.fields[i].Index)
}

// setter returns a function assigning attribute i. Struct objects must be
// addressable.
func (o *object) setter(i int) func(reflect.Value) {
	if o.val.Kind() == reflect.Map {
		k := o.mapKey(i)
		return func(v reflect.Value) { o.val.SetMapIndex(k, v) }
	}
	f := o.val.FieldByIndex(o.fields[i].Index)
	return func(v reflect.Value) { f.Set(v) }
}

func (o *object) mapKey(i int) reflect.Value {
	return reflect.ValueOf(o.keys[i]).Convert(o.val.Type().Key())
}

// Attributes returns the attribute names of v, a struct, a pointer to a
// struct or a map with string keys.
func Attributes(v any) ([]string, error) {
	o, err := objectOf(reflect.ValueOf(v), "")
	if err != nil {
		return nil, err
	}
	return slices.Clone(o.names()), nil
}
