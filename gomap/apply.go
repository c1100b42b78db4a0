package gomap

import (
	"fmt"
	"reflect"

	"github.com/signadot/go-packet/codec"
	"github.com/signadot/go-packet/debug"
	"github.com/signadot/go-packet/ir"
)

// planner checks data against a template and records the assignments
// which applying it takes. Nothing is assigned while planning.
type planner struct {
	codec    codec.Codec
	registry *Registry
	plan     []func()
}

// Validate reports whether data, a dict with string keys, can be applied
// to tmpl. tmpl is left untouched. Mismatches result in a *DataError.
func Validate(tmpl any, data *ir.Node, c codec.Codec, opts ...Option) error {
	_, err := planFor(tmpl, data, c, opts)
	return err
}

// Apply assigns data to tmpl, which must be a pointer to a struct or a
// map with string keys. Either every attribute is assigned or, on error,
// none is.
func Apply(tmpl any, data *ir.Node, c codec.Codec, opts ...Option) error {
	p, err := planFor(tmpl, data, c, opts)
	if err != nil {
		return err
	}
	for _, f := range p.plan {
		f()
	}
	return nil
}

func planFor(tmpl any, data *ir.Node, c codec.Codec, opts []Option) (*planner, error) {
	rv := reflect.ValueOf(tmpl)
	switch {
	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
	case rv.Kind() == reflect.Map && !rv.IsNil():
	default:
		return nil, fmt.Errorf("template must be a pointer to a struct or a map, got %T", tmpl)
	}
	o := newOptions(opts)
	p := &planner{codec: c, registry: o.registry}
	if err := p.object(rv, data, ""); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *planner) object(v reflect.Value, data *ir.Node, path string) error {
	o, err := objectOf(v, path)
	if err != nil {
		return err
	}
	if data == nil || data.Type != ir.DictType {
		return dataErr(path, nil, "want an attribute map, got %s", typeName(data))
	}
	byName := make(map[string]*ir.Node, len(data.Fields))
	for i, f := range data.Fields {
		if f.Type != ir.StringType {
			return dataErr(path, nil, "attribute names must be strings, got %s", f.Type)
		}
		byName[f.String] = data.Values[i]
	}
	for i := range o.len() {
		if _, ok := byName[o.name(i)]; !ok {
			return dataErr(fieldPath(path, o.name(i)), nil, "missing attribute")
		}
	}
	if len(byName) != o.len() {
		names := make(map[string]bool, o.len())
		for i := range o.len() {
			names[o.name(i)] = true
		}
		for _, f := range data.Fields {
			if !names[f.String] {
				return dataErr(fieldPath(path, f.String), nil, "unexpected attribute")
			}
		}
	}
	for i := range o.len() {
		name := o.name(i)
		if err := p.value(o.get(i), byName[name], fieldPath(path, name), o.setter(i)); err != nil {
			return err
		}
	}
	return nil
}

// value plans the assignment of data in place of the template value cur.
// set assigns a value of cur's type to wherever cur lives.
func (p *planner) value(cur reflect.Value, data *ir.Node, path string, set func(reflect.Value)) error {
	nilRef := false
	switch cur.Kind() {
	case reflect.Pointer, reflect.Interface:
		nilRef = cur.IsNil()
	}
	if !nilRef {
		if red, ok := p.registry.Lookup(cur.Type()); ok {
			v, err := p.construct(red, data, path)
			if err != nil {
				return err
			}
			p.plan = append(p.plan, func() { set(v) })
			return nil
		}
		switch cur.Kind() {
		case reflect.Interface:
			typ := cur.Type()
			return p.value(cur.Elem(), data, path, func(v reflect.Value) {
				iv := reflect.New(typ).Elem()
				iv.Set(v)
				set(iv)
			})
		case reflect.Pointer:
			if cur.Type() == bigIntPtrType {
				break
			}
			elem := cur.Elem()
			if _, ok := p.registry.Lookup(elem.Type()); ok {
				return p.value(elem, data, path, func(v reflect.Value) {
					np := reflect.New(elem.Type())
					np.Elem().Set(v)
					set(np)
				})
			}
			return p.value(elem, data, path, func(v reflect.Value) { elem.Set(v) })
		}
	}
	if t, ok := valueType(cur); ok && p.codec.Allowed(t) {
		if data == nil || !p.codec.Compatible(t, data.Type) {
			return dataErr(path, nil, "want %s, got %s", t, typeName(data))
		}
		v, err := fromNode(data, cur.Type(), path)
		if err != nil {
			return err
		}
		p.plan = append(p.plan, func() { set(v) })
		return nil
	}
	if cur.Kind() == reflect.Struct {
		if cur.CanAddr() {
			return p.object(cur.Addr(), data, path)
		}
		cp := reflect.New(cur.Type())
		cp.Elem().Set(cur)
		if err := p.object(cp, data, path); err != nil {
			return err
		}
		p.plan = append(p.plan, func() { set(cp.Elem()) })
		return nil
	}
	return marshalErr(path, nil, "%s values are not serializable in %s", cur.Type(), p.codec.Format())
}

func (p *planner) construct(red *Reducer, data *ir.Node, path string) (reflect.Value, error) {
	r, err := reduction(data, path)
	if err != nil {
		return reflect.Value{}, err
	}
	if debug.Reduce() {
		debug.Logf("construct %s at %q: %+v\n", red.Name, path, r)
	}
	v, err := red.Construct(r)
	if err != nil {
		return reflect.Value{}, dataErr(path, err, "constructing %s: %s", red.Name, err)
	}
	return v, nil
}

// reduction reads the wire form [args, state?, items?, dict_items?].
func reduction(data *ir.Node, path string) (Reduction, error) {
	var r Reduction
	if data == nil || (data.Type != ir.ListType && data.Type != ir.TupleType) {
		return r, dataErr(path, nil, "want a reduction sequence, got %s", typeName(data))
	}
	parts := data.Values
	if len(parts) < 1 || len(parts) > 4 {
		return r, dataErr(path, nil, "reduction has %d parts, want 1 to 4", len(parts))
	}
	args, err := sequence(parts[0], fieldPath(path, "args"))
	if err != nil {
		return r, err
	}
	r.Args = args
	if len(parts) > 1 && parts[1].Type != ir.NullType {
		if r.State, err = ir.ToAny(parts[1]); err != nil {
			return r, dataErr(fieldPath(path, "state"), err, "%s", err)
		}
	}
	if len(parts) > 2 && parts[2].Type != ir.NullType {
		if r.Items, err = sequence(parts[2], fieldPath(path, "items")); err != nil {
			return r, err
		}
	}
	if len(parts) > 3 && parts[3].Type != ir.NullType {
		p := fieldPath(path, "dict_items")
		pairs, err := sequence(parts[3], p)
		if err != nil {
			return r, err
		}
		r.DictItems = make([]Item, len(pairs))
		for i, pair := range pairs {
			kv, ok := seqArg(pair)
			if !ok || len(kv) != 2 {
				return r, dataErr(indexPath(p, i), nil, "want a key value pair")
			}
			r.DictItems[i] = Item{Key: kv[0], Value: kv[1]}
		}
	}
	return r, nil
}

func sequence(n *ir.Node, path string) ([]any, error) {
	if n.Type != ir.ListType && n.Type != ir.TupleType {
		return nil, dataErr(path, nil, "want a sequence, got %s", n.Type)
	}
	a, err := ir.ToAny(n)
	if err != nil {
		return nil, dataErr(path, err, "%s", err)
	}
	res, _ := seqArg(a)
	return res, nil
}

func typeName(n *ir.Node) string {
	if n == nil {
		return "nothing"
	}
	return n.Type.String()
}
