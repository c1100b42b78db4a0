package gomap

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// FieldInfo describes one attribute of a struct type.
type FieldInfo struct {
	// Name is the Go field name.
	Name string
	// AttrName is the attribute name, the field name unless renamed by tag.
	AttrName string
	// Index is the reflect index path of the field, through flattened
	// embedded structs.
	Index []int
	Type  reflect.Type
}

// FieldLister lets a struct type declare its attribute names and their
// order. Every name must be an attribute of the type.
type FieldLister interface {
	PacketFields() []string
}

type fieldsResult struct {
	fields []*FieldInfo
	err    error
}

var fieldCache sync.Map // reflect.Type -> *fieldsResult

var (
	mutexType     = reflect.TypeFor[sync.Mutex]()
	rwMutexType   = reflect.TypeFor[sync.RWMutex]()
	onceType      = reflect.TypeFor[sync.Once]()
	waitGroupType = reflect.TypeFor[sync.WaitGroup]()
	listerType    = reflect.TypeFor[FieldLister]()
)

// Fields returns the attributes of struct type typ. Results are computed
// once per type.
func Fields(typ reflect.Type) ([]*FieldInfo, error) {
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct type", typ)
	}
	if r, ok := fieldCache.Load(typ); ok {
		res := r.(*fieldsResult)
		return res.fields, res.err
	}
	fields, err := getStructFields(typ)
	if err == nil {
		fields, err = listedFields(typ, fields)
	}
	r, _ := fieldCache.LoadOrStore(typ, &fieldsResult{fields: fields, err: err})
	res := r.(*fieldsResult)
	return res.fields, res.err
}

func getStructFields(typ reflect.Type) ([]*FieldInfo, error) {
	var fields []*FieldInfo
	seen := map[string]string{}
	var walk func(t reflect.Type, index []int) error
	walk = func(t reflect.Type, index []int) error {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			fieldIndex := append(index[:len(index):len(index)], i)
			tag, err := ParseStructTag(field.Tag.Get("packet"))
			if err != nil {
				return fmt.Errorf("field %s.%s: %w", t, field.Name, err)
			}
			if _, ok := tag["-"]; ok {
				continue
			}
			name, renamed := tag["field"]
			if field.Anonymous && !renamed && field.Type.Kind() == reflect.Struct && !isBookkeeping(field.Type) {
				if err := walk(field.Type, fieldIndex); err != nil {
					return err
				}
				continue
			}
			if !field.IsExported() || skipType(field.Type) {
				continue
			}
			if !renamed {
				name = field.Name
			}
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("attribute %q of %s declared by both %s and %s", name, typ, prev, field.Name)
			}
			seen[name] = field.Name
			fields = append(fields, &FieldInfo{
				Name:     field.Name,
				AttrName: name,
				Index:    fieldIndex,
				Type:     field.Type,
			})
		}
		return nil
	}
	if err := walk(typ, nil); err != nil {
		return nil, err
	}
	return fields, nil
}

func listedFields(typ reflect.Type, fields []*FieldInfo) ([]*FieldInfo, error) {
	ptr := reflect.PointerTo(typ)
	if !ptr.Implements(listerType) {
		return fields, nil
	}
	names := reflect.New(typ).Interface().(FieldLister).PacketFields()
	byName := make(map[string]*FieldInfo, len(fields))
	for _, f := range fields {
		byName[f.AttrName] = f
	}
	res := make([]*FieldInfo, 0, len(names))
	for _, name := range names {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%s lists unknown attribute %q", typ, name)
		}
		delete(byName, name)
		res = append(res, f)
	}
	return res, nil
}

func skipType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	case reflect.Pointer:
		return isBookkeeping(t.Elem())
	}
	return isBookkeeping(t)
}

func isBookkeeping(t reflect.Type) bool {
	switch t {
	case mutexType, rwMutexType, onceType, waitGroupType:
		return true
	}
	return false
}

// ParseStructTag parses a packet struct tag. Parts are comma separated
// flags or key=value pairs. A leading part which is neither is the
// attribute name, so `packet:"name"` and `packet:"field=name"` agree, and
// `packet:"-"` excludes the field.
func ParseStructTag(tag string) (map[string]string, error) {
	res := map[string]string{}
	if tag == "" {
		return res, nil
	}
	for i, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")
		switch {
		case hasVal:
			if key == "" {
				return nil, fmt.Errorf("empty key in tag %q", tag)
			}
			res[key] = strings.Trim(val, "'")
		case key == "-":
			res["-"] = ""
		case i == 0:
			res["field"] = key
		default:
			res[key] = ""
		}
	}
	if name, ok := res["field"]; ok && name == "" {
		return nil, fmt.Errorf("empty field name in tag %q", tag)
	}
	return res, nil
}
