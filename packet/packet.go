// Package packet exchanges tagged Go objects as self describing byte
// messages.
//
// A Packet binds a root object, whose attributes are set when the packet
// is made, to a codec, an optional compression and an optional cipher.
// Dumps writes the envelope {Tag: AttributeMap}. Loads reads one back into
// the root, checking every attribute against the root's current values
// before assigning any of them.
//
//	type Ping struct {
//		Seq  int
//		Sent time.Time
//	}
//
//	p, err := packet.New(&Ping{}, packet.WithFormat(format.JSONFormat))
//	...
//	d, err := p.Dumps() // {"Ping": {"Seq": 0, "Sent": [[...], [...]]}}
package packet

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/signadot/go-packet/codec"
	"github.com/signadot/go-packet/compress"
	"github.com/signadot/go-packet/crypt"
	"github.com/signadot/go-packet/debug"
	"github.com/signadot/go-packet/gomap"
	"github.com/signadot/go-packet/ir"
)

// Tagger lets a root type choose its tag, which is otherwise its type
// name.
type Tagger interface {
	PacketTag() string
}

type Packet struct {
	mu   sync.Mutex
	root reflect.Value // pointer to struct, or map[string]any

	tag    string
	attrs  []string
	fields map[string]*gomap.FieldInfo // nil for map roots

	codec       codec.Codec
	cipher      crypt.Cipher
	compression compress.Compression
	registry    *gomap.Registry
	recvSize    int
}

// New makes a packet of root, a non-nil pointer to a struct. The fields
// of root at this point fix the packet's attributes and their types.
func New(root any, opts ...Option) (*Packet, error) {
	rv := reflect.ValueOf(root)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("packet root must be a non-nil pointer to a struct, got %T", root)
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	tag := o.tag
	if tag == "" {
		if t, ok := root.(Tagger); ok {
			tag = t.PacketTag()
		} else {
			tag = rv.Elem().Type().Name()
		}
	}
	fields, err := gomap.Fields(rv.Elem().Type())
	if err != nil {
		return nil, err
	}
	p := &Packet{root: rv, fields: make(map[string]*gomap.FieldInfo, len(fields))}
	for _, f := range fields {
		p.attrs = append(p.attrs, f.AttrName)
		p.fields[f.AttrName] = f
	}
	return p.init(tag, o)
}

func (p *Packet) init(tag string, o *options) (*Packet, error) {
	if tag == "" {
		return nil, fmt.Errorf("packet of %s has no tag", p.root.Type())
	}
	p.tag = tag
	if err := o.apply(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Packet) Tag() string {
	return p.tag
}

// Attributes returns the attribute names in wire order.
func (p *Packet) Attributes() []string {
	return slices.Clone(p.attrs)
}

func (p *Packet) Codec() codec.Codec {
	return p.codec
}

// Dumps returns the wire form of the packet.
func (p *Packet) Dumps() ([]byte, error) {
	p.mu.Lock()
	node, err := gomap.Serialize(p.root.Interface(), p.codec, gomap.WithRegistry(p.registry))
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	env := ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString(p.tag), Val: node}})
	if debug.Dumps() {
		debug.Logf("dumps %s\n", debug.Node{Node: env})
	}
	d, err := p.codec.Dumps(env)
	if err != nil {
		return nil, err
	}
	if d, err = compress.Compress(d, p.compression); err != nil {
		return nil, err
	}
	return p.cipher.Encrypt(d)
}

// Loads assigns the packet from its wire form. On error the root is left
// unchanged.
func (p *Packet) Loads(d []byte) error {
	plain, err := p.cipher.Decrypt(d)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownEncryption, err)
	}
	raw, err := compress.Decompress(plain, p.compression)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownPacket, err)
	}
	env, err := p.codec.Loads(raw)
	if err != nil {
		return err
	}
	if debug.Loads() {
		debug.Logf("loads %s\n", debug.Node{Node: env})
	}
	if env.Type != ir.DictType {
		return fmt.Errorf("%w: envelope is a %s, not a dict", ErrUnknownPacket, env.Type)
	}
	if len(env.Fields) != 1 {
		return fmt.Errorf("%w: envelope has %d keys", ErrInvalidData, len(env.Fields))
	}
	if k := env.Fields[0]; k.Type != ir.StringType || k.String != p.tag {
		return fmt.Errorf("%w: envelope tag %s, want %q", ErrInvalidData, debug.Node{Node: k}, p.tag)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return gomap.Apply(p.root.Interface(), env.Values[0], p.codec, gomap.WithRegistry(p.registry))
}

// Set assigns attribute name. v must be assignable to the attribute's
// type.
func (p *Packet) Set(name string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fields == nil {
		if !slices.Contains(p.attrs, name) {
			return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
		}
		p.root.SetMapIndex(reflect.ValueOf(name), valueOf(v, p.root.Type().Elem()))
		return nil
	}
	f, ok := p.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	rv := valueOf(v, f.Type)
	if !rv.IsValid() || !rv.Type().AssignableTo(f.Type) {
		return fmt.Errorf("cannot assign %T to attribute %q of type %s", v, name, f.Type)
	}
	p.root.Elem().FieldByIndex(f.Index).Set(rv)
	return nil
}

// valueOf is v as a reflect.Value, with nil standing for the zero value
// of nillable types only.
func valueOf(v any, typ reflect.Type) reflect.Value {
	if v != nil {
		return reflect.ValueOf(v)
	}
	switch typ.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return reflect.Zero(typ)
	}
	return reflect.Value{}
}

// Get returns the value of attribute name. Slices and maps are returned
// as shallow copies, so changing them does not change the packet; values
// behind pointers are shared.
func (p *Packet) Get(name string) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fields == nil {
		if !slices.Contains(p.attrs, name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
		}
		v := p.root.MapIndex(reflect.ValueOf(name))
		if v.IsValid() && v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		return detach(v), nil
	}
	f, ok := p.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return detach(p.root.Elem().FieldByIndex(f.Index)), nil
}

// detach copies the top level of slices and maps.
func detach(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			break
		}
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(cp, v)
		return cp.Interface()
	case reflect.Map:
		if v.IsNil() {
			break
		}
		cp := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), iter.Value())
		}
		return cp.Interface()
	}
	return v.Interface()
}

// Do calls f holding the packet lock, so that f may read and write the
// root's fields while no Dumps or Loads is using them. f must not call
// methods of p.
func (p *Packet) Do(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f()
}
