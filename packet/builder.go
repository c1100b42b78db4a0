package packet

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/signadot/go-packet/gomap"
)

// Builder collects the attributes of a packet with no Go type of its own.
// Build fixes the set of names; afterwards values may change but names
// may not be added.
type Builder struct {
	tag    string
	values map[string]any
	errs   []error
}

func NewBuilder(tag string) *Builder {
	return &Builder{tag: tag, values: map[string]any{}}
}

// Set adds or replaces attribute name. Its value also fixes the type the
// attribute accepts on Loads.
func (b *Builder) Set(name string, v any) *Builder {
	switch {
	case name == "":
		b.errs = append(b.errs, errors.New("empty attribute name"))
	case strings.HasPrefix(name, gomap.InternalPrefix):
		b.errs = append(b.errs, fmt.Errorf("attribute name %q uses the reserved prefix %s", name, gomap.InternalPrefix))
	default:
		b.values[name] = v
	}
	return b
}

func (b *Builder) Build(opts ...Option) (*Packet, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	tag := b.tag
	if o.tag != "" {
		tag = o.tag
	}
	root := maps.Clone(b.values)
	attrs, err := gomap.Attributes(root)
	if err != nil {
		return nil, err
	}
	p := &Packet{root: reflect.ValueOf(root), attrs: attrs}
	return p.init(tag, o)
}
