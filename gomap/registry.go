package gomap

import (
	"fmt"
	"maps"
	"reflect"
	"sync"
)

// Reduction is the portable description of a reducible value. Args are
// passed to the constructor, State, Items and DictItems are restored
// afterwards. A nil State, Items or DictItems is absent.
type Reduction struct {
	Args      []any
	State     any
	Items     []any
	DictItems []Item
}

// Item is a key value pair of Reduction.DictItems.
type Item struct {
	Key, Value any
}

// Reducer reduces values of one Go type and constructs them back.
type Reducer struct {
	Name      string
	Type      reflect.Type
	Reduce    func(reflect.Value) (Reduction, error)
	Construct func(Reduction) (reflect.Value, error)
}

// Registry maps Go types to reducers. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*Reducer
}

func NewRegistry() *Registry {
	return &Registry{byType: map[reflect.Type]*Reducer{}}
}

// Register makes values of type T reducible in r, replacing any reducer
// already registered for T.
func Register[T any](r *Registry, name string, reduce func(T) (Reduction, error), construct func(Reduction) (T, error)) {
	typ := reflect.TypeFor[T]()
	red := &Reducer{
		Name: name,
		Type: typ,
		Reduce: func(v reflect.Value) (Reduction, error) {
			return reduce(v.Interface().(T))
		},
		Construct: func(red Reduction) (reflect.Value, error) {
			t, err := construct(red)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&t).Elem(), nil
		},
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[typ] = red
}

func (r *Registry) Lookup(t reflect.Type) (*Reducer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	red, ok := r.byType[t]
	return red, ok
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{byType: maps.Clone(r.byType)}
}

var (
	defaultOnce sync.Once
	defaults    *Registry
)

// sharedDefaults is the read only registry used when no registry is
// given. It is never handed out.
func sharedDefaults() *Registry {
	defaultOnce.Do(func() {
		defaults = NewRegistry()
		registerDefaults(defaults)
	})
	return defaults
}

// DefaultRegistry returns a new registry holding the reducers for
// time.Time, netip.Addr, *url.URL and *list.List. Registering in it
// affects only its holder.
func DefaultRegistry() *Registry {
	return sharedDefaults().Clone()
}

func reductionErr(name, format string, args ...any) error {
	return fmt.Errorf("%s: %s", name, fmt.Sprintf(format, args...))
}
