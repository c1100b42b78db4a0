package gomap

type options struct {
	registry *Registry
}

// Option configures Serialize, Validate and Apply.
type Option func(*options)

// WithRegistry selects the reducers used to classify and rebuild values.
// The default holds the reducers of DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = sharedDefaults()
	}
	return o
}
