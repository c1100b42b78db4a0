package packet

import (
	"github.com/signadot/go-packet/codec"
	"github.com/signadot/go-packet/compress"
	"github.com/signadot/go-packet/config"
	"github.com/signadot/go-packet/crypt"
	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/gomap"
)

type options struct {
	config      *config.Config
	format      *format.Format
	codec       codec.Codec
	cipher      crypt.Cipher
	compression *compress.Compression
	tag         string
	registry    *gomap.Registry
}

type Option func(*options)

// WithConfig supplies the format, compression, cipher and receive size.
// Other options override it.
func WithConfig(c *config.Config) Option {
	return func(o *options) { o.config = c }
}

func WithFormat(f format.Format) Option {
	return func(o *options) { o.format = &f }
}

func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

func WithCipher(c crypt.Cipher) Option {
	return func(o *options) { o.cipher = c }
}

func WithCompression(c compress.Compression) Option {
	return func(o *options) { o.compression = &c }
}

// WithTag overrides the tag derived from the root's type.
func WithTag(tag string) Option {
	return func(o *options) { o.tag = tag }
}

// WithRegistry selects the reducers for reducible attributes.
func WithRegistry(r *gomap.Registry) Option {
	return func(o *options) { o.registry = r }
}

func (o *options) apply(p *Packet) error {
	cfg := o.config
	if cfg == nil {
		cfg = config.Default()
	} else if err := cfg.Validate(); err != nil {
		return err
	}
	var err error
	switch {
	case o.codec != nil:
		p.codec = o.codec
	case o.format != nil:
		p.codec, err = codec.New(*o.format)
	default:
		p.codec, err = cfg.Codec()
	}
	if err != nil {
		return err
	}
	p.cipher = o.cipher
	if p.cipher == nil {
		if p.cipher, err = cfg.NewCipher(); err != nil {
			return err
		}
	}
	p.compression = cfg.Compression
	if o.compression != nil {
		p.compression = *o.compression
	}
	if _, err := p.compression.MarshalText(); err != nil {
		return compress.ErrBadCompression
	}
	p.registry = o.registry
	if p.registry == nil {
		p.registry = gomap.DefaultRegistry()
	}
	p.recvSize = cfg.RecvSize()
	return nil
}
