// Package config holds the settings a packet is built with: wire format,
// compression, cipher and receive buffer size.
//
// A Config is an explicit value. It is read from YAML with Load or Parse,
// adjusted from the environment with FromEnv and handed to packets with
// packet.WithConfig.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/signadot/go-packet/codec"
	"github.com/signadot/go-packet/compress"
	"github.com/signadot/go-packet/crypt"
	"github.com/signadot/go-packet/format"
)

// DefaultMaxRecv is the receive buffer size used when none is configured.
const DefaultMaxRecv = 512

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Format      format.Format        `yaml:"format"`
	Compression compress.Compression `yaml:"compression"`
	MaxRecv     int                  `yaml:"maxRecv,omitempty"`
	Cipher      Cipher               `yaml:"cipher"`
}

type Cipher struct {
	Mode crypt.Mode    `yaml:"mode"`
	Hash crypt.KeyHash `yaml:"hash"`
	Key  string        `yaml:"key,omitempty"`
	// KeyEnv names an environment variable holding the key.
	KeyEnv string `yaml:"keyEnv,omitempty"`
}

func Default() *Config {
	return &Config{
		Format:      format.LiteralFormat,
		Compression: compress.None,
		MaxRecv:     DefaultMaxRecv,
	}
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}
	c, err := Parse(d)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return c, nil
}

// Parse reads a YAML config. Settings it leaves out keep their Default
// values.
func Parse(d []byte) (*Config, error) {
	c := Default()
	if err := yaml.UnmarshalWithOptions(d, c, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// FromEnv overrides c with the PACKET_* environment variables which are
// set.
func (c *Config) FromEnv() error {
	if v, ok := os.LookupEnv("PACKET_FORMAT"); ok {
		f, err := format.ParseFormat(v)
		if err != nil {
			return fmt.Errorf("%w: PACKET_FORMAT: %w", ErrInvalid, err)
		}
		c.Format = f
	}
	if v, ok := os.LookupEnv("PACKET_COMPRESSION"); ok {
		comp, err := compress.ParseCompression(v)
		if err != nil {
			return fmt.Errorf("%w: PACKET_COMPRESSION: %w", ErrInvalid, err)
		}
		c.Compression = comp
	}
	if v, ok := os.LookupEnv("PACKET_CIPHER_MODE"); ok {
		m, err := crypt.ParseMode(v)
		if err != nil {
			return fmt.Errorf("%w: PACKET_CIPHER_MODE: %w", ErrInvalid, err)
		}
		c.Cipher.Mode = m
	}
	if v, ok := os.LookupEnv("PACKET_CIPHER_HASH"); ok {
		h, err := crypt.ParseKeyHash(v)
		if err != nil {
			return fmt.Errorf("%w: PACKET_CIPHER_HASH: %w", ErrInvalid, err)
		}
		c.Cipher.Hash = h
	}
	if v, ok := os.LookupEnv("PACKET_KEY"); ok {
		c.Cipher.Key = v
		c.Cipher.KeyEnv = ""
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := c.Format.MarshalText(); err != nil {
		return fmt.Errorf("%w: format %d", ErrInvalid, c.Format)
	}
	if _, err := c.Compression.MarshalText(); err != nil {
		return fmt.Errorf("%w: compression %d", ErrInvalid, c.Compression)
	}
	if _, err := c.Cipher.Hash.MarshalText(); err != nil {
		return fmt.Errorf("%w: key hash %d", ErrInvalid, c.Cipher.Hash)
	}
	if c.MaxRecv < 0 {
		return fmt.Errorf("%w: negative maxRecv %d", ErrInvalid, c.MaxRecv)
	}
	if c.Cipher.Mode == crypt.ModeNone {
		return nil
	}
	if _, err := c.Cipher.Mode.MarshalText(); err != nil {
		return fmt.Errorf("%w: cipher mode %d", ErrInvalid, c.Cipher.Mode)
	}
	if c.Cipher.Key == "" && c.Cipher.KeyEnv == "" {
		return fmt.Errorf("%w: cipher mode %s without a key", ErrInvalid, c.Cipher.Mode)
	}
	return nil
}

// Passphrase returns the cipher key, reading it from the environment when
// KeyEnv is set.
func (c *Config) Passphrase() (string, error) {
	if c.Cipher.Key != "" || c.Cipher.KeyEnv == "" {
		return c.Cipher.Key, nil
	}
	v, ok := os.LookupEnv(c.Cipher.KeyEnv)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: key variable %s is not set", ErrInvalid, c.Cipher.KeyEnv)
	}
	return v, nil
}

func (c *Config) Codec() (codec.Codec, error) {
	return codec.New(c.Format)
}

func (c *Config) NewCipher() (crypt.Cipher, error) {
	if c.Cipher.Mode == crypt.ModeNone {
		return crypt.New(crypt.ModeNone, "")
	}
	pass, err := c.Passphrase()
	if err != nil {
		return nil, err
	}
	return crypt.New(c.Cipher.Mode, pass, crypt.WithHash(c.Cipher.Hash))
}

// RecvSize is MaxRecv, or DefaultMaxRecv when unset.
func (c *Config) RecvSize() int {
	if c.MaxRecv <= 0 {
		return DefaultMaxRecv
	}
	return c.MaxRecv
}
