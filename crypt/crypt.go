// Package crypt seals wire bytes with AES-256.
//
// The key is the 32 byte digest of a passphrase (see [DeriveKey]). Modes:
//
//	ctr     counter mode from counter block 1, no IV on the wire
//	cbc     random IV, PKCS#7 padding, IV || ciphertext
//	ctr-iv  counter mode from a random initial block, block || ciphertext
//
// ctr is deterministic: equal plaintexts under one key give equal
// ciphertexts.
package crypt

import (
	"crypto/aes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/signadot/go-packet/debug"
)

var ErrDecrypt = errors.New("decryption failed")

type Cipher interface {
	Mode() Mode
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(enc []byte) ([]byte, error)
}

type options struct {
	hash KeyHash
	rand io.Reader
}

type Option func(*options)

// WithHash selects the passphrase digest, SHA256 by default.
func WithHash(h KeyHash) Option {
	return func(o *options) { o.hash = h }
}

// WithRand sets the source of IVs, crypto/rand by default.
func WithRand(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}

// New returns the cipher for mode keyed by passphrase. ModeNone returns a
// cipher passing bytes through unchanged.
func New(mode Mode, passphrase string, opts ...Option) (Cipher, error) {
	o := &options{hash: SHA256, rand: rand.Reader}
	for _, opt := range opts {
		opt(o)
	}
	if mode == ModeNone {
		return none{}, nil
	}
	key, err := DeriveKey(o.hash, passphrase)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	switch mode {
	case ModeCTR:
		return &ctr{block: block}, nil
	case ModeCTRIV:
		return &ctr{block: block, rand: o.rand}, nil
	case ModeCBC:
		return &cbc{block: block, rand: o.rand}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrBadMode, mode)
}

type none struct{}

func (none) Mode() Mode { return ModeNone }

func (none) Encrypt(d []byte) ([]byte, error) { return d, nil }

func (none) Decrypt(d []byte) ([]byte, error) { return d, nil }

func randomBlock(r io.Reader) ([]byte, error) {
	b := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("reading iv: %w", err)
	}
	return b, nil
}

func logf(m Mode, op string, in, out []byte) {
	if debug.Cipher() {
		debug.Logf("%s %s %d -> %d bytes: %x\n", m, op, len(in), len(out), out)
	}
}
