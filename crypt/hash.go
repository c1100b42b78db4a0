package crypt

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// KeyHash selects the digest turning a passphrase into an AES-256 key.
type KeyHash int

const (
	SHA256 KeyHash = iota
	SHA3_256
	BLAKE3
)

var ErrBadHash = errors.New("bad key hash")

func ParseKeyHash(v string) (KeyHash, error) {
	h, ok := map[string]KeyHash{
		"":         SHA256,
		"sha256":   SHA256,
		"sha3-256": SHA3_256,
		"sha3":     SHA3_256,
		"blake3":   BLAKE3,
	}[v]
	if ok {
		return h, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadHash, v)
}

func (h KeyHash) String() string {
	d, err := h.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (h KeyHash) MarshalText() ([]byte, error) {
	switch h {
	case SHA256:
		return []byte("sha256"), nil
	case SHA3_256:
		return []byte("sha3-256"), nil
	case BLAKE3:
		return []byte("blake3"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a key hash>", h)
	}
}

func (h *KeyHash) UnmarshalText(d []byte) error {
	ph, err := ParseKeyHash(string(d))
	if err != nil {
		return err
	}
	*h = ph
	return nil
}

// DeriveKey returns the 32 byte digest of passphrase under h.
func DeriveKey(h KeyHash, passphrase string) ([]byte, error) {
	var sum [32]byte
	switch h {
	case SHA256:
		sum = sha256.Sum256([]byte(passphrase))
	case SHA3_256:
		sum = sha3.Sum256([]byte(passphrase))
	case BLAKE3:
		sum = blake3.Sum256([]byte(passphrase))
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadHash, h)
	}
	return sum[:], nil
}
