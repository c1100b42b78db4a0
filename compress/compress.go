// Package compress is the optional stage between a packet's codec and its
// cipher.
package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

type Compression int

const (
	None Compression = iota
	Zstd
)

var (
	ErrBadCompression = errors.New("bad compression")
	ErrDecompress     = errors.New("decompression failed")
)

// MaxDecodedSize bounds the output of Decompress.
const MaxDecodedSize = 64 << 20

func ParseCompression(v string) (Compression, error) {
	switch v {
	case "", "none":
		return None, nil
	case "zstd", "zst":
		return Zstd, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadCompression, v)
}

func (c Compression) String() string {
	d, err := c.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (c Compression) MarshalText() ([]byte, error) {
	switch c {
	case None:
		return []byte("none"), nil
	case Zstd:
		return []byte("zstd"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a compression>", c)
	}
}

func (c *Compression) UnmarshalText(d []byte) error {
	pc, err := ParseCompression(string(d))
	if err != nil {
		return err
	}
	*c = pc
	return nil
}

// zstd encoders and decoders are safe for concurrent use and costly to
// build, so one of each is shared.
var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// Compress returns d compressed with c. None returns d itself.
func Compress(d []byte, c Compression) ([]byte, error) {
	switch c {
	case None:
		return d, nil
	case Zstd:
		enc, _, err := zstdCodec()
		if err != nil {
			return nil, err
		}
		return enc.EncodeAll(d, nil), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrBadCompression, c)
}

// Decompress reverses Compress. Input which c cannot decode results in
// ErrDecompress.
func Decompress(d []byte, c Compression) ([]byte, error) {
	switch c {
	case None:
		return d, nil
	case Zstd:
		_, dec, err := zstdCodec()
		if err != nil {
			return nil, err
		}
		res, err := dec.DecodeAll(d, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrDecompress, err)
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrBadCompression, c)
}
