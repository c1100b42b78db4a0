// Package codec turns value trees into wire bytes and back.
//
// A [Codec] pairs a text encoding with the table of value types it can
// carry and the rule deciding when a type found on the wire may stand in
// for the type a template expects. [JSON] carries only the JSON types and
// treats types mapping to the same JSON class as compatible; [Literal]
// carries every type and requires exact type equality.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/signadot/go-packet/encode"
	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/ir"
	"github.com/signadot/go-packet/parse"
)

var (
	ErrNotSerializable = errors.New("not serializable")
	ErrUnknownPacket   = errors.New("unknown packet")
)

type Codec interface {
	Format() format.Format
	// Dumps encodes a tree. Trees holding types the codec does not allow
	// fail with ErrNotSerializable.
	Dumps(*ir.Node) ([]byte, error)
	// Loads decodes wire bytes. Any parse error is ErrUnknownPacket.
	Loads([]byte) (*ir.Node, error)
	Allowed(ir.Type) bool
	Compatible(expected, actual ir.Type) bool
}

func New(f format.Format) (Codec, error) {
	switch f {
	case format.JSONFormat:
		return JSON(), nil
	case format.LiteralFormat:
		return Literal(), nil
	default:
		return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, f)
	}
}

// check reports the first node of n which c does not allow, or a string
// which is not valid utf8.
func check(c Codec, n *ir.Node) error {
	var err error
	n.Visit(func(x *ir.Node) bool {
		switch {
		case err != nil:
			return false
		case x == nil:
			err = fmt.Errorf("%w: nil value", ErrNotSerializable)
		case !c.Allowed(x.Type):
			err = fmt.Errorf("%w: %s values in %s", ErrNotSerializable, x.Type, c.Format())
		case x.Type == ir.StringType && !utf8.ValidString(x.String):
			err = fmt.Errorf("%w: invalid utf8 string %q", ErrNotSerializable, x.String)
		case x.Type == ir.DictType && len(x.Fields) != len(x.Values):
			err = fmt.Errorf("%w: malformed dict", ErrNotSerializable)
		}
		return err == nil
	})
	return err
}

func dumps(c Codec, n *ir.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil value", ErrNotSerializable)
	}
	if err := check(c, n); err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(n, buf, encode.EncodeFormat(c.Format())); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotSerializable, err)
	}
	return buf.Bytes(), nil
}

func loads(c Codec, d []byte) (*ir.Node, error) {
	n, err := parse.Parse(d, parse.ParseFormat(c.Format()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownPacket, err)
	}
	return n, nil
}
