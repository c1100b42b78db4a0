package codec

import (
	"fmt"

	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/ir"
	"github.com/signadot/go-packet/parse"
)

type literalCodec struct{}

func Literal() Codec {
	return literalCodec{}
}

func (literalCodec) Format() format.Format {
	return format.LiteralFormat
}

func (literalCodec) Allowed(t ir.Type) bool {
	return t >= ir.NullType && t <= ir.DictType
}

func (literalCodec) Compatible(expected, actual ir.Type) bool {
	return expected == actual
}

// Dumps parses the rendered text before returning it, so that every
// dumped packet is one the literal parser accepts.
func (c literalCodec) Dumps(n *ir.Node) ([]byte, error) {
	d, err := dumps(c, n)
	if err != nil {
		return nil, err
	}
	if _, err := parse.Parse(d, parse.ParseLiteral()); err != nil {
		return nil, fmt.Errorf("%w: pre-flight: %w", ErrNotSerializable, err)
	}
	return d, nil
}

func (c literalCodec) Loads(d []byte) (*ir.Node, error) {
	return loads(c, d)
}
