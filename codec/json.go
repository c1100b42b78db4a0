package codec

import (
	"fmt"

	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/ir"
)

// jsonClasses maps the types JSON carries to the JSON value they become.
var jsonClasses = map[ir.Type]string{
	ir.DictType:   "object",
	ir.ListType:   "array",
	ir.TupleType:  "array",
	ir.StringType: "string",
	ir.IntType:    "number",
	ir.FloatType:  "real",
	ir.BoolType:   "boolean",
	ir.NullType:   "null",
}

type jsonCodec struct{}

func JSON() Codec {
	return jsonCodec{}
}

func (jsonCodec) Format() format.Format {
	return format.JSONFormat
}

func (jsonCodec) Allowed(t ir.Type) bool {
	_, ok := jsonClasses[t]
	return ok
}

func (jsonCodec) Compatible(expected, actual ir.Type) bool {
	e, ok := jsonClasses[expected]
	if !ok {
		return false
	}
	a, ok := jsonClasses[actual]
	return ok && e == a
}

func (c jsonCodec) Dumps(n *ir.Node) ([]byte, error) {
	if n != nil && !n.StringKeys() {
		return nil, fmt.Errorf("%w: JSON object keys must be strings", ErrNotSerializable)
	}
	return dumps(c, n)
}

func (c jsonCodec) Loads(d []byte) (*ir.Node, error) {
	return loads(c, d)
}
