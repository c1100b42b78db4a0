package encode_test

import (
	"math"
	"testing"

	"github.com/signadot/go-packet/encode"
	"github.com/signadot/go-packet/ir"
	"github.com/signadot/go-packet/parse"
)

func TestEncodeLiteralRoundTrip(t *testing.T) {
	nodes := []*ir.Node{
		ir.FromMap(map[string]*ir.Node{"a": ir.FromTuple([]*ir.Node{ir.FromInt(1)}), "b": ir.Null()}),
		ir.FromComplex(complex(math.Copysign(0, -1), math.Copysign(0, -1))),
		ir.FromComplex(complex(1e300, 1e-300)),
		ir.FromFloat(math.NaN()),
		ir.FromBytes([]byte{0, 1, 2, 'a', '"', '\'', 0x80}),
		ir.FromString("\U0001F600   \\ '\""),
		ir.FromSet([]*ir.Node{ir.FromTuple([]*ir.Node{ir.FromString("a")})}),
		ir.FromList([]*ir.Node{ir.FromList(nil), ir.FromKeyVals(nil), ir.FromTuple(nil)}),
	}
	for _, n := range nodes {
		text := encode.MustString(n)
		back, err := parse.Parse([]byte(text), parse.ParseLiteral())
		if err != nil {
			t.Fatalf("parse %s: %v", text, err)
		}
		if !ir.Equal(n, back) {
			t.Errorf("round trip of %s changed value", text)
		}
		if n.Type == ir.ComplexType {
			if math.Signbit(real(n.Complex)) != math.Signbit(real(back.Complex)) ||
				math.Signbit(imag(n.Complex)) != math.Signbit(imag(back.Complex)) {
				t.Errorf("round trip of %s lost a sign", text)
			}
		}
	}
}
