package encode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/ir"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth, indent int

	format format.Format

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node to w. The format defaults to literal.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{format: format.LiteralFormat}
	for _, opt := range opts {
		opt(es)
	}
	buf := bytes.NewBuffer(nil)
	if err := encode(node, buf, es); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func encode(node *ir.Node, buf *bytes.Buffer, es *EncState) error {
	if node == nil {
		return fmt.Errorf("%w: nil node", ErrEncoding)
	}
	json := es.format.IsJSON()
	switch node.Type {
	case ir.NullType:
		if json {
			es.leaf(buf, node.Type, "null")
		} else {
			es.leaf(buf, node.Type, "None")
		}
	case ir.BoolType:
		var s string
		switch {
		case json && node.Bool:
			s = "true"
		case json:
			s = "false"
		case node.Bool:
			s = "True"
		default:
			s = "False"
		}
		es.leaf(buf, node.Type, s)
	case ir.IntType:
		if node.Int == nil {
			return fmt.Errorf("%w: int node without value", ErrEncoding)
		}
		es.leaf(buf, node.Type, node.Int.String())
	case ir.FloatType:
		if json {
			es.leaf(buf, node.Type, JSONFloat(node.Float))
		} else {
			es.leaf(buf, node.Type, ReprFloat(node.Float))
		}
	case ir.ComplexType:
		if json {
			return unsupported(node.Type)
		}
		es.leaf(buf, node.Type, ReprComplex(node.Complex))
	case ir.StringType:
		if json {
			es.leaf(buf, node.Type, JSONQuote(node.String))
		} else {
			es.leaf(buf, node.Type, ReprString(node.String))
		}
	case ir.BytesType:
		if json {
			return unsupported(node.Type)
		}
		es.leaf(buf, node.Type, ReprBytes(node.Bytes))
	case ir.ListType:
		return es.seq(buf, node.Type, "[", "]", node.Values, false)
	case ir.TupleType:
		if json {
			return es.seq(buf, node.Type, "[", "]", node.Values, false)
		}
		return es.seq(buf, node.Type, "(", ")", node.Values, len(node.Values) == 1)
	case ir.SetType:
		if json {
			return unsupported(node.Type)
		}
		if len(node.Values) == 0 {
			es.leaf(buf, node.Type, "set()")
			return nil
		}
		return es.seq(buf, node.Type, "{", "}", node.Values, false)
	case ir.DictType:
		return es.dict(buf, node)
	default:
		return fmt.Errorf("%w: unknown node type %d", ErrEncoding, node.Type)
	}
	return nil
}

func unsupported(t ir.Type) error {
	return fmt.Errorf("%w: %s has no JSON encoding", ErrEncoding, t)
}

func (es *EncState) leaf(buf *bytes.Buffer, t ir.Type, s string) {
	if es.Color != nil {
		s = es.Color(t, ValueColor, s)
	}
	buf.WriteString(s)
}

func (es *EncState) sep(buf *bytes.Buffer, t ir.Type, s string) {
	if es.Color != nil {
		s = es.Color(t, SepColor, s)
	}
	buf.WriteString(s)
}

func (es *EncState) newline(buf *bytes.Buffer) {
	if es.indent <= 0 {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", es.indent*es.depth))
}

func (es *EncState) comma(buf *bytes.Buffer, t ir.Type) {
	es.sep(buf, t, ",")
	if es.indent <= 0 {
		buf.WriteByte(' ')
	}
}

func (es *EncState) seq(buf *bytes.Buffer, t ir.Type, open, close string, vs []*ir.Node, single bool) error {
	es.sep(buf, t, open)
	if len(vs) == 0 {
		es.sep(buf, t, close)
		return nil
	}
	es.depth++
	for i, v := range vs {
		if i > 0 {
			es.comma(buf, t)
		}
		es.newline(buf)
		if err := encode(v, buf, es); err != nil {
			return err
		}
	}
	if single {
		es.sep(buf, t, ",")
	}
	es.depth--
	es.newline(buf)
	es.sep(buf, t, close)
	return nil
}

func (es *EncState) dict(buf *bytes.Buffer, node *ir.Node) error {
	if len(node.Fields) != len(node.Values) {
		return fmt.Errorf("%w: dict with %d keys and %d values", ErrEncoding, len(node.Fields), len(node.Values))
	}
	es.sep(buf, node.Type, "{")
	if len(node.Fields) == 0 {
		es.sep(buf, node.Type, "}")
		return nil
	}
	es.depth++
	for i, k := range node.Fields {
		if i > 0 {
			es.comma(buf, node.Type)
		}
		es.newline(buf)
		if err := es.key(buf, k); err != nil {
			return err
		}
		es.sep(buf, node.Type, ":")
		buf.WriteByte(' ')
		if err := encode(node.Values[i], buf, es); err != nil {
			return err
		}
	}
	es.depth--
	es.newline(buf)
	es.sep(buf, node.Type, "}")
	return nil
}

func (es *EncState) key(buf *bytes.Buffer, k *ir.Node) error {
	if k == nil || k.Type != ir.StringType {
		if es.format.IsJSON() {
			return fmt.Errorf("%w: JSON object keys must be strings", ErrEncoding)
		}
		return encode(k, buf, es)
	}
	s := ReprString(k.String)
	if es.format.IsJSON() {
		s = JSONQuote(k.String)
	}
	if es.Color != nil {
		s = es.Color(ir.DictType, FieldColor, s)
	}
	buf.WriteString(s)
	return nil
}

// ReprFloat formats f as the shortest text that reads back as f, always
// with a '.' or an exponent.
func ReprFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return finiteFloat(f)
}

// JSONFloat is ReprFloat with the JavaScript names for special values.
func JSONFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return finiteFloat(f)
}

func finiteFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ReprComplex always parenthesizes so the signs of both parts read back
// exactly.
func ReprComplex(c complex128) string {
	re, im := real(c), imag(c)
	sign := "+"
	if !math.IsNaN(im) && math.Signbit(im) {
		sign = "-"
	}
	return "(" + ReprFloat(re) + sign + ReprFloat(math.Abs(im)) + "j)"
}

func reprQuote(hasSingle, hasDouble bool) byte {
	if hasSingle && !hasDouble {
		return '"'
	}
	return '\''
}

func ReprString(s string) string {
	q := reprQuote(strings.ContainsRune(s, '\''), strings.ContainsRune(s, '"'))
	d := make([]byte, 1, len(s)+2)
	d[0] = q
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			d = append(d, '\\', byte(r))
		case r == '\t':
			d = append(d, '\\', 't')
		case r == '\n':
			d = append(d, '\\', 'n')
		case r == '\r':
			d = append(d, '\\', 'r')
		case r < ' ' || r == 0x7f:
			d = fmt.Appendf(d, `\x%02x`, r)
		case r < utf8.RuneSelf:
			d = append(d, byte(r))
		case unicode.IsPrint(r):
			d = utf8.AppendRune(d, r)
		case r <= 0xff:
			d = fmt.Appendf(d, `\x%02x`, r)
		case r <= 0xffff:
			d = fmt.Appendf(d, `\u%04x`, r)
		default:
			d = fmt.Appendf(d, `\U%08x`, r)
		}
	}
	return string(append(d, q))
}

func ReprBytes(v []byte) string {
	q := reprQuote(bytes.IndexByte(v, '\'') != -1, bytes.IndexByte(v, '"') != -1)
	d := make([]byte, 2, len(v)+3)
	d[0], d[1] = 'b', q
	for _, c := range v {
		switch {
		case c == q || c == '\\':
			d = append(d, '\\', c)
		case c == '\t':
			d = append(d, '\\', 't')
		case c == '\n':
			d = append(d, '\\', 'n')
		case c == '\r':
			d = append(d, '\\', 'r')
		case c < ' ' || c >= 0x7f:
			d = fmt.Appendf(d, `\x%02x`, c)
		default:
			d = append(d, c)
		}
	}
	return string(append(d, q))
}

// JSONQuote quotes s as JSON with every non ascii or control character
// escaped.
func JSONQuote(s string) string {
	d := make([]byte, 1, len(s)+2)
	d[0] = '"'
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			d = append(d, '\\', byte(r))
		case r == '\n':
			d = append(d, '\\', 'n')
		case r == '\r':
			d = append(d, '\\', 'r')
		case r == '\t':
			d = append(d, '\\', 't')
		case r == '\b':
			d = append(d, '\\', 'b')
		case r == '\f':
			d = append(d, '\\', 'f')
		case r >= ' ' && r < 0x7f:
			d = append(d, byte(r))
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			d = fmt.Appendf(d, `\u%04x\u%04x`, r1, r2)
		default:
			d = fmt.Appendf(d, `\u%04x`, r)
		}
	}
	return string(append(d, '"'))
}
