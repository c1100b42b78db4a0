package parse

import (
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/signadot/go-packet/ir"
	"github.com/signadot/go-packet/token"
)

// literalTop parses an expression, or a bare tuple when the top level
// expressions are separated by commas.
func (p *parser) literalTop() (*ir.Node, error) {
	v, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.peekType(token.TComma) {
		return v, nil
	}
	vs := []*ir.Node{v}
	for p.peekType(token.TComma) {
		p.i++
		if p.peek() == nil {
			break
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return ir.FromTuple(vs), nil
}

// expr parses a possibly signed operand, and the complex form
// real ± imaginary.
func (p *parser) expr() (*ir.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	op := p.peek()
	if op == nil {
		return left, nil
	}
	switch op.Type {
	case token.TPlus, token.TMinus:
	case token.TOp:
		return nil, malformed(fmt.Sprintf("operator %s", op.Bytes), op.Pos)
	default:
		return left, nil
	}
	p.i++
	var re float64
	switch left.Type {
	case ir.IntType:
		re, err = intToFloat(left.Int, op.Pos)
		if err != nil {
			return nil, err
		}
	case ir.FloatType:
		re = left.Float
	default:
		return nil, malformed(fmt.Sprintf("operator %s on %s", op.Bytes, left.Type), op.Pos)
	}
	rt, err := p.next()
	if err != nil {
		return nil, err
	}
	im, ok, err := imagOperand(rt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, malformed(fmt.Sprintf("operator %s on %s", op.Bytes, describe(rt)), op.Pos)
	}
	if op.Type == token.TMinus {
		im = -im
	}
	if t := p.peek(); t != nil && (t.Type == token.TPlus || t.Type == token.TMinus || t.Type == token.TOp) {
		return nil, malformed(fmt.Sprintf("operator %s", t.Bytes), t.Pos)
	}
	return ir.FromComplex(complex(re, im)), nil
}

func imagOperand(t *token.Token) (float64, bool, error) {
	switch t.Type {
	case token.TImag:
		f, err := parseFloat(t, string(t.Bytes[:len(t.Bytes)-1]))
		return f, err == nil, err
	case token.TName:
		switch string(t.Bytes) {
		case "infj":
			return math.Inf(1), true, nil
		case "nanj":
			return math.NaN(), true, nil
		}
	}
	return 0, false, nil
}

func intToFloat(i *big.Int, pos *token.Pos) (float64, error) {
	f, _ := new(big.Float).SetInt(i).Float64()
	if math.IsInf(f, 0) {
		return 0, malformed("int too large to convert to float", pos)
	}
	return f, nil
}

func (p *parser) unary() (*ir.Node, error) {
	t := p.peek()
	if t == nil || (t.Type != token.TMinus && t.Type != token.TPlus) {
		return p.primary()
	}
	p.i++
	if err := p.enter(t.Pos); err != nil {
		return nil, err
	}
	defer p.leave()
	v, err := p.unary()
	if err != nil {
		return nil, err
	}
	switch v.Type {
	case ir.IntType, ir.FloatType, ir.ComplexType:
	default:
		return nil, malformed(fmt.Sprintf("unary %s on %s", t.Bytes, v.Type), t.Pos)
	}
	if t.Type == token.TPlus {
		return v, nil
	}
	switch v.Type {
	case ir.IntType:
		v.Int.Neg(v.Int)
	case ir.FloatType:
		v.Float = -v.Float
	case ir.ComplexType:
		v.Complex = complex(-real(v.Complex), -imag(v.Complex))
	}
	return v, nil
}

// primary parses an atom and rejects the postfix forms: calls,
// subscripts and attribute access.
func (p *parser) primary() (*ir.Node, error) {
	v, err := p.atom()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t == nil {
		return v, nil
	}
	switch {
	case t.Type == token.TLParen:
		return nil, malformed("call", t.Pos)
	case t.Type == token.TLSquare:
		return nil, malformed("subscript", t.Pos)
	case t.Type == token.TOp && string(t.Bytes) == ".":
		return nil, malformed("attribute access", t.Pos)
	case t.Type == token.TName:
		switch string(t.Bytes) {
		case "for":
			return nil, malformed("comprehension", t.Pos)
		case "if":
			return nil, malformed("conditional expression", t.Pos)
		}
	}
	return v, nil
}

func (p *parser) atom() (*ir.Node, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case token.TInteger:
		return parseInt(t)
	case token.TFloat:
		f, err := parseFloat(t, string(t.Bytes))
		if err != nil {
			return nil, err
		}
		return ir.FromFloat(f), nil
	case token.TImag:
		f, _, err := imagOperand(t)
		if err != nil {
			return nil, err
		}
		return ir.FromComplex(complex(0, f)), nil
	case token.TString, token.TBytes:
		return p.strings(t)
	case token.TName:
		return p.name(t)
	case token.TLParen:
		return p.tuple(t)
	case token.TLSquare:
		return p.list(t)
	case token.TLCurl:
		return p.curl(t)
	case token.TOp:
		switch string(t.Bytes) {
		case "*":
			return nil, malformed("unpacking", t.Pos)
		case "`":
			return nil, malformed("backquote", t.Pos)
		}
		return nil, malformed(fmt.Sprintf("operator %s", t.Bytes), t.Pos)
	}
	return nil, malformed(fmt.Sprintf("unexpected %s", describe(t)), t.Pos)
}

// strings concatenates adjacent string or bytes literals.
func (p *parser) strings(t *token.Token) (*ir.Node, error) {
	buf := append([]byte{}, t.Bytes...)
	for {
		n := p.peek()
		if n == nil || (n.Type != token.TString && n.Type != token.TBytes) {
			break
		}
		if n.Type != t.Type {
			return nil, malformed("mixing bytes and str literals", n.Pos)
		}
		buf = append(buf, n.Bytes...)
		p.i++
	}
	if t.Type == token.TBytes {
		return ir.FromBytes(buf), nil
	}
	return ir.FromString(string(buf)), nil
}

func (p *parser) name(t *token.Token) (*ir.Node, error) {
	switch string(t.Bytes) {
	case "None":
		return ir.Null(), nil
	case "True":
		return ir.FromBool(true), nil
	case "False":
		return ir.FromBool(false), nil
	case "inf":
		return ir.FromFloat(math.Inf(1)), nil
	case "nan":
		return ir.FromFloat(math.NaN()), nil
	case "infj":
		return ir.FromComplex(complex(0, math.Inf(1))), nil
	case "nanj":
		return ir.FromComplex(complex(0, math.NaN())), nil
	case "set":
		if p.peekType(token.TLParen) {
			return p.setCall(t)
		}
	case "lambda":
		return nil, malformed("lambda", t.Pos)
	}
	if p.peekType(token.TLParen) {
		return nil, malformed(fmt.Sprintf("call to %s", t.Bytes), t.Pos)
	}
	return nil, malformed(describe(t), t.Pos)
}

// elements parses comma separated expressions up to and including the
// closing token, allowing a trailing comma. It reports whether any comma
// was seen.
func (p *parser) elements(first *ir.Node, closer token.TokenType) ([]*ir.Node, bool, error) {
	vs := []*ir.Node{}
	if first != nil {
		vs = append(vs, first)
	}
	comma := false
	for {
		t := p.peek()
		if t == nil {
			return nil, false, malformed("unexpected end of input", p.end)
		}
		if t.Type == closer {
			p.i++
			return vs, comma, nil
		}
		if len(vs) > 0 {
			if t.Type != token.TComma {
				return nil, false, p.separatorErr(t)
			}
			p.i++
			comma = true
			if p.peekType(closer) {
				continue
			}
		}
		v, err := p.expr()
		if err != nil {
			return nil, false, err
		}
		vs = append(vs, v)
	}
}

func (p *parser) separatorErr(t *token.Token) error {
	if t.Type == token.TName && string(t.Bytes) == "for" {
		return malformed("comprehension", t.Pos)
	}
	if t.Type == token.TOp && string(t.Bytes) == "=" {
		return malformed("keyword argument", t.Pos)
	}
	return malformed(fmt.Sprintf("%s where ',' expected", describe(t)), t.Pos)
}

func (p *parser) tuple(open *token.Token) (*ir.Node, error) {
	if err := p.enter(open.Pos); err != nil {
		return nil, err
	}
	defer p.leave()
	if p.peekType(token.TRParen) {
		p.i++
		return ir.FromTuple(nil), nil
	}
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peekType(token.TRParen) {
		p.i++
		return first, nil
	}
	vs, _, err := p.elements(first, token.TRParen)
	if err != nil {
		return nil, err
	}
	return ir.FromTuple(vs), nil
}

func (p *parser) list(open *token.Token) (*ir.Node, error) {
	if err := p.enter(open.Pos); err != nil {
		return nil, err
	}
	defer p.leave()
	vs, _, err := p.elements(nil, token.TRSquare)
	if err != nil {
		return nil, err
	}
	return ir.FromList(vs), nil
}

// curl parses a dict, or a set when the first element is not followed by
// a colon.
func (p *parser) curl(open *token.Token) (*ir.Node, error) {
	if err := p.enter(open.Pos); err != nil {
		return nil, err
	}
	defer p.leave()
	if p.peekType(token.TRCurl) {
		p.i++
		return ir.FromKeyVals(nil), nil
	}
	t := p.peek()
	if t == nil {
		return nil, malformed("unexpected end of input", p.end)
	}
	if t.Type == token.TOp && string(t.Bytes) == "*" {
		return nil, malformed("unpacking", t.Pos)
	}
	kPos := t.Pos
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.peekType(token.TColon) {
		vs, _, err := p.elements(first, token.TRCurl)
		if err != nil {
			return nil, err
		}
		s := &setBuilder{}
		for _, v := range vs {
			if !hashable(v) {
				return nil, malformed(fmt.Sprintf("unhashable set element %s", v.Type), kPos)
			}
			s.add(v)
		}
		return s.node(), nil
	}
	d := &dictBuilder{}
	k := first
	for {
		if !hashable(k) {
			return nil, malformed(fmt.Sprintf("unhashable dict key %s", k.Type), kPos)
		}
		if _, err := p.expect(token.TColon, "':'"); err != nil {
			return nil, err
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		d.add(k, v)
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t.Type {
		case token.TRCurl:
			return d.node(), nil
		case token.TComma:
		default:
			return nil, p.separatorErr(t)
		}
		if p.peekType(token.TRCurl) {
			p.i++
			return d.node(), nil
		}
		if t := p.peek(); t != nil && t.Type == token.TOp && string(t.Bytes) == "*" {
			return nil, malformed("unpacking", t.Pos)
		}
		if t := p.peek(); t != nil {
			kPos = t.Pos
		}
		k, err = p.expr()
		if err != nil {
			return nil, err
		}
	}
}

// setCall parses set() and set(iterable) where iterable is a list, tuple,
// set or str literal.
func (p *parser) setCall(name *token.Token) (*ir.Node, error) {
	open, err := p.expect(token.TLParen, "'('")
	if err != nil {
		return nil, err
	}
	if err := p.enter(open.Pos); err != nil {
		return nil, err
	}
	defer p.leave()
	args, _, err := p.elements(nil, token.TRParen)
	if err != nil {
		return nil, err
	}
	s := &setBuilder{}
	switch len(args) {
	case 0:
		return s.node(), nil
	case 1:
	default:
		return nil, malformed("set() takes at most 1 argument", name.Pos)
	}
	arg := args[0]
	switch arg.Type {
	case ir.ListType, ir.TupleType, ir.SetType:
		for _, v := range arg.Values {
			if !hashable(v) {
				return nil, malformed(fmt.Sprintf("unhashable set element %s", v.Type), open.Pos)
			}
			s.add(v)
		}
	case ir.StringType:
		for i := 0; i < len(arg.String); {
			_, sz := utf8.DecodeRuneInString(arg.String[i:])
			s.add(ir.FromString(arg.String[i : i+sz]))
			i += sz
		}
	default:
		return nil, malformed(fmt.Sprintf("set() argument of type %s", arg.Type), open.Pos)
	}
	return s.node(), nil
}
