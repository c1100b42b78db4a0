package parse

import (
	"fmt"
	"math"

	"github.com/signadot/go-packet/ir"
	"github.com/signadot/go-packet/token"
)

func (p *parser) jsonValue() (*ir.Node, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case token.TLCurl:
		return p.jsonObject(t)
	case token.TLSquare:
		return p.jsonArray(t)
	case token.TString:
		return ir.FromString(string(t.Bytes)), nil
	case token.TInteger:
		return parseInt(t)
	case token.TFloat:
		f, err := parseFloat(t, string(t.Bytes))
		if err != nil {
			return nil, err
		}
		return ir.FromFloat(f), nil
	case token.TName:
		switch string(t.Bytes) {
		case "null":
			return ir.Null(), nil
		case "true":
			return ir.FromBool(true), nil
		case "false":
			return ir.FromBool(false), nil
		case "NaN":
			return ir.FromFloat(math.NaN()), nil
		case "Infinity":
			return ir.FromFloat(math.Inf(1)), nil
		case "-Infinity":
			return ir.FromFloat(math.Inf(-1)), nil
		}
	}
	return nil, malformed(fmt.Sprintf("unexpected %s", describe(t)), t.Pos)
}

func (p *parser) jsonObject(open *token.Token) (*ir.Node, error) {
	if err := p.enter(open.Pos); err != nil {
		return nil, err
	}
	defer p.leave()
	d := &dictBuilder{}
	if p.peekType(token.TRCurl) {
		p.i++
		return d.node(), nil
	}
	for {
		kt, err := p.expect(token.TString, "object key")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TColon, "':'"); err != nil {
			return nil, err
		}
		v, err := p.jsonValue()
		if err != nil {
			return nil, err
		}
		d.add(ir.FromString(string(kt.Bytes)), v)
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t.Type {
		case token.TComma:
			continue
		case token.TRCurl:
			return d.node(), nil
		default:
			return nil, malformed(fmt.Sprintf("%s in object", describe(t)), t.Pos)
		}
	}
}

func (p *parser) jsonArray(open *token.Token) (*ir.Node, error) {
	if err := p.enter(open.Pos); err != nil {
		return nil, err
	}
	defer p.leave()
	vs := []*ir.Node{}
	if p.peekType(token.TRSquare) {
		p.i++
		return ir.FromList(vs), nil
	}
	for {
		v, err := p.jsonValue()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t.Type {
		case token.TComma:
			continue
		case token.TRSquare:
			return ir.FromList(vs), nil
		default:
			return nil, malformed(fmt.Sprintf("%s in array", describe(t)), t.Pos)
		}
	}
}
