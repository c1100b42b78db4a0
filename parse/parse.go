package parse

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/signadot/go-packet/debug"
	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/ir"
	"github.com/signadot/go-packet/token"
)

// Parse parses d as a single literal expression, or as a JSON document
// with ParseJSON.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{format: format.LiteralFormat, maxDepth: DefaultMaxDepth}
	for _, f := range opts {
		f(pOpts)
	}
	pd := token.NewPosDoc(d)
	toks, err := token.Tokenize(nil, d, pOpts.TokenizeOpts()...)
	if err != nil {
		return nil, tokenizeErr(err, pd)
	}
	if debug.Tokens() {
		token.PrintTokens(os.Stderr, toks, pOpts.format.String())
	}
	p := &parser{toks: toks, end: pd.Pos(len(d)), opts: pOpts}
	if len(toks) == 0 {
		return nil, malformed("empty expression", p.end)
	}
	var res *ir.Node
	if pOpts.format.IsJSON() {
		res, err = p.jsonValue()
	} else {
		res, err = p.literalTop()
	}
	if err != nil {
		return nil, err
	}
	if p.i < len(p.toks) {
		t := &p.toks[p.i]
		return nil, malformed(fmt.Sprintf("trailing %s", describe(t)), t.Pos)
	}
	return res, nil
}

// Eval safely evaluates a literal expression to natural Go values, see
// ir.ToAny.
func Eval(expr string) (any, error) {
	n, err := Parse([]byte(expr), ParseLiteral())
	if err != nil {
		return nil, err
	}
	return ir.ToAny(n)
}

func tokenizeErr(err error, pd *token.PosDoc) error {
	var te *token.TokenizeErr
	if errors.As(err, &te) {
		return &MalformedError{Construct: "token", Pos: te.Pos, Err: err}
	}
	return &MalformedError{Construct: "token", Pos: *pd.Pos(0), Err: err}
}

type parser struct {
	toks  []token.Token
	i     int
	end   *token.Pos
	depth int
	opts  *parseOpts
}

func (p *parser) peek() *token.Token {
	if p.i >= len(p.toks) {
		return nil
	}
	return &p.toks[p.i]
}

func (p *parser) peekType(tt token.TokenType) bool {
	t := p.peek()
	return t != nil && t.Type == tt
}

// next returns the next token or an error at the end of input.
func (p *parser) next() (*token.Token, error) {
	t := p.peek()
	if t == nil {
		return nil, malformed("unexpected end of input", p.end)
	}
	p.i++
	return t, nil
}

func (p *parser) expect(tt token.TokenType, what string) (*token.Token, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t.Type != tt {
		return nil, malformed(fmt.Sprintf("%s where %s expected", describe(t), what), t.Pos)
	}
	return t, nil
}

func (p *parser) enter(pos *token.Pos) error {
	p.depth++
	if p.depth > p.opts.maxDepth {
		return malformed("nesting too deep", pos)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func describe(t *token.Token) string {
	switch t.Type {
	case token.TName:
		return fmt.Sprintf("name %q", t.Bytes)
	case token.TString:
		return "string"
	case token.TBytes:
		return "bytes"
	case token.TInteger, token.TFloat, token.TImag:
		return fmt.Sprintf("number %s", t.Bytes)
	default:
		return fmt.Sprintf("%q", t.Bytes)
	}
}

func parseInt(t *token.Token) (*ir.Node, error) {
	s := strings.ReplaceAll(string(t.Bytes), "_", "")
	base := 10
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			s = s[2:]
		}
	}
	i, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, malformed(fmt.Sprintf("integer %s", t.Bytes), t.Pos)
	}
	return ir.FromBigInt(i), nil
}

func parseFloat(t *token.Token, s string) (float64, error) {
	s = strings.ReplaceAll(s, "_", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, malformed(fmt.Sprintf("float %s", t.Bytes), t.Pos)
	}
	return f, nil
}
