package parse

import (
	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/token"
)

const DefaultMaxDepth = 200

type parseOpts struct {
	format   format.Format
	maxDepth int
}

func (o *parseOpts) TokenizeOpts() []token.TokenOpt {
	return []token.TokenOpt{token.TokenFormat(o.format)}
}

type ParseOption func(*parseOpts)

func ParseLiteral() ParseOption {
	return ParseFormat(format.LiteralFormat)
}
func ParseJSON() ParseOption {
	return ParseFormat(format.JSONFormat)
}
func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}

// ParseMaxDepth limits the nesting of containers and unary signs.
func ParseMaxDepth(n int) ParseOption {
	return func(o *parseOpts) { o.maxDepth = n }
}
