package token

import "github.com/signadot/go-packet/format"

type tokenOpts struct {
	format format.Format
}

type TokenOpt func(*tokenOpts)

func TokenJSON() TokenOpt {
	return TokenFormat(format.JSONFormat)
}

func TokenLiteral() TokenOpt {
	return TokenFormat(format.LiteralFormat)
}

func TokenFormat(f format.Format) TokenOpt {
	return func(o *tokenOpts) { o.format = f }
}
