package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/go-packet/encode"
	"github.com/signadot/go-packet/parse"

	"github.com/scott-cotton/cli"
)

func eval(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		d, err := io.ReadAll(cc.In)
		if err != nil {
			return fmt.Errorf("error reading: %w", err)
		}
		args = []string{strings.TrimSpace(string(d))}
	}
	opts := cfg.encOpts(cc.Out)
	for i, expr := range args {
		n, err := parse.Parse([]byte(expr), parse.ParseLiteral())
		if err != nil {
			return fmt.Errorf("error evaluating expression %d: %w", i, err)
		}
		if err := encode.Encode(n, cc.Out, opts...); err != nil {
			return fmt.Errorf("error encoding result %d: %w", i, err)
		}
		if _, err := cc.Out.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}
