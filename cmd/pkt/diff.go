package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/go-packet/encode"
	"github.com/signadot/go-packet/ir"
	"github.com/signadot/go-packet/parse"

	"github.com/scott-cotton/cli"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	var docs [2]string
	for i, file := range args {
		d, err := readInput(cc, file)
		if err != nil {
			return err
		}
		n, err := parse.Parse(d, cfg.parseOpts()...)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		if docs[i], err = normalize(cfg.MainConfig, n); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	if cfg.Color {
		color.NoColor = false
	}
	colors := cfg.Color || useColor(cc.Out)
	differs, err := writeDiff(cc.Out, docs[0], docs[1], colors)
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// normalize renders n one element per line so that a line diff lines up
// with the structure.
func normalize(cfg *MainConfig, n *ir.Node) (string, error) {
	indent := cfg.Indent
	if indent <= 0 {
		indent = 2
	}
	buf := bytes.NewBuffer(nil)
	err := encode.Encode(n, buf, encode.EncodeFormat(cfg.format(cfg.OutFormat)), encode.EncodeIndent(indent))
	if err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// writeDiff writes a line diff of a and b to w and reports whether they
// differ.
func writeDiff(w io.Writer, a, b string, colors bool) (bool, error) {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	differs := false
	buf := bytes.NewBuffer(nil)
	for _, d := range diffs {
		prefix, paint := "  ", fmt.Sprintf
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix, paint, differs = "+ ", color.GreenString, true
		case diffpatch.DiffDelete:
			prefix, paint, differs = "- ", color.RedString, true
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = prefix + line
			if colors && d.Type != diffpatch.DiffEqual {
				line = paint("%s", line)
			}
			buf.WriteString(line)
		}
	}
	if !differs {
		return false, nil
	}
	_, err := w.Write(buf.Bytes())
	return true, err
}
