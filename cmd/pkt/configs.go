package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/go-packet/compress"
	"github.com/signadot/go-packet/config"
	"github.com/signadot/go-packet/encode"
	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color  bool `cli:"name=color desc='encode with color'"`
	Indent int  `cli:"name=indent desc='indent nested values by n spaces'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	L bool `cli:"name=l aliases=literal desc='do i/o in literal notation'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) format(override *format.Format) format.Format {
	f := format.LiteralFormat
	if cfg.J {
		f = format.JSONFormat
	}
	if override != nil {
		f = *override
	}
	return f
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	return []parse.ParseOption{parse.ParseFormat(cfg.format(cfg.InFormat))}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.format(cfg.OutFormat)),
		encode.EncodeIndent(cfg.Indent),
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" && opt.Value != nil {
			return res
		}
	}
	if useColor(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

type EvalConfig struct {
	*MainConfig
	Eval *cli.Command
}

type ConvertConfig struct {
	*MainConfig
	Convert *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Diff *cli.Command
}

// SealConfig is shared by seal and open.
type SealConfig struct {
	*MainConfig

	Config string `cli:"name=config aliases=c desc='yaml config file'"`
	Mode   string `cli:"name=mode aliases=m desc='cipher mode: none, ctr, cbc, ctr-iv'"`
	Key    string `cli:"name=key aliases=k desc='cipher passphrase'"`
	KeyEnv string `cli:"name=key-env desc='environment variable holding the passphrase'"`
	Hash   string `cli:"name=hash desc='key hash: sha256, sha3-256, blake3'"`
	Zstd   bool   `cli:"name=z desc='zstd compress before encrypting'"`
	Hex    bool   `cli:"name=x desc='sealed bytes are hex encoded'"`

	Cmd *cli.Command
}

// packetConfig resolves the config file, the environment and the flags,
// in that order.
func (cfg *SealConfig) packetConfig() (*config.Config, error) {
	c := config.Default()
	if cfg.Config != "" {
		var err error
		if c, err = config.Load(cfg.Config); err != nil {
			return nil, err
		}
	}
	if err := c.FromEnv(); err != nil {
		return nil, err
	}
	if cfg.Mode != "" {
		if err := c.Cipher.Mode.UnmarshalText([]byte(cfg.Mode)); err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	if cfg.Hash != "" {
		if err := c.Cipher.Hash.UnmarshalText([]byte(cfg.Hash)); err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	if cfg.Key != "" {
		c.Cipher.Key = cfg.Key
	}
	if cfg.KeyEnv != "" {
		c.Cipher.Key = ""
		c.Cipher.KeyEnv = cfg.KeyEnv
	}
	if cfg.Zstd {
		c.Compression = compress.Zstd
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return c, nil
}
