package main

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/signadot/go-packet/compress"
	"github.com/signadot/go-packet/config"

	"github.com/scott-cotton/cli"
)

func seal(cfg *SealConfig, cc *cli.Context, args []string) error {
	d, pc, err := sealInput(cfg, cc, args)
	if err != nil {
		return err
	}
	ciph, err := pc.NewCipher()
	if err != nil {
		return err
	}
	if d, err = compress.Compress(d, pc.Compression); err != nil {
		return err
	}
	if d, err = ciph.Encrypt(d); err != nil {
		return err
	}
	if cfg.Hex {
		d = append([]byte(hex.EncodeToString(d)), '\n')
	}
	_, err = cc.Out.Write(d)
	return err
}

func open(cfg *SealConfig, cc *cli.Context, args []string) error {
	d, pc, err := sealInput(cfg, cc, args)
	if err != nil {
		return err
	}
	if cfg.Hex {
		d, err = hex.DecodeString(string(bytes.TrimSpace(d)))
		if err != nil {
			return fmt.Errorf("error decoding hex input: %w", err)
		}
	}
	ciph, err := pc.NewCipher()
	if err != nil {
		return err
	}
	if d, err = ciph.Decrypt(d); err != nil {
		return err
	}
	if d, err = compress.Decompress(d, pc.Compression); err != nil {
		return err
	}
	_, err = cc.Out.Write(d)
	return err
}

func sealInput(cfg *SealConfig, cc *cli.Context, args []string) ([]byte, *config.Config, error) {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return nil, nil, err
	}
	if len(args) > 1 {
		return nil, nil, fmt.Errorf("%w: at most one input file, got %v", cli.ErrUsage, args)
	}
	pc, err := cfg.packetConfig()
	if err != nil {
		return nil, nil, err
	}
	d, err := readInput(cc, inputs(args)[0])
	if err != nil {
		return nil, nil, err
	}
	return d, pc, nil
}
