package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, literal/l",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		},
		{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, literal/l",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "pkt").
		WithSynopsis("pkt [opts] command [opts]").
		WithDescription("pkt is a tool for working with packet wire documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return pktMain(cfg, cc, args)
		}).
		WithSubs(
			EvalCommand(cfg),
			ConvertCommand(cfg),
			DiffCommand(cfg),
			SealCommand(cfg),
			OpenCommand(cfg))
}

func EvalCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EvalConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Eval, "eval").
		WithAliases("e", "ev").
		WithSynopsis("eval [exprs]").
		WithDescription("safely evaluate literal expressions, from the arguments or stdin").
		WithRun(func(cc *cli.Context, args []string) error {
			return eval(cfg, cc, args)
		})
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c", "conv").
		WithSynopsis("convert [files]").
		WithDescription("convert wire documents between formats, see -I and -O").
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff a b").
		WithDescription("diff two wire documents after normalizing them").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func SealCommand(mainCfg *MainConfig) *cli.Command {
	return sealCommand(mainCfg, "seal", "compress and encrypt bytes", seal)
}

func OpenCommand(mainCfg *MainConfig) *cli.Command {
	return sealCommand(mainCfg, "open", "decrypt and decompress bytes", open)
}

func sealCommand(mainCfg *MainConfig, name, desc string, run func(*SealConfig, *cli.Context, []string) error) *cli.Command {
	cfg := &SealConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cmd, name).
		WithSynopsis(name + " [-c config] [-m mode -k key] [-hash h] [-z] [-x] [file]").
		WithDescription(desc).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}
