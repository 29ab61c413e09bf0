package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/evmts/bytecode-core/analysis"
	"github.com/evmts/bytecode-core/disasm"
)

var disasmCommand = &cli.Command{
	Name:      "disasm",
	Usage:     "Disassemble bytecode to a colorized instruction listing",
	ArgsUsage: "<hex-string|file>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "initcode", Usage: "treat the input as constructor initcode"},
		&cli.StringFlag{Name: "config", Usage: "YAML config file overriding size/fusion defaults"},
	},
	Action: runDisasm,
}

func runDisasm(c *cli.Context) error {
	code, err := loadBytecode(c)
	if err != nil {
		return err
	}

	cfg, err := loadAnalysisConfig(c.String("config"))
	if err != nil {
		return err
	}

	var a *analysis.AnalyzedBytecode
	if c.Bool("initcode") {
		a, err = analysis.AnalyzeInitcode(code, cfg)
	} else {
		a, err = analysis.AnalyzeRuntime(code, cfg)
	}
	if err != nil {
		return fmt.Errorf("analyzing bytecode: %w", err)
	}

	fmt.Print(disasm.PrettyPrint(a))
	return nil
}
