package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/evmts/bytecode-core/analysis"
	"github.com/evmts/bytecode-core/plan"
)

var planCommand = &cli.Command{
	Name:      "plan",
	Usage:     "Build a dispatch plan and print its structure",
	ArgsUsage: "<hex-string|file>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "initcode", Usage: "treat the input as constructor initcode"},
		&cli.BoolFlag{Name: "advanced", Usage: "build the advanced fused-stream plan instead of the minimal one"},
		&cli.StringFlag{Name: "config", Usage: "YAML config file overriding size/fusion defaults"},
	},
	Action: runPlan,
}

func runPlan(c *cli.Context) error {
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

	handlers := stringHandlers()

	if !c.Bool("advanced") {
		mp := plan.BuildMinimalPlan(a, handlers)
		fmt.Println(headingStyle.Render("Minimal dispatch plan"))
		printField("length", uint32(mp.Analyzed().Len()))
		return nil
	}

	ap, err := plan.BuildAdvancedPlan(a, handlers, cfg)
	if err != nil {
		return fmt.Errorf("building advanced plan: %w", err)
	}

	fmt.Println(headingStyle.Render("Advanced dispatch plan"))
	printField("stream length", ap.StreamLen())
	printField("constant pool size", ap.ConstantCount())
	return nil
}
