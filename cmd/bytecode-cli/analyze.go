package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/evmts/bytecode-core/analysis"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

var analyzeCommand = &cli.Command{
	Name:      "analyze",
	Usage:     "Validate bytecode and print summary stats",
	ArgsUsage: "<hex-string|file>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "initcode", Usage: "treat the input as constructor initcode"},
		&cli.StringFlag{Name: "config", Usage: "YAML config file overriding size/fusion defaults"},
	},
	Action: runAnalyze,
}

func runAnalyze(c *cli.Context) error {
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

	stats := analysis.ComputeStats(a)

	fmt.Println(headingStyle.Render("Bytecode analysis"))
	printField("length", uint32(a.Len()))
	hash := a.CodeHash()
	printField("code hash", fmt.Sprintf("0x%x", hash[:]))
	if td, ok := a.Trailer(); ok {
		printField("trailer", fmt.Sprintf("%d bytes (%s)", td.LengthInBytes, td.Kind))
	} else {
		printField("trailer", "none")
	}
	printField("jumpdests", len(stats.Jumpdests))
	printField("jumps", len(stats.Jumps))
	printField("backwards jumps", stats.BackwardsJumpsCount)
	printField("fusion candidates", len(stats.FusionCandidates))
	printField("looks like constructor", stats.LooksLikeConstructor)
	printField("push instructions", len(stats.PushRecords))
	if c.Bool("initcode") {
		printField("initcode gas cost", analysis.InitcodeGasCost(len(code)))
	}

	return nil
}

func printField(name string, value any) {
	fmt.Printf("  %s %v\n", labelStyle.Render(name+":"), value)
}
