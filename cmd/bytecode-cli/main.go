// Command bytecode-cli validates, analyzes, disassembles, and builds
// dispatch plans for EVM legacy bytecode from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "bytecode-cli",
		Usage: "Validate, analyze, disassemble, and plan EVM bytecode",
		Commands: []*cli.Command{
			analyzeCommand,
			disasmCommand,
			planCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
