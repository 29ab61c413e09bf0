package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// loadBytecode resolves the "code" argument: a 0x-prefixed hex string, a
// bare hex string, or a path to a file containing one (whitespace-trimmed).
func loadBytecode(c *cli.Context) ([]byte, error) {
	arg := c.Args().First()
	if arg == "" {
		return nil, fmt.Errorf("missing bytecode argument (hex string or file path)")
	}

	raw := arg
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		raw = string(data)
	}

	return parseHex(raw)
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd number of hex characters")
	}
	code, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding hex: %w", err)
	}
	return code, nil
}
