package disasm

import (
	"strings"
	"testing"

	"github.com/evmts/bytecode-core/analysis"
)

func TestPrettyPrintIncludesOpcodeNamesAndPushValue(t *testing.T) {
	code := []byte{0x60, 0x2a, 0x00} // PUSH1 42, STOP
	a, err := analysis.AnalyzeRuntime(code, analysis.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := PrettyPrint(a)
	if !strings.Contains(out, "PUSH1") {
		t.Fatalf("expected PUSH1 in output:\n%s", out)
	}
	if !strings.Contains(out, "STOP") {
		t.Fatalf("expected STOP in output:\n%s", out)
	}
	if !strings.Contains(out, "0x2a") {
		t.Fatalf("expected the push operand 0x2a in output:\n%s", out)
	}
}
