package disasm

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/evmts/bytecode-core/analysis"
)

var (
	pcStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	opStyle         = lipgloss.NewStyle().Bold(true)
	jumpdestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	terminatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	pushStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// PrettyPrint renders a's instructions one per line, colorized with
// lipgloss by opcode class: jumpdests in green, terminators in red,
// PUSH operands in amber.
func PrettyPrint(a *analysis.AnalyzedBytecode) string {
	var b strings.Builder
	it := NewIterator(a)
	for {
		inst, ok := it.Next()
		if !ok {
			break
		}
		b.WriteString(formatInstruction(inst))
		b.WriteString("\n")
	}
	return b.String()
}

func formatInstruction(inst Instruction) string {
	pc := pcStyle.Render(fmt.Sprintf("%6d:", inst.Pc))
	name := inst.Op.String()

	var styled string
	switch {
	case inst.IsJumpdest:
		styled = jumpdestStyle.Render(name)
	case inst.Op.IsTerminator():
		styled = terminatorStyle.Render(name)
	default:
		styled = opStyle.Render(name)
	}

	line := fmt.Sprintf("%s %s", pc, styled)
	if inst.PushValue != nil {
		line += " " + pushStyle.Render(fmt.Sprintf("0x%x", inst.PushValue.ToBig()))
	}
	return line
}
