package main

import (
	"github.com/evmts/bytecode-core/opcode"
	"github.com/evmts/bytecode-core/plan"
)

// stringHandlers builds a HandlerTable[string] mapping every raw opcode
// byte and every synthetic fused DispatchOp to a human-readable label.
// The CLI only ever reports plan structure, so a string label is a
// sufficient handler representation; a real interpreter would supply
// its own H (e.g. a func pointer or bytecode offset).
func stringHandlers() plan.HandlerTable[string] {
	handlers := make(plan.HandlerTable[string], 256+18)
	for b := 0; b < 256; b++ {
		handlers[plan.DispatchOp(b)] = opcode.Opcode(b).String()
	}

	fused := []struct {
		op    plan.DispatchOp
		label string
	}{
		{plan.FusedPushAddInline, "fused(PUSH+ADD,inline)"},
		{plan.FusedPushAddPointer, "fused(PUSH+ADD,pointer)"},
		{plan.FusedPushMulInline, "fused(PUSH+MUL,inline)"},
		{plan.FusedPushMulPointer, "fused(PUSH+MUL,pointer)"},
		{plan.FusedPushSubInline, "fused(PUSH+SUB,inline)"},
		{plan.FusedPushSubPointer, "fused(PUSH+SUB,pointer)"},
		{plan.FusedPushDivInline, "fused(PUSH+DIV,inline)"},
		{plan.FusedPushDivPointer, "fused(PUSH+DIV,pointer)"},
		{plan.FusedPushAndInline, "fused(PUSH+AND,inline)"},
		{plan.FusedPushAndPointer, "fused(PUSH+AND,pointer)"},
		{plan.FusedPushOrInline, "fused(PUSH+OR,inline)"},
		{plan.FusedPushOrPointer, "fused(PUSH+OR,pointer)"},
		{plan.FusedPushXorInline, "fused(PUSH+XOR,inline)"},
		{plan.FusedPushXorPointer, "fused(PUSH+XOR,pointer)"},
		{plan.FusedPushJumpInline, "fused(PUSH+JUMP,inline)"},
		{plan.FusedPushJumpPointer, "fused(PUSH+JUMP,pointer)"},
		{plan.FusedPushJumpiInline, "fused(PUSH+JUMPI,inline)"},
		{plan.FusedPushJumpiPointer, "fused(PUSH+JUMPI,pointer)"},
	}
	for _, f := range fused {
		handlers[f.op] = f.label
	}
	return handlers
}
