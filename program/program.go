package program

import "tsvm/runtime"

// Instruction is an opcode tag plus, for argumented variants, a single
// immediate operand — either an integer (a local index or a resolved
// absolute code index) or a float literal. Label operands are resolved
// to absolute indices by Parse before a Program reaches the core.
type Instruction struct {
	Op       Opcode
	IntArg   int64
	FloatArg float64
}

// Local is one entry of the ordered local-variable vector: the first
// ArgumentCount locals of a Program are parameters.
type Local struct {
	Type  runtime.Type
	Label string
}

// Program is a single verified-or-unverified function: its typed
// locals (first ArgumentCount are parameters), return type, and ordered
// instruction vector. Immutable after construction.
type Program struct {
	Name          string
	ReturnType    runtime.Type
	ArgumentCount int
	Locals        []Local
	Code          []Instruction
	// Labels maps every label name — variable and code alike — to the
	// offset it resolved to. Kept only for verifier/CLI diagnostics;
	// not consulted at run time.
	Labels map[string]int
}

// InstructionAt returns the instruction at index i.
func (p *Program) InstructionAt(i int) Instruction {
	return p.Code[i]
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Code)
}

// LocalAt returns the declared local at index k.
func (p *Program) LocalAt(k int) Local {
	return p.Locals[k]
}

// LocalCount returns the number of locals (arguments + function-locals).
func (p *Program) LocalCount() int {
	return len(p.Locals)
}

// LocalTypes returns the declared type of every local, in order.
func (p *Program) LocalTypes() []runtime.Type {
	types := make([]runtime.Type, len(p.Locals))
	for i, l := range p.Locals {
		types[i] = l.Type
	}
	return types
}
