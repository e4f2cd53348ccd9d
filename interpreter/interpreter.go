// Package interpreter executes a verified program's bytecode directly
// against the concrete runtime domain.
//
// This package is organized the way the teacher's was, one file per
// instruction category:
//   - interpreter.go: core loop and dispatch
//   - instructions_const.go: IPUSH/FPUSH
//   - instructions_load.go: ILOAD/FLOAD/ALOAD
//   - instructions_store.go: ISTORE/FSTORE/ASTORE
//   - instructions_stack.go: NOP/POP/DUP/SWAP
//   - instructions_control.go: GOTO, branches, returns
//   - instructions_math.go: arithmetic and conversions
//   - instructions_array.go: NEWARRAY, array load/store, ARRAYLENGTH
//   - helpers.go: tracing
package interpreter

import (
	"tsvm/program"
	"tsvm/runtime"
)

// Interpreter runs one program invocation at a time. It carries no
// state across calls to Run; the fields below only affect tracing.
type Interpreter struct {
	trace bool
}

// New creates an Interpreter. When trace is true, Run prints each
// instruction's PC, opcode, and stack depth as it executes.
func New(trace bool) *Interpreter {
	return &Interpreter{trace: trace}
}

// Run executes p to completion with the given argument values, which
// must agree in count and type with p's declared arguments — that
// agreement is checked by the caller (vm.Run's argument conversion), not
// by this function. Run returns the
// value passed to the return instruction that ended execution.
func (i *Interpreter) Run(p *program.Program, args []runtime.Value) (runtime.Value, error) {
	frame := runtime.NewFrame(p.LocalTypes(), p.ArgumentCount, args)

	for !frame.Finished {
		if frame.PC < 0 || frame.PC >= p.Len() {
			return runtime.Value{}, runtime.NewRuntimeError("program counter %d out of range", frame.PC)
		}
		inst := p.InstructionAt(frame.PC)
		pc := frame.PC
		frame.PC++

		if i.trace {
			i.traceStep(frame, pc, inst)
		}

		if err := i.executeInstruction(frame, p, inst); err != nil {
			return runtime.Value{}, err
		}
	}
	return frame.Return, nil
}

// executeInstruction dispatches to the category handler for inst.Op.
func (i *Interpreter) executeInstruction(frame *runtime.Frame, p *program.Program, inst program.Instruction) error {
	switch inst.Op {
	case program.OpIPush, program.OpFPush:
		return i.executeConst(frame, inst)

	case program.OpILoad, program.OpFLoad, program.OpALoad:
		return i.executeLoad(frame, inst)

	case program.OpIStore, program.OpFStore, program.OpAStore:
		return i.executeStore(frame, p, inst)

	case program.OpNop, program.OpPop, program.OpDup, program.OpSwap:
		return i.executeStack(frame, inst)

	case program.OpGoto, program.OpIReturn, program.OpFReturn, program.OpAReturn,
		program.OpIfICmpEq, program.OpIfICmpNe, program.OpIfICmpGe, program.OpIfICmpGt, program.OpIfICmpLe, program.OpIfICmpLt,
		program.OpIfFCmpEq, program.OpIfFCmpNe, program.OpIfFCmpGe, program.OpIfFCmpGt, program.OpIfFCmpLe, program.OpIfFCmpLt,
		program.OpIfNull, program.OpIfNonNull:
		return i.executeControl(frame, inst)

	case program.OpIAdd, program.OpISub, program.OpIMul, program.OpIDiv,
		program.OpFAdd, program.OpFSub, program.OpFMul, program.OpFDiv,
		program.OpI2F, program.OpF2I:
		return i.executeMath(frame, inst)

	case program.OpNewArray, program.OpIALoad, program.OpFALoad, program.OpIAStore, program.OpFAStore, program.OpArrayLength:
		return i.executeArray(frame, inst)

	default:
		return runtime.NewRuntimeError("unimplemented opcode %s at pc %d", inst.Op, frame.PC-1)
	}
}
