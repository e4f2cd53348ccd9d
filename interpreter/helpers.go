package interpreter

import (
	"fmt"

	"tsvm/program"
	"tsvm/runtime"
)

// traceStep prints one instruction's PC, opcode, operand, and the stack
// depth before the instruction executes — a simplified descendant of the teacher's per-frame
// debug dump, scaled down to this VM's single-frame execution model.
func (i *Interpreter) traceStep(frame *runtime.Frame, pc int, inst program.Instruction) {
	switch program.Kind(inst.Op) {
	case program.ArgInt, program.ArgLabel:
		fmt.Printf("PC=%-4d %-12s %-6d stack=%d\n", pc, inst.Op, inst.IntArg, frame.StackHeight())
	case program.ArgFloat:
		fmt.Printf("PC=%-4d %-12s %-6g stack=%d\n", pc, inst.Op, inst.FloatArg, frame.StackHeight())
	default:
		fmt.Printf("PC=%-4d %-12s stack=%d\n", pc, inst.Op, frame.StackHeight())
	}
}
