package interpreter

import (
	"tsvm/program"
	"tsvm/runtime"
)

// executeConst handles the two literal-push instructions.
func (i *Interpreter) executeConst(frame *runtime.Frame, inst program.Instruction) error {
	switch inst.Op {
	case program.OpIPush:
		frame.Push(runtime.VInt(inst.IntArg))
	case program.OpFPush:
		frame.Push(runtime.VFloat(inst.FloatArg))
	}
	return nil
}
