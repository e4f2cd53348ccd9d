package interpreter

import (
	"tsvm/program"
	"tsvm/runtime"
)

// executeStack handles the four stack-shuffle instructions.
func (i *Interpreter) executeStack(frame *runtime.Frame, inst program.Instruction) error {
	switch inst.Op {
	case program.OpNop:
		// do nothing

	case program.OpPop:
		if _, err := frame.Pop(); err != nil {
			return err
		}

	case program.OpDup:
		v, err := frame.Pop()
		if err != nil {
			return err
		}
		frame.Push(v)
		frame.Push(v.Clone())

	case program.OpSwap:
		v2, err := frame.Pop()
		if err != nil {
			return err
		}
		v1, err := frame.Pop()
		if err != nil {
			return err
		}
		frame.Push(v2)
		frame.Push(v1)
	}
	return nil
}
