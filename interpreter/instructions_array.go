package interpreter

import (
	"tsvm/program"
	"tsvm/runtime"
)

// executeArray handles array allocation, element access, and length.
func (i *Interpreter) executeArray(frame *runtime.Frame, inst program.Instruction) error {
	switch inst.Op {
	case program.OpNewArray:
		size, err := frame.Pop()
		if err != nil {
			return err
		}
		var elementType runtime.Type
		switch inst.IntArg {
		case 0:
			elementType = runtime.Int
		case 1:
			elementType = runtime.Float
		default:
			return runtime.NewRuntimeError("newarray tag must be 0 or 1, got %d", inst.IntArg)
		}
		arr, err := runtime.NewArray(elementType, size.I)
		if err != nil {
			return err
		}
		if elementType == runtime.Int {
			frame.Push(runtime.VIntArray(arr))
		} else {
			frame.Push(runtime.VFloatArray(arr))
		}

	case program.OpIALoad, program.OpFALoad:
		index, err := frame.Pop()
		if err != nil {
			return err
		}
		ref, err := frame.Pop()
		if err != nil {
			return err
		}
		if ref.IsNone() {
			return runtime.NewRuntimeError("array reference is unallocated")
		}
		v, err := ref.Arr.Get(index.I)
		if err != nil {
			return err
		}
		frame.Push(v)

	case program.OpIAStore, program.OpFAStore:
		value, err := frame.Pop()
		if err != nil {
			return err
		}
		index, err := frame.Pop()
		if err != nil {
			return err
		}
		ref, err := frame.Pop()
		if err != nil {
			return err
		}
		if ref.IsNone() {
			return runtime.NewRuntimeError("array reference is unallocated")
		}
		if err := ref.Arr.Set(index.I, value); err != nil {
			return err
		}

	case program.OpArrayLength:
		ref, err := frame.Pop()
		if err != nil {
			return err
		}
		if ref.IsNone() {
			return runtime.NewRuntimeError("array reference is unallocated")
		}
		frame.Push(runtime.VInt(ref.Arr.Length()))
	}
	return nil
}
