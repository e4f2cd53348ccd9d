package interpreter

import (
	"tsvm/program"
	"tsvm/runtime"
)

// executeLoad handles ILOAD/FLOAD/ALOAD: push a local variable's value.
func (i *Interpreter) executeLoad(frame *runtime.Frame, inst program.Instruction) error {
	v, err := frame.Local(int(inst.IntArg))
	if err != nil {
		return err
	}
	if v.IsNone() {
		return runtime.NewRuntimeError("local %d read before it was ever written", inst.IntArg)
	}
	frame.Push(v)
	return nil
}
