package interpreter

import (
	"tsvm/program"
	"tsvm/runtime"
)

// executeStore handles ISTORE/FSTORE/ASTORE: pop the stack top into a
// local variable slot. ASTORE additionally checks the popped
// reference's concrete array kind against the local's declared type —
// belt-and-suspenders alongside the verifier's static check, since
// executeStore is also reachable directly (without a verify pass) from
// callers that drive the interpreter on its own.
func (i *Interpreter) executeStore(frame *runtime.Frame, p *program.Program, inst program.Instruction) error {
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	if inst.Op == program.OpAStore {
		declared := p.LocalAt(int(inst.IntArg)).Type
		if v.Kind != declared {
			return runtime.NewRuntimeError("cannot store %s into local of declared type %s", v.Kind, declared)
		}
	}
	if err := frame.SetLocal(int(inst.IntArg), v); err != nil {
		return err
	}
	return nil
}
