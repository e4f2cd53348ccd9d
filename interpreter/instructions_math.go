package interpreter

import (
	"tsvm/program"
	"tsvm/runtime"
)

// executeMath handles integer/float arithmetic and the two numeric
// conversions. Every binary operator pops its right operand first,
// then its left, matching the order the verifier assumes.
func (i *Interpreter) executeMath(frame *runtime.Frame, inst program.Instruction) error {
	switch inst.Op {
	case program.OpIAdd, program.OpISub, program.OpIMul, program.OpIDiv:
		v2, v1, err := popInts(frame)
		if err != nil {
			return err
		}
		result, err := applyIntOp(inst.Op, v1, v2)
		if err != nil {
			return err
		}
		frame.Push(runtime.VInt(result))

	case program.OpFAdd, program.OpFSub, program.OpFMul, program.OpFDiv:
		v2, v1, err := popFloats(frame)
		if err != nil {
			return err
		}
		frame.Push(runtime.VFloat(applyFloatOp(inst.Op, v1, v2)))

	case program.OpI2F:
		v, err := frame.Pop()
		if err != nil {
			return err
		}
		frame.Push(runtime.VFloat(float64(v.I)))

	case program.OpF2I:
		v, err := frame.Pop()
		if err != nil {
			return err
		}
		frame.Push(runtime.VInt(int64(v.F)))
	}
	return nil
}

func applyIntOp(op program.Opcode, v1, v2 int64) (int64, error) {
	switch op {
	case program.OpIAdd:
		return v1 + v2, nil
	case program.OpISub:
		return v1 - v2, nil
	case program.OpIMul:
		return v1 * v2, nil
	case program.OpIDiv:
		if v2 == 0 {
			return 0, runtime.NewRuntimeError("integer division by zero")
		}
		return floorDiv(v1, v2), nil
	default:
		return 0, runtime.NewRuntimeError("not an integer arithmetic opcode: %s", op)
	}
}

// floorDiv is integer division rounding toward negative infinity, not
// toward zero — Go's native / truncates toward zero, which disagrees
// with IDIV's floor semantics whenever the operands' signs differ and
// the division isn't exact.
func floorDiv(v1, v2 int64) int64 {
	q := v1 / v2
	if (v1%v2 != 0) && ((v1 < 0) != (v2 < 0)) {
		q--
	}
	return q
}

func applyFloatOp(op program.Opcode, v1, v2 float64) float64 {
	switch op {
	case program.OpFAdd:
		return v1 + v2
	case program.OpFSub:
		return v1 - v2
	case program.OpFMul:
		return v1 * v2
	case program.OpFDiv:
		return v1 / v2
	default:
		return 0
	}
}
