package interpreter

import (
	"tsvm/program"
	"tsvm/runtime"
)

// executeControl handles GOTO, the comparison/nullness branches, and
// the three typed returns. Jump targets are already absolute code
// indexes — Parse resolved every label before the interpreter ever
// sees an instruction — so a taken branch is a plain PC assignment.
func (i *Interpreter) executeControl(frame *runtime.Frame, inst program.Instruction) error {
	switch inst.Op {
	case program.OpGoto:
		frame.PC = int(inst.IntArg)

	case program.OpIfICmpEq, program.OpIfICmpNe, program.OpIfICmpGe, program.OpIfICmpGt, program.OpIfICmpLe, program.OpIfICmpLt:
		v2, v1, err := popInts(frame)
		if err != nil {
			return err
		}
		if compareInt(inst.Op, v1, v2) {
			frame.PC = int(inst.IntArg)
		}

	case program.OpIfFCmpEq, program.OpIfFCmpNe, program.OpIfFCmpGe, program.OpIfFCmpGt, program.OpIfFCmpLe, program.OpIfFCmpLt:
		v2, v1, err := popFloats(frame)
		if err != nil {
			return err
		}
		if compareFloat(inst.Op, v1, v2) {
			frame.PC = int(inst.IntArg)
		}

	case program.OpIfNull, program.OpIfNonNull:
		v, err := frame.Pop()
		if err != nil {
			return err
		}
		isNull := v.IsNone()
		if (inst.Op == program.OpIfNull) == isNull {
			frame.PC = int(inst.IntArg)
		}

	case program.OpIReturn, program.OpFReturn, program.OpAReturn:
		v, err := frame.Pop()
		if err != nil {
			return err
		}
		frame.Return = v
		frame.Finished = true
	}
	return nil
}

func popInts(frame *runtime.Frame) (v2, v1 int64, err error) {
	a, err := frame.Pop()
	if err != nil {
		return 0, 0, err
	}
	b, err := frame.Pop()
	if err != nil {
		return 0, 0, err
	}
	return a.I, b.I, nil
}

func popFloats(frame *runtime.Frame) (v2, v1 float64, err error) {
	a, err := frame.Pop()
	if err != nil {
		return 0, 0, err
	}
	b, err := frame.Pop()
	if err != nil {
		return 0, 0, err
	}
	return a.F, b.F, nil
}

func compareInt(op program.Opcode, v1, v2 int64) bool {
	switch op {
	case program.OpIfICmpEq:
		return v1 == v2
	case program.OpIfICmpNe:
		return v1 != v2
	case program.OpIfICmpGe:
		return v1 >= v2
	case program.OpIfICmpGt:
		return v1 > v2
	case program.OpIfICmpLe:
		return v1 <= v2
	case program.OpIfICmpLt:
		return v1 < v2
	default:
		return false
	}
}

func compareFloat(op program.Opcode, v1, v2 float64) bool {
	switch op {
	case program.OpIfFCmpEq:
		return v1 == v2
	case program.OpIfFCmpNe:
		return v1 != v2
	case program.OpIfFCmpGe:
		return v1 >= v2
	case program.OpIfFCmpGt:
		return v1 > v2
	case program.OpIfFCmpLe:
		return v1 <= v2
	case program.OpIfFCmpLt:
		return v1 < v2
	default:
		return false
	}
}
