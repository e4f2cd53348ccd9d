package verify

import (
	"tsvm/program"
	"tsvm/runtime"
)

// AbstractFrame is the verifier's dataflow state: identical in shape to
// a concrete runtime.Frame, but every slot holds a type tag
// (runtime.Type) instead of a value. runtime.Void doubles as the
// lattice's top element, Uninitialized.
type AbstractFrame struct {
	Locals []runtime.Type
	Stack  []runtime.Type
}

func newAbstractFrame(p *program.Program) *AbstractFrame {
	locals := make([]runtime.Type, p.LocalCount())
	for i, t := range p.LocalTypes() {
		if i < p.ArgumentCount {
			locals[i] = t
		} else {
			locals[i] = runtime.Void
		}
	}
	return &AbstractFrame{Locals: locals}
}

func (f *AbstractFrame) clone() *AbstractFrame {
	c := &AbstractFrame{
		Locals: make([]runtime.Type, len(f.Locals)),
		Stack:  make([]runtime.Type, len(f.Stack)),
	}
	copy(c.Locals, f.Locals)
	copy(c.Stack, f.Stack)
	return c
}

func (f *AbstractFrame) push(t runtime.Type) {
	f.Stack = append(f.Stack, t)
}

func (f *AbstractFrame) pop() (runtime.Type, error) {
	n := len(f.Stack)
	if n == 0 {
		return runtime.Void, newError(ErrOperandTypeMismatch, "stack underflow")
	}
	t := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	return t, nil
}

// mergeType is the lattice join: equal types merge to themselves,
// unequal types merge to Uninitialized (the top element).
func mergeType(a, b runtime.Type) runtime.Type {
	if a == b {
		return a
	}
	return runtime.Void
}

// merge folds other into f in place, reporting whether anything
// changed. A stack-height disagreement between the two incoming paths
// is a fatal verify error — every path into a program point must agree
// on stack depth.
func (f *AbstractFrame) merge(other *AbstractFrame) (bool, error) {
	if len(f.Stack) != len(other.Stack) {
		return false, newError(ErrStackHeightMismatch, "incompatible stack heights %d and %d", len(f.Stack), len(other.Stack))
	}
	changed := false
	for i := range f.Locals {
		m := mergeType(f.Locals[i], other.Locals[i])
		if m != f.Locals[i] {
			f.Locals[i] = m
			changed = true
		}
	}
	for i := range f.Stack {
		m := mergeType(f.Stack[i], other.Stack[i])
		if m != f.Stack[i] {
			f.Stack[i] = m
			changed = true
		}
	}
	return changed, nil
}

func expect(kind Kind, got, want runtime.Type) error {
	if got != want {
		return newError(kind, "expected %s, got %s", want, got)
	}
	return nil
}

func expectArray(kind Kind, got runtime.Type) error {
	if !got.IsArrayType() {
		return newError(kind, "expected an array reference, got %s", got)
	}
	return nil
}

// step symbolically executes one instruction on the abstract domain,
// in place, enforcing every opcode's static type contract. It mirrors
// the concrete interpreter's dispatch shape but never touches real
// values — only type tags.
//
// Grounded on the reference abstract interpreter's dual of
// BasicVerifier.{copy,unary,binary,ternary}_operation and
// analysis/frame.py's Frame.execute.
func step(f *AbstractFrame, p *program.Program, inst program.Instruction) error {
	switch inst.Op {
	case program.OpIPush:
		f.push(runtime.Int)
	case program.OpFPush:
		f.push(runtime.Float)

	case program.OpILoad, program.OpFLoad, program.OpALoad:
		local := p.LocalAt(int(inst.IntArg))
		cur := f.Locals[inst.IntArg]
		switch inst.Op {
		case program.OpILoad:
			if err := expect(ErrOperandTypeMismatch, cur, runtime.Int); err != nil {
				return err
			}
		case program.OpFLoad:
			if err := expect(ErrOperandTypeMismatch, cur, runtime.Float); err != nil {
				return err
			}
		case program.OpALoad:
			if err := expectArray(ErrOperandTypeMismatch, cur); err != nil {
				return err
			}
		}
		_ = local
		f.push(cur)

	case program.OpIStore, program.OpFStore, program.OpAStore:
		v, err := f.pop()
		if err != nil {
			return err
		}
		declared := p.LocalAt(int(inst.IntArg)).Type
		switch inst.Op {
		case program.OpIStore:
			if err := expect(ErrOperandTypeMismatch, v, runtime.Int); err != nil {
				return err
			}
		case program.OpFStore:
			if err := expect(ErrOperandTypeMismatch, v, runtime.Float); err != nil {
				return err
			}
		case program.OpAStore:
			if err := expectArray(ErrOperandTypeMismatch, v); err != nil {
				return err
			}
			if v != declared {
				return newError(ErrOperandTypeMismatch, "cannot store %s into local of declared type %s", v, declared)
			}
		}
		f.Locals[inst.IntArg] = v

	case program.OpGoto:
		// no stack effect

	case program.OpIReturn, program.OpFReturn, program.OpAReturn:
		v, err := f.pop()
		if err != nil {
			return err
		}
		switch inst.Op {
		case program.OpIReturn:
			if err := expect(ErrOperandTypeMismatch, v, runtime.Int); err != nil {
				return err
			}
		case program.OpFReturn:
			if err := expect(ErrOperandTypeMismatch, v, runtime.Float); err != nil {
				return err
			}
		case program.OpAReturn:
			if err := expectArray(ErrOperandTypeMismatch, v); err != nil {
				return err
			}
			if !v.IsSubtypeOf(p.ReturnType) {
				return newError(ErrOperandTypeMismatch, "%s is not a subtype of return type %s", v, p.ReturnType)
			}
		}
		if inst.Op != program.OpAReturn && v != p.ReturnType {
			return newError(ErrOperandTypeMismatch, "return type mismatch: expected %s, got %s", p.ReturnType, v)
		}

	case program.OpNop:
		// no effect

	case program.OpPop:
		if _, err := f.pop(); err != nil {
			return err
		}

	case program.OpDup:
		v, err := f.pop()
		if err != nil {
			return err
		}
		f.push(v)
		f.push(v)

	case program.OpSwap:
		v2, err := f.pop()
		if err != nil {
			return err
		}
		v1, err := f.pop()
		if err != nil {
			return err
		}
		f.push(v2)
		f.push(v1)

	case program.OpIfICmpEq, program.OpIfICmpNe, program.OpIfICmpGe, program.OpIfICmpGt, program.OpIfICmpLe, program.OpIfICmpLt:
		if err := popTwo(f, runtime.Int, runtime.Int); err != nil {
			return err
		}

	case program.OpIfFCmpEq, program.OpIfFCmpNe, program.OpIfFCmpGe, program.OpIfFCmpGt, program.OpIfFCmpLe, program.OpIfFCmpLt:
		if err := popTwo(f, runtime.Float, runtime.Float); err != nil {
			return err
		}

	case program.OpIfNull, program.OpIfNonNull:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := expectArray(ErrOperandTypeMismatch, v); err != nil {
			return err
		}

	case program.OpIAdd, program.OpISub, program.OpIMul, program.OpIDiv:
		if err := popTwo(f, runtime.Int, runtime.Int); err != nil {
			return err
		}
		f.push(runtime.Int)

	case program.OpFAdd, program.OpFSub, program.OpFMul, program.OpFDiv:
		if err := popTwo(f, runtime.Float, runtime.Float); err != nil {
			return err
		}
		f.push(runtime.Float)

	case program.OpI2F:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := expect(ErrOperandTypeMismatch, v, runtime.Int); err != nil {
			return err
		}
		f.push(runtime.Float)

	case program.OpF2I:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := expect(ErrOperandTypeMismatch, v, runtime.Float); err != nil {
			return err
		}
		f.push(runtime.Int)

	case program.OpNewArray:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := expect(ErrOperandTypeMismatch, v, runtime.Int); err != nil {
			return err
		}
		switch inst.IntArg {
		case 0:
			f.push(runtime.IntArray)
		case 1:
			f.push(runtime.FloatArray)
		default:
			return newError(ErrIllegalArrayTag, "newarray tag must be 0 or 1, got %d", inst.IntArg)
		}

	case program.OpArrayLength:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := expectArray(ErrOperandTypeMismatch, v); err != nil {
			return err
		}
		f.push(runtime.Int)

	case program.OpIALoad:
		if err := popArrayAndIndex(f, runtime.IntArray); err != nil {
			return err
		}
		f.push(runtime.Int)

	case program.OpFALoad:
		if err := popArrayAndIndex(f, runtime.FloatArray); err != nil {
			return err
		}
		f.push(runtime.Float)

	case program.OpIAStore:
		if err := popArrayStore(f, runtime.IntArray, runtime.Int); err != nil {
			return err
		}

	case program.OpFAStore:
		if err := popArrayStore(f, runtime.FloatArray, runtime.Float); err != nil {
			return err
		}

	default:
		return newError(ErrOperandTypeMismatch, "unknown opcode %s", inst.Op)
	}
	return nil
}

func popTwo(f *AbstractFrame, want2, want1 runtime.Type) error {
	v2, err := f.pop()
	if err != nil {
		return err
	}
	v1, err := f.pop()
	if err != nil {
		return err
	}
	if err := expect(ErrOperandTypeMismatch, v2, want2); err != nil {
		return err
	}
	if err := expect(ErrOperandTypeMismatch, v1, want1); err != nil {
		return err
	}
	return nil
}

func popArrayAndIndex(f *AbstractFrame, arrayType runtime.Type) error {
	index, err := f.pop()
	if err != nil {
		return err
	}
	arr, err := f.pop()
	if err != nil {
		return err
	}
	if err := expect(ErrOperandTypeMismatch, index, runtime.Int); err != nil {
		return err
	}
	return expect(ErrOperandTypeMismatch, arr, arrayType)
}

func popArrayStore(f *AbstractFrame, arrayType, elementType runtime.Type) error {
	value, err := f.pop()
	if err != nil {
		return err
	}
	index, err := f.pop()
	if err != nil {
		return err
	}
	arr, err := f.pop()
	if err != nil {
		return err
	}
	if err := expect(ErrOperandTypeMismatch, value, elementType); err != nil {
		return err
	}
	if err := expect(ErrOperandTypeMismatch, index, runtime.Int); err != nil {
		return err
	}
	return expect(ErrOperandTypeMismatch, arr, arrayType)
}
