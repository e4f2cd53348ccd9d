package verify

import (
	"testing"

	"tsvm/program"
	"tsvm/runtime"
)

func TestNewAbstractFrameSeedsArgumentsOnly(t *testing.T) {
	p := &program.Program{
		ArgumentCount: 1,
		Locals: []program.Local{
			{Type: runtime.Int, Label: "x"},
			{Type: runtime.Float, Label: "acc"},
		},
	}
	f := newAbstractFrame(p)
	if f.Locals[0] != runtime.Int {
		t.Errorf("arg local = %s, want int", f.Locals[0])
	}
	if f.Locals[1] != runtime.Void {
		t.Errorf("non-arg local = %s, want Void (Uninitialized)", f.Locals[1])
	}
}

func TestAbstractFramePushPop(t *testing.T) {
	f := &AbstractFrame{}
	f.push(runtime.Int)
	f.push(runtime.Float)
	v, err := f.pop()
	if err != nil {
		t.Fatal(err)
	}
	if v != runtime.Float {
		t.Errorf("popped %s, want float", v)
	}
	if len(f.Stack) != 1 {
		t.Errorf("stack len = %d, want 1", len(f.Stack))
	}
}

func TestAbstractFramePopEmptyIsError(t *testing.T) {
	f := &AbstractFrame{}
	if _, err := f.pop(); err == nil {
		t.Error("expected an underflow error")
	}
}

func TestAbstractFrameMergeAgreeingStacksNoChange(t *testing.T) {
	a := &AbstractFrame{Locals: []runtime.Type{runtime.Int}, Stack: []runtime.Type{runtime.Int}}
	b := &AbstractFrame{Locals: []runtime.Type{runtime.Int}, Stack: []runtime.Type{runtime.Int}}
	changed, err := a.merge(b)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("merging identical frames should report no change")
	}
}

func TestAbstractFrameMergeDisagreeingLocalWidensToVoid(t *testing.T) {
	a := &AbstractFrame{Locals: []runtime.Type{runtime.Int}}
	b := &AbstractFrame{Locals: []runtime.Type{runtime.Float}}
	changed, err := a.merge(b)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("merging disagreeing locals should report a change")
	}
	if a.Locals[0] != runtime.Void {
		t.Errorf("merged local = %s, want Void", a.Locals[0])
	}
}

func TestAbstractFrameMergeStackHeightMismatchErrors(t *testing.T) {
	a := &AbstractFrame{Stack: []runtime.Type{runtime.Int}}
	b := &AbstractFrame{Stack: []runtime.Type{runtime.Int, runtime.Int}}
	_, err := a.merge(b)
	if err == nil {
		t.Fatal("expected a stack-height-mismatch error")
	}
	ve, ok := err.(*VerifyError)
	if !ok {
		t.Fatalf("err is %T, want *VerifyError", err)
	}
	if ve.Kind != ErrStackHeightMismatch {
		t.Errorf("Kind = %s, want %s", ve.Kind, ErrStackHeightMismatch)
	}
}

func TestStepArithmeticPushesResultType(t *testing.T) {
	p := &program.Program{}
	f := &AbstractFrame{Stack: []runtime.Type{runtime.Int, runtime.Int}}
	if err := step(f, p, program.Instruction{Op: program.OpIAdd}); err != nil {
		t.Fatal(err)
	}
	if len(f.Stack) != 1 || f.Stack[0] != runtime.Int {
		t.Errorf("stack after iadd = %v, want [int]", f.Stack)
	}
}

func TestStepArithmeticTypeMismatchErrors(t *testing.T) {
	p := &program.Program{}
	f := &AbstractFrame{Stack: []runtime.Type{runtime.Float, runtime.Int}}
	err := step(f, p, program.Instruction{Op: program.OpIAdd})
	if err == nil {
		t.Fatal("expected an operand type mismatch")
	}
	ve := err.(*VerifyError)
	if ve.Kind != ErrOperandTypeMismatch {
		t.Errorf("Kind = %s, want %s", ve.Kind, ErrOperandTypeMismatch)
	}
}

func TestStepNewArrayRejectsIllegalTag(t *testing.T) {
	p := &program.Program{}
	f := &AbstractFrame{Stack: []runtime.Type{runtime.Int}}
	err := step(f, p, program.Instruction{Op: program.OpNewArray, IntArg: 2})
	if err == nil {
		t.Fatal("expected an illegal-array-tag error")
	}
	ve := err.(*VerifyError)
	if ve.Kind != ErrIllegalArrayTag {
		t.Errorf("Kind = %s, want %s", ve.Kind, ErrIllegalArrayTag)
	}
}

func TestStepAReturnAcceptsSubtype(t *testing.T) {
	p := &program.Program{ReturnType: runtime.Array}
	f := &AbstractFrame{Stack: []runtime.Type{runtime.IntArray}}
	if err := step(f, p, program.Instruction{Op: program.OpAReturn}); err != nil {
		t.Fatalf("IntArray should satisfy a generic Array return type: %v", err)
	}
}

func TestStepAReturnRejectsCrossArrayKind(t *testing.T) {
	p := &program.Program{ReturnType: runtime.IntArray}
	f := &AbstractFrame{Stack: []runtime.Type{runtime.FloatArray}}
	err := step(f, p, program.Instruction{Op: program.OpAReturn})
	if err == nil {
		t.Fatal("a FloatArray must not satisfy an IntArray return type")
	}
}

func TestStepDupDuplicatesTopOfStack(t *testing.T) {
	p := &program.Program{}
	f := &AbstractFrame{Stack: []runtime.Type{runtime.Int}}
	if err := step(f, p, program.Instruction{Op: program.OpDup}); err != nil {
		t.Fatal(err)
	}
	if len(f.Stack) != 2 || f.Stack[0] != runtime.Int || f.Stack[1] != runtime.Int {
		t.Errorf("stack after dup = %v, want [int int]", f.Stack)
	}
}
