package program

import (
	"testing"

	"tsvm/runtime"
)

func TestParseStringIdentity(t *testing.T) {
	src := `
func:
  name: identity
  type: int
  args:
    - {type: int, label: x}
ins:
  - {iload: x}
  - ireturn
`
	p, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "identity" {
		t.Errorf("Name = %q, want identity", p.Name)
	}
	if p.ReturnType != runtime.Int {
		t.Errorf("ReturnType = %s, want int", p.ReturnType)
	}
	if p.ArgumentCount != 1 {
		t.Errorf("ArgumentCount = %d, want 1", p.ArgumentCount)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	if p.InstructionAt(0).Op != OpILoad {
		t.Errorf("instruction 0 = %s, want iload", p.InstructionAt(0).Op)
	}
	if p.InstructionAt(1).Op != OpIReturn {
		t.Errorf("instruction 1 = %s, want ireturn", p.InstructionAt(1).Op)
	}
}

func TestParseStringResolvesLabels(t *testing.T) {
	src := `
func:
  name: loopy
  type: int
ins:
  - {label: top}
  - {goto: top}
`
	p, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.InstructionAt(0).IntArg; got != 0 {
		t.Errorf("goto target = %d, want 0", got)
	}
}

func TestParseStringRejectsDuplicateLabel(t *testing.T) {
	src := `
func:
  name: bad
  type: int
ins:
  - {label: dup}
  - nop
  - {label: dup}
  - nop
`
	if _, err := ParseString(src); err == nil {
		t.Error("expected a duplicate-label parse error")
	}
}

func TestParseStringRejectsLabelAsLastElement(t *testing.T) {
	src := `
func:
  name: bad
  type: int
ins:
  - nop
  - {label: trailing}
`
	if _, err := ParseString(src); err == nil {
		t.Error("expected a parse error for a trailing label")
	}
}

func TestParseStringRejectsNonIntegralFloatForIntImmediate(t *testing.T) {
	src := `
func:
  name: bad
  type: int
ins:
  - {ipush: 1.5}
  - ireturn
`
	if _, err := ParseString(src); err == nil {
		t.Error("expected an instruction error for a non-integral float literal")
	}
}

func TestParseStringAcceptsIntegralFloatForIntImmediate(t *testing.T) {
	src := `
func:
  name: ok
  type: int
ins:
  - {ipush: 2.0}
  - ireturn
`
	p, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	if p.InstructionAt(0).IntArg != 2 {
		t.Errorf("IntArg = %d, want 2", p.InstructionAt(0).IntArg)
	}
}

func TestParseStringLocalAccessAcceptsLabelOperand(t *testing.T) {
	src := `
func:
  name: ok
  type: int
  args:
    - {type: int, label: x}
ins:
  - {iload: x}
  - ireturn
`
	p, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	if p.InstructionAt(0).IntArg != 0 {
		t.Errorf("iload x resolved to %d, want local index 0", p.InstructionAt(0).IntArg)
	}
}

func TestParseStringRejectsLabelOperandForNonLocalAccessOpcode(t *testing.T) {
	src := `
func:
  name: bad
  type: int
  args:
    - {type: int, label: x}
ins:
  - {ipush: x}
  - ireturn
`
	if _, err := ParseString(src); err == nil {
		t.Error("expected an instruction error: ipush cannot take a label operand")
	}
}
