package program

import "strings"

// Opcode is the closed enumeration of the instruction set — a tagged
// union discriminator, not an open class hierarchy: interpreter and
// verify dispatch on it with switch statements, not runtime type
// assertions. An opcode a switch does not list reaches its default case,
// which reports an error.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	// Push constants
	OpIPush
	OpFPush

	// Local access
	OpILoad
	OpFLoad
	OpALoad
	OpIStore
	OpFStore
	OpAStore

	// Control transfer
	OpGoto
	OpIReturn
	OpFReturn
	OpAReturn

	// Stack shuffle
	OpNop
	OpPop
	OpDup
	OpSwap

	// Integer comparison branches
	OpIfICmpEq
	OpIfICmpNe
	OpIfICmpGe
	OpIfICmpGt
	OpIfICmpLe
	OpIfICmpLt

	// Float comparison branches
	OpIfFCmpEq
	OpIfFCmpNe
	OpIfFCmpGe
	OpIfFCmpGt
	OpIfFCmpLe
	OpIfFCmpLt

	// Nullness branches
	OpIfNull
	OpIfNonNull

	// Integer arithmetic
	OpIAdd
	OpISub
	OpIMul
	OpIDiv

	// Float arithmetic
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv

	// Conversion
	OpI2F
	OpF2I

	// Array operations
	OpNewArray
	OpIALoad
	OpFALoad
	OpIAStore
	OpFAStore
	OpArrayLength
)

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "invalid"
}

// ArgKind classifies an opcode's immediate operand shape. Every opcode
// falls into exactly one of the four categorical shapes from the spec:
// no-argument, integer-immediate, float-immediate, or integer-label (a
// jump target, already resolved to an absolute code index by Parse).
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgInt
	ArgFloat
	ArgLabel
)

// keywords maps the case-insensitive textual keyword to its opcode.
// Each keyword maps to exactly one opcode; there are no duplicates.
var keywords = map[string]Opcode{
	"ipush":       OpIPush,
	"fpush":       OpFPush,
	"iload":       OpILoad,
	"fload":       OpFLoad,
	"aload":       OpALoad,
	"istore":      OpIStore,
	"fstore":      OpFStore,
	"astore":      OpAStore,
	"goto":        OpGoto,
	"ireturn":     OpIReturn,
	"freturn":     OpFReturn,
	"areturn":     OpAReturn,
	"nop":         OpNop,
	"pop":         OpPop,
	"dup":         OpDup,
	"swap":        OpSwap,
	"if_icmpeq":   OpIfICmpEq,
	"if_icmpne":   OpIfICmpNe,
	"if_icmpge":   OpIfICmpGe,
	"if_icmpgt":   OpIfICmpGt,
	"if_icmple":   OpIfICmpLe,
	"if_icmplt":   OpIfICmpLt,
	"if_fcmpeq":   OpIfFCmpEq,
	"if_fcmpne":   OpIfFCmpNe,
	"if_fcmpge":   OpIfFCmpGe,
	"if_fcmpgt":   OpIfFCmpGt,
	"if_fcmple":   OpIfFCmpLe,
	"if_fcmplt":   OpIfFCmpLt,
	"ifnull":      OpIfNull,
	"ifnonnull":   OpIfNonNull,
	"iadd":        OpIAdd,
	"isub":        OpISub,
	"imul":        OpIMul,
	"idiv":        OpIDiv,
	"fadd":        OpFAdd,
	"fsub":        OpFSub,
	"fmul":        OpFMul,
	"fdiv":        OpFDiv,
	"i2f":         OpI2F,
	"f2i":         OpF2I,
	"newarray":    OpNewArray,
	"iaload":      OpIALoad,
	"faload":      OpFALoad,
	"iastore":     OpIAStore,
	"fastore":     OpFAStore,
	"arraylength": OpArrayLength,
}

var opcodeNames = func() map[Opcode]string {
	m := make(map[Opcode]string, len(keywords))
	for kw, op := range keywords {
		m[op] = kw
	}
	return m
}()

// LookupKeyword resolves a case-insensitive opcode keyword. ok is false
// for an unknown keyword.
func LookupKeyword(kw string) (Opcode, bool) {
	op, ok := keywords[strings.ToLower(kw)]
	return op, ok
}

// Kind returns the argument shape of op.
func Kind(op Opcode) ArgKind {
	switch op {
	case OpIPush, OpILoad, OpAStore, OpIStore, OpFStore, OpALoad, OpFLoad, OpNewArray:
		return ArgInt
	case OpFPush:
		return ArgFloat
	case OpGoto, OpIfICmpEq, OpIfICmpNe, OpIfICmpGe, OpIfICmpGt, OpIfICmpLe, OpIfICmpLt,
		OpIfFCmpEq, OpIfFCmpNe, OpIfFCmpGe, OpIfFCmpGt, OpIfFCmpLe, OpIfFCmpLt,
		OpIfNull, OpIfNonNull:
		return ArgLabel
	default:
		return ArgNone
	}
}

// IsBranch reports whether op is a conditional jump (two successors:
// target and fall-through), as opposed to GOTO (one successor) or a
// return (no successors).
func IsBranch(op Opcode) bool {
	switch op {
	case OpIfICmpEq, OpIfICmpNe, OpIfICmpGe, OpIfICmpGt, OpIfICmpLe, OpIfICmpLt,
		OpIfFCmpEq, OpIfFCmpNe, OpIfFCmpGe, OpIfFCmpGt, OpIfFCmpLe, OpIfFCmpLt,
		OpIfNull, OpIfNonNull:
		return true
	default:
		return false
	}
}

// IsReturn reports whether op ends a basic block with a return.
func IsReturn(op Opcode) bool {
	switch op {
	case OpIReturn, OpFReturn, OpAReturn:
		return true
	default:
		return false
	}
}

// IsJumpSource reports whether op can transfer control away from the
// instruction following it — GOTO or any branch.
func IsJumpSource(op Opcode) bool {
	return op == OpGoto || IsBranch(op)
}

// IsLocalAccess reports whether op's integer immediate names a local
// variable slot — these opcodes alone may take a variable label instead
// of a numeric index.
func IsLocalAccess(op Opcode) bool {
	switch op {
	case OpILoad, OpFLoad, OpALoad, OpIStore, OpFStore, OpAStore:
		return true
	default:
		return false
	}
}
