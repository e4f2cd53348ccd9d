package program

import (
	"io"

	"github.com/goccy/go-yaml"
	"tsvm/runtime"
)

// yamlDocument mirrors the §6 program-source document shape: a function
// record, a local-variables record, and an instruction sequence. The
// instruction sequence is decoded generically (each entry is either a
// bare string or a single-entry mapping) because its shape is
// heterogeneous, exactly as the reference front-end (code_parser.py)
// walks a raw parsed document rather than a fixed schema.
type yamlDocument struct {
	Func struct {
		Name string       `yaml:"name"`
		Type string       `yaml:"type"`
		Args []yamlVarDecl `yaml:"args"`
	} `yaml:"func"`
	LVars []yamlVarDecl `yaml:"lvars"`
	Ins   []any         `yaml:"ins"`
}

type yamlVarDecl struct {
	Type  string `yaml:"type"`
	Label string `yaml:"label"`
}

var typeKeywords = map[string]runtime.Type{
	"int":        runtime.Int,
	"float":      runtime.Float,
	"intarray":   runtime.IntArray,
	"floatarray": runtime.FloatArray,
}

func lookupType(kw string) (runtime.Type, error) {
	t, ok := typeKeywords[kw]
	if !ok {
		return runtime.Void, NewParseError("unknown type keyword %q", kw)
	}
	return t, nil
}

// Parse decodes the §6 textual program source into a Program: resolving
// labels (both variable labels and code labels share one namespace),
// validating label uniqueness and placement, and assembling each
// instruction via NewInstruction.
func Parse(r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewParseError("reading program source: %v", err)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewParseError("decoding yaml: %v", err)
	}
	return fromDocument(&doc)
}

// ParseString is a convenience wrapper over Parse for in-memory sources
// such as test fixtures.
func ParseString(s string) (*Program, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return nil, NewParseError("decoding yaml: %v", err)
	}
	return fromDocument(&doc)
}

func fromDocument(doc *yamlDocument) (*Program, error) {
	if doc.Func.Name == "" {
		return nil, NewParseError(`"func" not defined`)
	}
	returnType, err := lookupType(doc.Func.Type)
	if err != nil {
		return nil, err
	}

	p := &Program{
		Name:       doc.Func.Name,
		ReturnType: returnType,
		Labels:     make(map[string]int),
	}

	if err := addVars(p, doc.Func.Args, true); err != nil {
		return nil, err
	}
	if err := addVars(p, doc.LVars, false); err != nil {
		return nil, err
	}
	if err := addInstructions(p, doc.Ins); err != nil {
		return nil, err
	}
	return p, nil
}

func addVars(p *Program, decls []yamlVarDecl, isArgument bool) error {
	for _, d := range decls {
		t, err := lookupType(d.Type)
		if err != nil {
			return err
		}
		if isArgument {
			p.ArgumentCount++
		}
		p.Locals = append(p.Locals, Local{Type: t, Label: d.Label})
		if err := addLabel(p, d.Label, len(p.Locals)-1); err != nil {
			return err
		}
	}
	return nil
}

func addLabel(p *Program, label string, offset int) error {
	if label == "" {
		return NewParseError("every local variable needs a label")
	}
	if _, exists := p.Labels[label]; exists {
		return NewParseError("duplicate label %q", label)
	}
	p.Labels[label] = offset
	return nil
}

// addInstructions performs the two-pass label resolution from §6:
// pass one records every label marker against the offset of the
// instruction that follows it (rejecting a label immediately following
// another label, a label as the last element, and duplicate names);
// pass two assembles each instruction, resolving label-name operands to
// the already-known offsets.
func addInstructions(p *Program, ins []any) error {
	offset := 0
	labelPending := ""
	for idx, item := range ins {
		label, isLabel := labelMarker(item)
		if isLabel {
			if labelPending != "" {
				return NewParseError("label cannot immediately follow another label: %q after %q", label, labelPending)
			}
			if idx == len(ins)-1 {
				return NewParseError("label %q cannot be the last element", label)
			}
			if err := addLabel(p, label, offset); err != nil {
				return err
			}
			labelPending = label
			continue
		}
		labelPending = ""
		offset++
	}

	for _, item := range ins {
		if _, isLabel := labelMarker(item); isLabel {
			continue
		}
		inst, err := decodeInstruction(p, item)
		if err != nil {
			return err
		}
		p.Code = append(p.Code, inst)
	}
	return nil
}

// labelMarker reports whether item is a {label: <name>} marker, and if
// so returns the name.
func labelMarker(item any) (string, bool) {
	m, ok := item.(map[string]any)
	if !ok || len(m) != 1 {
		return "", false
	}
	v, ok := m["label"]
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func decodeInstruction(p *Program, item any) (Instruction, error) {
	switch v := item.(type) {
	case string:
		op, ok := LookupKeyword(v)
		if !ok {
			return Instruction{}, NewParseError("unknown instruction keyword %q", v)
		}
		if Kind(op) != ArgNone {
			return Instruction{}, NewParseError("instruction %q requires an argument", v)
		}
		return Instruction{Op: op}, nil

	case map[string]any:
		if len(v) != 1 {
			return Instruction{}, NewParseError("bad instruction syntax: %v", v)
		}
		var kw string
		var operand any
		for k, val := range v {
			kw, operand = k, val
		}
		op, ok := LookupKeyword(kw)
		if !ok {
			return Instruction{}, NewParseError("unknown instruction keyword %q", kw)
		}
		if Kind(op) == ArgNone {
			return Instruction{}, NewParseError("instruction %q takes no argument", kw)
		}
		return NewInstruction(p, op, operand)

	default:
		return Instruction{}, NewParseError("unknown instruction format %v", item)
	}
}

// NewInstruction assembles one Instruction from an opcode already known
// to require an argument and a decoded YAML operand. Label-name operands
// are resolved against p's label table; a missing required immediate or
// an immediate of the wrong kind is an InstructionError (spec §7 kind
// 4), distinct from the ParseError kinds raised by document decoding.
func NewInstruction(p *Program, op Opcode, operand any) (Instruction, error) {
	if operand == nil {
		return Instruction{}, NewInstructionError("instruction %s is missing its immediate", op)
	}

	switch Kind(op) {
	case ArgLabel:
		name, ok := operand.(string)
		if ok {
			target, known := p.Labels[name]
			if !known {
				return Instruction{}, NewInstructionError("label %q is not defined", name)
			}
			return Instruction{Op: op, IntArg: int64(target)}, nil
		}
		n, ok := asInt(operand)
		if !ok {
			return Instruction{}, NewInstructionError("instruction %s requires a label or integer code index", op)
		}
		return Instruction{Op: op, IntArg: n}, nil

	case ArgInt:
		// ILOAD/ISTORE/FLOAD/FSTORE/ALOAD/ASTORE may also name a local
		// variable's label instead of its numeric index.
		if name, ok := operand.(string); ok {
			if !IsLocalAccess(op) {
				return Instruction{}, NewInstructionError("instruction %s requires an integer argument, got label %q", op, name)
			}
			idx, known := p.Labels[name]
			if !known {
				return Instruction{}, NewInstructionError("label %q is not defined", name)
			}
			return Instruction{Op: op, IntArg: int64(idx)}, nil
		}
		n, ok := asInt(operand)
		if !ok {
			return Instruction{}, NewInstructionError("instruction %s requires an integer argument, got %v", op, operand)
		}
		return Instruction{Op: op, IntArg: n}, nil

	case ArgFloat:
		f, ok := asFloat(operand)
		if !ok {
			return Instruction{}, NewInstructionError("instruction %s requires a float argument, got %v", op, operand)
		}
		return Instruction{Op: op, FloatArg: f}, nil

	default:
		return Instruction{}, NewInstructionError("instruction %s takes no argument", op)
	}
}

// asInt accepts only an integral numeric literal — spec §9's Open
// Question is resolved as strict rejection: a float literal with a
// fractional part is never silently coerced into an integer-immediate
// opcode.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
