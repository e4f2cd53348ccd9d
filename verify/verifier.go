// Package verify performs the static abstract-interpretation pass over a
// parsed program before it is ever run: every jump target is checked in
// range, every local store/load is checked against its declared type,
// every leaf basic block is checked to end in a return, and a worklist
// dataflow fixed point confirms every instruction's operand types agree
// on every path that reaches it.
//
// Grounded on the reference verifier (analysis/verifier.py), split here
// across four ordered checks the same way: verify_jump_points,
// verify_load_store_vars, verify_return, verify_values.
package verify

import (
	"tsvm/cfa"
	"tsvm/program"
	"tsvm/runtime"
)

// Verify runs all four checks in order, stopping at the first failure.
// A clean return means p is safe to hand to the interpreter without
// further runtime type checking.
func Verify(p *program.Program) error {
	if err := verifyJumpPoints(p); err != nil {
		return err
	}
	if err := verifyLoadStoreVars(p); err != nil {
		return err
	}
	blocks := cfa.Analyze(p)
	if err := verifyReturn(p, blocks); err != nil {
		return err
	}
	return verifyValues(p, blocks)
}

// verifyJumpPoints rejects a GOTO/branch whose target falls outside the
// code vector before anything else runs.
func verifyJumpPoints(p *program.Program) error {
	for i := 0; i < p.Len(); i++ {
		inst := p.InstructionAt(i)
		if inst.Op == program.OpGoto || program.IsBranch(inst.Op) {
			target := int(inst.IntArg)
			if target < 0 || target >= p.Len() {
				return newError(ErrJumpOutOfRange, "instruction %d (%s) targets out-of-range offset %d", i, inst.Op, target)
			}
		}
	}
	return nil
}

// verifyLoadStoreVars checks every local access against the variable's
// declared type, independent of dataflow: an ISTORE/ILOAD pair naming a
// local declared FloatArray is wrong no matter what value reaches it at
// runtime.
func verifyLoadStoreVars(p *program.Program) error {
	for i := 0; i < p.Len(); i++ {
		inst := p.InstructionAt(i)
		switch inst.Op {
		case program.OpILoad, program.OpIStore:
			if err := checkLocalType(p, i, inst, runtime.Int); err != nil {
				return err
			}
		case program.OpFLoad, program.OpFStore:
			if err := checkLocalType(p, i, inst, runtime.Float); err != nil {
				return err
			}
		case program.OpALoad, program.OpAStore:
			local := p.LocalAt(int(inst.IntArg))
			if !local.Type.IsArrayType() {
				return newError(ErrStoreTypeMismatch, "instruction %d (%s) accesses local %q declared %s, not an array type", i, inst.Op, local.Label, local.Type)
			}
		}
	}
	return nil
}

func checkLocalType(p *program.Program, i int, inst program.Instruction, want runtime.Type) error {
	local := p.LocalAt(int(inst.IntArg))
	if local.Type != want {
		return newError(ErrStoreTypeMismatch, "instruction %d (%s) accesses local %q declared %s, expected %s", i, inst.Op, local.Label, local.Type, want)
	}
	return nil
}

// verifyReturn requires every leaf basic block (no successors) to end in
// a return instruction — control can never fall off the end of the
// code vector.
func verifyReturn(p *program.Program, blocks []*cfa.BasicBlock) error {
	for _, b := range blocks {
		if len(b.Successors) == 0 {
			last := p.InstructionAt(b.End())
			if !program.IsReturn(last.Op) {
				return newError(ErrLeafNoReturn, "block ending at instruction %d falls off the end without returning", b.End())
			}
		}
	}
	return nil
}

// verifyValues runs the worklist dataflow fixed point: starting from the
// entry block with the declared argument types, it abstractly executes
// each block's instructions and propagates the resulting frame to every
// successor, merging with whatever frame was already known there and
// re-queuing the successor whenever the merge changes it. The fixed
// point is reached when the queue drains.
func verifyValues(p *program.Program, blocks []*cfa.BasicBlock) error {
	var entry *cfa.BasicBlock
	for _, b := range blocks {
		if b.Start() == 0 {
			entry = b
			break
		}
	}
	if entry == nil {
		return nil
	}

	frameAt := map[*cfa.BasicBlock]*AbstractFrame{entry: newAbstractFrame(p)}
	queued := map[*cfa.BasicBlock]bool{entry: true}
	queue := []*cfa.BasicBlock{entry}

	for len(queue) > 0 {
		b := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		queued[b] = false

		frame := frameAt[b].clone()
		for _, idx := range b.Indexes {
			if err := step(frame, p, p.InstructionAt(idx)); err != nil {
				return err
			}
		}

		for _, succ := range b.Successors {
			existing, known := frameAt[succ]
			if !known {
				frameAt[succ] = frame.clone()
				if !queued[succ] {
					queue = append(queue, succ)
					queued[succ] = true
				}
				continue
			}
			changed, err := existing.merge(frame)
			if err != nil {
				return err
			}
			if changed && !queued[succ] {
				queue = append(queue, succ)
				queued[succ] = true
			}
		}
	}
	return nil
}
