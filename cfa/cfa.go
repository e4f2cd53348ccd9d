// Package cfa partitions a program's instruction vector into basic
// blocks and computes their predecessor/successor edges — the
// control-flow analysis the verifier runs once before its dataflow
// pass.
package cfa

import "tsvm/program"

// BasicBlock is a maximal straight-line subsequence of instructions
// with a single entry at its first index and a single exit at its
// last index.
type BasicBlock struct {
	Indexes      []int
	Successors   []*BasicBlock
	Predecessors []*BasicBlock
}

// Start returns the index of the block's first instruction.
func (b *BasicBlock) Start() int {
	return b.Indexes[0]
}

// End returns the index of the block's last instruction.
func (b *BasicBlock) End() int {
	return b.Indexes[len(b.Indexes)-1]
}

func (b *BasicBlock) isEmpty() bool {
	return len(b.Indexes) == 0
}

// Analyze partitions p's code vector into basic blocks and connects
// them, in three passes: find every jump's sources and targets, scan
// the blocks, then connect them by those jump points.
//
// Grounded directly on the reference control-flow analyzer
// (analysis/controlflow.py): jump targets start new blocks, jump
// sources (and returns) close the current block.
func Analyze(p *program.Program) []*BasicBlock {
	jumpTarget := map[int][]int{} // target index -> source indexes that jump there
	jumpSource := map[int][]int{} // source index -> target indexes it can jump to

	findJumpPoints(p, jumpTarget, jumpSource)
	blocks := scanBasicBlocks(p, jumpTarget, jumpSource)
	connectBasicBlocks(p, blocks, jumpTarget, jumpSource)
	return blocks
}

func findJumpPoints(p *program.Program, jumpTarget, jumpSource map[int][]int) {
	for i := 0; i < p.Len(); i++ {
		inst := p.InstructionAt(i)
		if inst.Op == program.OpGoto || program.IsBranch(inst.Op) {
			target := int(inst.IntArg)
			jumpTarget[target] = append(jumpTarget[target], i)
			jumpSource[i] = append(jumpSource[i], target)
		}
		if program.IsBranch(inst.Op) {
			jumpTarget[i+1] = append(jumpTarget[i+1], i)
			jumpSource[i] = append(jumpSource[i], i+1)
		}
	}
}

func scanBasicBlocks(p *program.Program, jumpTarget, jumpSource map[int][]int) []*BasicBlock {
	var blocks []*BasicBlock
	bb := &BasicBlock{}

	for i := 0; i < p.Len(); i++ {
		inst := p.InstructionAt(i)
		switch {
		case len(jumpTarget[i]) > 0:
			prev := bb
			bb = &BasicBlock{}
			if !prev.isEmpty() {
				blocks = append(blocks, prev)
				// prev fell straight through into this join point: that
				// edge isn't recorded by any GOTO/branch, so wire it here.
				bb.Predecessors = append(bb.Predecessors, prev)
				prev.Successors = append(prev.Successors, bb)
			}
			bb.Indexes = append(bb.Indexes, i)
			if len(jumpSource[i]) > 0 || program.IsReturn(inst.Op) {
				blocks = append(blocks, bb)
				bb = &BasicBlock{}
			}
		case len(jumpSource[i]) > 0 || program.IsReturn(inst.Op):
			bb.Indexes = append(bb.Indexes, i)
			blocks = append(blocks, bb)
			bb = &BasicBlock{}
		default:
			bb.Indexes = append(bb.Indexes, i)
		}
	}
	if !bb.isEmpty() {
		blocks = append(blocks, bb)
	}
	return blocks
}

func connectBasicBlocks(p *program.Program, blocks []*BasicBlock, jumpTarget, jumpSource map[int][]int) {
	blockStartingAt := map[int]*BasicBlock{}
	blockEndingAt := map[int]*BasicBlock{}
	for _, b := range blocks {
		blockStartingAt[b.Start()] = b
		blockEndingAt[b.End()] = b
	}

	for _, b := range blocks {
		end := p.InstructionAt(b.End())
		if !program.IsReturn(end.Op) {
			for _, target := range jumpSource[b.End()] {
				if succ, ok := blockStartingAt[target]; ok {
					b.Successors = append(b.Successors, succ)
				}
			}
		}
		for _, source := range jumpTarget[b.Start()] {
			if pred, ok := blockEndingAt[source]; ok {
				b.Predecessors = append(b.Predecessors, pred)
			}
		}
	}
}
