package irio

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/pkg/errors"

	"github.com/dshills/llopt/internal/ssaopt"
)

// Verify is the defensive backstop spec.md §7 (error kind 2) describes:
// "the pass itself must not produce invalid IR; this check is a
// defensive backstop." It is out of the core's scope by design (spec.md
// §1) and is skippable from the CLI via --no. It checks the two
// invariants the core's own correctness depends on and that are cheap
// to confirm mechanically:
//
//  1. every block ends with a terminator (spec.md §3's BasicBlock
//     definition: "the last is a terminator");
//  2. every use of a Value is dominated by its definition (spec.md §8,
//     invariant 2, "SSA validity").
//
// It does not attempt full LLVM IR verification (type-correctness of
// every instruction, attribute compatibility, and so on) — that belongs
// to a real verifier, not this pass's own backstop.
func Verify(m *ir.Module) error {
	for _, fn := range m.Funcs {
		if err := verifyFunc(fn); err != nil {
			return errors.Wrapf(err, "function %s", fn.Name())
		}
	}
	return nil
}

func verifyFunc(fn *ir.Func) error {
	if len(fn.Blocks) == 0 {
		return nil
	}
	for _, b := range fn.Blocks {
		if b.Term == nil {
			return fmt.Errorf("block %s has no terminator", b.Name())
		}
	}

	dt := ssaopt.BuildDomTree(fn)
	defBlock := make(map[value.Value]*ir.Block)
	defPos := make(map[value.Value]int)
	for _, b := range fn.Blocks {
		for i, inst := range b.Insts {
			if v, ok := inst.(value.Value); ok {
				defBlock[v] = b
				defPos[v] = i
			}
		}
	}
	for _, p := range fn.Params {
		defBlock[p] = fn.Blocks[0]
		defPos[p] = -1
	}

	for _, b := range fn.Blocks {
		for i, inst := range b.Insts {
			if phi, ok := inst.(*ir.InstPhi); ok {
				if err := checkPhiDominance(phi, defBlock, dt); err != nil {
					return err
				}
				continue
			}
			if err := checkOperandDominance(inst.Operands(), b, i, defBlock, defPos, dt); err != nil {
				return err
			}
		}
		if err := checkOperandDominance(b.Term.Operands(), b, len(b.Insts), defBlock, defPos, dt); err != nil {
			return err
		}
	}
	return nil
}

// checkPhiDominance applies SSA's phi-specific dominance rule: each
// incoming value need only be defined in (or dominate) the
// corresponding predecessor block, not the block containing the phi
// itself — the value is live along that one incoming edge, which
// executes the whole predecessor block before the transfer of control.
func checkPhiDominance(phi *ir.InstPhi, defBlock map[value.Value]*ir.Block, dt *ssaopt.DomTree) error {
	for _, inc := range phi.Incs {
		db, ok := defBlock[inc.X]
		if !ok {
			continue
		}
		if db == inc.Pred || dt.Dominates(db, inc.Pred) {
			continue
		}
		return fmt.Errorf("phi incoming value %v not defined on predecessor edge %s", inc.X, inc.Pred.Name())
	}
	return nil
}

func checkOperandDominance(operands []*value.Value, useBlock *ir.Block, usePos int, defBlock map[value.Value]*ir.Block, defPos map[value.Value]int, dt *ssaopt.DomTree) error {
	for _, slot := range operands {
		v := *slot
		db, ok := defBlock[v]
		if !ok {
			continue // constant, global, or external: never a dominance concern
		}
		if db == useBlock {
			if defPos[v] < usePos {
				continue
			}
			return fmt.Errorf("value %v used before its definition in block %s", v, useBlock.Name())
		}
		if !dt.Dominates(db, useBlock) {
			return fmt.Errorf("value %v used in block %s without its defining block %s dominating", v, useBlock.Name(), db.Name())
		}
	}
	return nil
}
