package ssaopt

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/dshills/llopt/internal/useindex"
)

// EliminateCSE implements the CSE driver of spec.md §4.4 for a single
// candidate instruction a, sitting at blockA.Insts[posA]. It walks every
// block BD dominated by blockA (via dt.Dominated, which includes blockA
// itself), scanning BD for an instruction equivalent to a and erasing
// every match found — starting the scan of blockA itself just after
// posA, since a cannot be equivalent to something that hasn't executed
// yet, and since earlier instructions in blockA were already CSE'd
// against a's own ancestors on a prior visit.
//
// a itself is never erased by this call: CSE replaces every later
// equivalent instruction with a, not the other way around, matching
// spec.md's "nearest dominating equivalent instruction" framing from the
// perspective of the one being eliminated.
func EliminateCSE(dt *DomTree, blockA *ir.Block, posA int, idx *useindex.Index, stats *Stats) {
	a := blockA.Insts[posA]
	av, ok := a.(value.Value)
	if !ok {
		return
	}

	for _, bd := range dt.Dominated(blockA) {
		start := 0
		if bd == blockA {
			start = posA + 1
		}
		j := start
		for j < len(bd.Insts) {
			cand := bd.Insts[j]
			if !IsCSEEligible(cand) || !Equivalent(a, cand) {
				j++
				continue
			}
			cv := cand.(value.Value)
			idx.ReplaceAllUsesWith(cv, av)
			idx.Remove(cand)
			bd.Insts = append(bd.Insts[:j], bd.Insts[j+1:]...)
			stats.Inc(&stats.CSEElim)
			// bd.Insts shifted down into index j; don't advance.
		}
	}
}
