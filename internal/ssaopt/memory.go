package ssaopt

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/dshills/llopt/internal/useindex"
)

// sameAddr implements spec.md §4.5's "addresses equal iff they are the
// identical Value (by identity). No alias reasoning beyond that."
func sameAddr(a, b value.Value) bool {
	return a == b
}

func sameType(a, b value.Value) bool {
	return a.Type() == b.Type()
}

// ScanLoad applies the memory-redundancy scanner's load case (spec.md
// §4.5) to the non-volatile load at block.Insts[i]. It performs the
// forward scan (eliminating later redundant loads of the same address)
// unconditionally, then the backward scan (looking for an earlier
// dominating load or store to forward from); if a backward candidate is
// found, ld itself is replaced and erased and ScanLoad reports erased.
// A volatile load never participates in either scan.
func ScanLoad(block *ir.Block, i int, ld *ir.InstLoad, idx *useindex.Index, stats *Stats) (erased bool) {
	if ld.Volatile {
		return false
	}

	forwardEliminateLoads(block, i, ld, idx, stats)

	source, kind := backwardFindLoadSource(block, i, ld)
	if source == nil {
		return false
	}
	idx.ReplaceAllUsesWith(ld, source)
	idx.Remove(ld)
	block.Insts = append(block.Insts[:i], block.Insts[i+1:]...)
	if kind == sourceKindLoad {
		stats.Inc(&stats.CSELdElim)
	} else {
		stats.Inc(&stats.CSEStore2Load)
	}
	return true
}

// forwardEliminateLoads walks successors of ld within block, erasing
// every later non-volatile load of the same address and type and
// replacing its uses with ld, until the first barrier: a store to any
// address, a call, or an invoke (spec.md §4.5). An unrelated volatile
// load is not a barrier for this scan — it is simply not itself a
// candidate — matching p2.cpp's forward loop, which only breaks on
// Instruction::Store/Call.
func forwardEliminateLoads(block *ir.Block, i int, ld *ir.InstLoad, idx *useindex.Index, stats *Stats) {
	j := i + 1
	for j < len(block.Insts) {
		cur := block.Insts[j]
		switch c := cur.(type) {
		case *ir.InstLoad:
			if !c.Volatile && sameAddr(c.Src, ld.Src) && sameType(c, ld) {
				idx.ReplaceAllUsesWith(c, ld)
				idx.Remove(c)
				block.Insts = append(block.Insts[:j], block.Insts[j+1:]...)
				stats.Inc(&stats.CSELdElim)
				continue // block.Insts shifted down into index j; don't advance
			}
			// unrelated (or volatile) load: not a candidate, not a barrier.
		case *ir.InstStore:
			return
		case *ir.InstCall:
			return
		}
		j++
	}
}

type sourceKind int

const (
	sourceKindLoad sourceKind = iota
	sourceKindStore
)

// backwardFindLoadSource walks predecessors of block.Insts[i] (the load
// ld) looking for the nearest dominating source: a prior non-volatile
// load of the same address and type, or a store to the same address
// whose stored-value type matches ld's result type. A store to a
// different address, a call, or a volatile load/store encountered first
// invalidates the search (spec.md §4.5).
func backwardFindLoadSource(block *ir.Block, i int, ld *ir.InstLoad) (value.Value, sourceKind) {
	for k := i - 1; k >= 0; k-- {
		cur := block.Insts[k]
		switch c := cur.(type) {
		case *ir.InstStore:
			if c.Volatile {
				return nil, 0
			}
			if !sameAddr(c.Dst, ld.Src) {
				return nil, 0
			}
			if sameType(c.Src, ld) {
				return c.Src, sourceKindStore
			}
			return nil, 0
		case *ir.InstLoad:
			if c.Volatile {
				return nil, 0
			}
			if sameAddr(c.Src, ld.Src) && sameType(c, ld) {
				return c, sourceKindLoad
			}
			// unrelated load: loads are never barriers, keep scanning.
		case *ir.InstCall:
			return nil, 0
		}
	}
	return nil, 0
}

// ScanStore applies the memory-redundancy scanner's store case (spec.md
// §4.5) to the non-volatile store at block.Insts[i]. It walks forward
// looking either for an immediately-following store to the same address
// (which makes st dead) or for loads of the same address to forward
// st's stored value into; any other load, store, call, or invoke stops
// the scan. A volatile store never participates.
func ScanStore(block *ir.Block, i int, st *ir.InstStore, idx *useindex.Index, stats *Stats) (erased bool) {
	if st.Volatile {
		return false
	}

	j := i + 1
	for j < len(block.Insts) {
		cur := block.Insts[j]
		switch c := cur.(type) {
		case *ir.InstStore:
			if sameAddr(c.Dst, st.Dst) && sameType(c.Src, st.Src) {
				idx.Remove(st)
				block.Insts = append(block.Insts[:i], block.Insts[i+1:]...)
				stats.Inc(&stats.CSEStElim)
				return true
			}
			return false
		case *ir.InstLoad:
			if !c.Volatile && sameAddr(c.Src, st.Dst) && sameType(c, st.Src) {
				idx.ReplaceAllUsesWith(c, st.Src)
				idx.Remove(c)
				block.Insts = append(block.Insts[:j], block.Insts[j+1:]...)
				stats.Inc(&stats.CSEStore2Load)
				continue // don't advance j; the removed load's slot now
				// holds the next instruction.
			}
			return false
		case *ir.InstCall:
			return false
		}
		j++
	}
	return false
}
