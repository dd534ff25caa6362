package ssaopt

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/dshills/llopt/internal/useindex"
)

// RunFunction drives spec.md §4.6's per-function optimization loop over
// fn: for every instruction, in precedence order, try dead elimination,
// then algebraic simplification, then (for loads and stores) the
// memory-redundancy scanner, then CSE — applying at most one rewrite
// per visit and never advancing past an instruction that visit erased.
// Declaration-only functions (no blocks) are skipped; their stats never
// increment Functions, matching the original pass's "non-empty
// functions encountered" wording (spec.md §6.3).
func RunFunction(fn *ir.Func, stats *Stats) {
	if len(fn.Blocks) == 0 {
		return
	}
	stats.Inc(&stats.Functions)

	idx := useindex.New()
	for _, b := range fn.Blocks {
		for _, inst := range b.Insts {
			idx.Add(inst)
		}
		if b.Term != nil {
			idx.Add(b.Term)
		}
	}

	dt := BuildDomTree(fn)

	for _, b := range fn.Blocks {
		i := 0
		for i < len(b.Insts) {
			inst := b.Insts[i]

			if IsDead(inst, idx) {
				idx.Remove(inst)
				b.Insts = append(b.Insts[:i], b.Insts[i+1:]...)
				stats.Inc(&stats.CSEDead)
				continue // don't advance; b.Insts[i] is now the successor
			}

			if nv, ok := Simplify(inst); ok {
				iv := inst.(value.Value)
				idx.ReplaceAllUsesWith(iv, nv)
				idx.Remove(inst)
				b.Insts = append(b.Insts[:i], b.Insts[i+1:]...)
				stats.Inc(&stats.CSESimplify)
				continue
			}

			if ld, ok := IsLoad(inst); ok {
				if ScanLoad(b, i, ld, idx, stats) {
					continue // ld itself was erased
				}
				i++
				continue
			}

			if st, ok := IsStore(inst); ok {
				if ScanStore(b, i, st, idx, stats) {
					continue
				}
				i++
				continue
			}

			if IsCSEEligible(inst) {
				EliminateCSE(dt, b, i, idx, stats)
			}
			i++
		}
	}

	countFinal(fn, stats)
}

// countFinal tallies Instructions, Loads, and Stores over fn's surviving
// instructions, per spec.md §6.3's "in the final module" wording.
func countFinal(fn *ir.Func, stats *Stats) {
	for _, b := range fn.Blocks {
		for _, inst := range b.Insts {
			stats.Inc(&stats.Instructions)
			switch inst.(type) {
			case *ir.InstLoad:
				stats.Inc(&stats.Loads)
			case *ir.InstStore:
				stats.Inc(&stats.Stores)
			}
		}
		if b.Term != nil {
			stats.Inc(&stats.Instructions)
		}
	}
}

// Run applies RunFunction to every function defined in m (functions with
// no body are declarations and are skipped by RunFunction itself),
// accumulating all counters into one Stats (spec.md §5's "a single Stats
// accumulates across every function in the module").
func Run(m *ir.Module, stats *Stats) {
	for _, fn := range m.Funcs {
		RunFunction(fn, stats)
	}
}

// CountModule tallies Functions, Instructions, Loads, and Stores over m
// as-is, without running any rewrite. p2.cpp calls its summarize(M)
// unconditionally, right after the "if (!NoCSE) {...}" block, so the
// basic module counts are always populated in the stats sidecar even
// when the optimization itself is disabled — only the CSE-specific
// counters are naturally zero in that case. Use this in place of Run
// when the caller wants the pass's rewrites skipped but the sidecar
// still reflects the module that was read.
func CountModule(m *ir.Module, stats *Stats) {
	for _, fn := range m.Funcs {
		if len(fn.Blocks) == 0 {
			continue
		}
		stats.Inc(&stats.Functions)
		countFinal(fn, stats)
	}
}
