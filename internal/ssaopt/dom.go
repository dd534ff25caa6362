package ssaopt

import "github.com/llir/llvm/ir"

// DomTree answers dominates(a, b) queries over a single Function's
// control-flow graph (spec.md §4.1). It is built once per function,
// before the driver touches that function's instructions: the pass
// never changes control-flow edges, so the tree stays valid for the
// whole run (spec.md §5, invalidation rule (b)).
type DomTree struct {
	fn      *ir.Func
	idom    map[*ir.Block]*ir.Block
	in, out map[*ir.Block]int
}

// BuildDomTree computes the dominator tree of fn using the iterative
// reverse-postorder intersection algorithm (Cooper, Harvey & Kennedy,
// "A Simple, Fast Dominance Algorithm") — the engineered alternative to
// Lengauer-Tarjan that spec.md §4.1 explicitly allows. fn must have at
// least one block; empty (declaration-only) functions are the driver's
// responsibility to skip before calling this.
func BuildDomTree(fn *ir.Func) *DomTree {
	rpo := reversePostorder(fn.Blocks[0])
	order := make(map[*ir.Block]int, len(rpo))
	for i, b := range rpo {
		order[b] = i
	}

	preds := predecessors(fn)

	idom := make(map[*ir.Block]*ir.Block, len(rpo))
	entry := rpo[0]
	idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for _, b := range rpo[1:] {
			var newIdom *ir.Block
			for _, p := range preds[b] {
				if idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(newIdom, p, idom, order)
			}
			if newIdom != nil && idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	// Blocks unreachable from entry (spec.md's core never fabricates a
	// dominator relation for them) get no idom entry at all; Dominates
	// treats any query touching one as false except self-dominance.
	dt := &DomTree{fn: fn, idom: idom, in: map[*ir.Block]int{}, out: map[*ir.Block]int{}}

	children := make(map[*ir.Block][]*ir.Block)
	for b := range dt.idom {
		if b == entry {
			continue
		}
		d := dt.idom[b]
		children[d] = append(children[d], b)
	}

	clock := 0
	var dfs func(b *ir.Block)
	dfs = func(b *ir.Block) {
		clock++
		dt.in[b] = clock
		for _, c := range children[b] {
			dfs(c)
		}
		clock++
		dt.out[b] = clock
	}
	dfs(entry)

	return dt
}

// Dominates reports whether a dominates b, including a dominates a
// (spec.md §4.1). Blocks unreachable from the entry are never reported
// as dominating or dominated by anything other than themselves.
func (dt *DomTree) Dominates(a, b *ir.Block) bool {
	ain, aok := dt.in[a]
	aout := dt.out[a]
	bin, bok := dt.in[b]
	if !aok || !bok {
		return a == b
	}
	return ain <= bin && bin <= aout && ain <= aout
}

// Dominated returns every block (including a itself) dominated by a,
// in the function's natural block order, for the CSE driver's subtree
// walk (spec.md §4.4: "for each Block BD such that BA dominates BD").
func (dt *DomTree) Dominated(a *ir.Block) []*ir.Block {
	var out []*ir.Block
	for _, b := range dt.fn.Blocks {
		if dt.Dominates(a, b) {
			out = append(out, b)
		}
	}
	return out
}

func intersect(a, b *ir.Block, idom map[*ir.Block]*ir.Block, order map[*ir.Block]int) *ir.Block {
	for a != b {
		for order[a] > order[b] {
			a = idom[a]
		}
		for order[b] > order[a] {
			b = idom[b]
		}
	}
	return a
}

// reversePostorder returns fn's blocks reachable from entry in reverse
// postorder, entry first. Unreachable blocks are omitted: the dominator
// relation for them is undefined and the driver loop still visits them
// via fn.Blocks directly. Since Dominates treats such a block as
// dominating only itself, CSE on an unreachable block's instruction
// scans that same block and no other, and no reachable block's CSE
// scan ever reaches it.
func reversePostorder(entry *ir.Block) []*ir.Block {
	visited := make(map[*ir.Block]bool)
	var post []*ir.Block
	var visit func(b *ir.Block)
	visit = func(b *ir.Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		if b.Term != nil {
			for _, s := range b.Term.Succs() {
				visit(s)
			}
		}
		post = append(post, b)
	}
	visit(entry)

	rpo := make([]*ir.Block, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}

func predecessors(fn *ir.Func) map[*ir.Block][]*ir.Block {
	preds := make(map[*ir.Block][]*ir.Block, len(fn.Blocks))
	for _, b := range fn.Blocks {
		if b.Term == nil {
			continue
		}
		for _, s := range b.Term.Succs() {
			preds[s] = append(preds[s], b)
		}
	}
	return preds
}
