package ssaopt

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/require"

	"github.com/dshills/llopt/internal/irbuild"
)

// diamond builds entry -> {then, els} -> merge, the minimal CFG shape
// with a non-trivial dominator tree: merge is dominated by entry but
// not by then or els.
func diamond(t *testing.T) (*ir.Func, *ir.Block, *ir.Block, *ir.Block, *ir.Block) {
	t.Helper()
	m := irbuild.Module()
	fn, entry := irbuild.SingleBlockFunc(m, "diamond", types.I32)
	thenB := irbuild.Block(fn, "then")
	elsB := irbuild.Block(fn, "els")
	mergeB := irbuild.Block(fn, "merge")

	cond := entry.NewICmp(icmpEQ(), constInt(0), constInt(0))
	entry.NewCondBr(cond, thenB, elsB)
	thenB.NewBr(mergeB)
	elsB.NewBr(mergeB)
	mergeB.NewRet(constInt(0))

	return fn, entry, thenB, elsB, mergeB
}

func TestDomTree_Diamond(t *testing.T) {
	fn, entry, thenB, elsB, mergeB := diamond(t)
	dt := BuildDomTree(fn)

	require.True(t, dt.Dominates(entry, entry))
	require.True(t, dt.Dominates(entry, thenB))
	require.True(t, dt.Dominates(entry, elsB))
	require.True(t, dt.Dominates(entry, mergeB))

	require.False(t, dt.Dominates(thenB, mergeB))
	require.False(t, dt.Dominates(elsB, mergeB))
	require.False(t, dt.Dominates(thenB, elsB))
	require.False(t, dt.Dominates(mergeB, entry))
}

func TestDomTree_Dominated(t *testing.T) {
	fn, entry, thenB, elsB, mergeB := diamond(t)
	dt := BuildDomTree(fn)

	got := dt.Dominated(entry)
	require.ElementsMatch(t, got, []*ir.Block{entry, thenB, elsB, mergeB})

	require.ElementsMatch(t, dt.Dominated(thenB), []*ir.Block{thenB})
}

func TestDomTree_Linear(t *testing.T) {
	m := irbuild.Module()
	fn, entry := irbuild.SingleBlockFunc(m, "linear", types.I32)
	b2 := irbuild.Block(fn, "b2")
	b3 := irbuild.Block(fn, "b3")
	entry.NewBr(b2)
	b2.NewBr(b3)
	b3.NewRet(constInt(0))

	dt := BuildDomTree(fn)
	require.True(t, dt.Dominates(entry, b3))
	require.True(t, dt.Dominates(b2, b3))
	require.False(t, dt.Dominates(b3, entry))
}
