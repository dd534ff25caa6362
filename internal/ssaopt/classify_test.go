package ssaopt

import (
	"testing"

	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"

	"github.com/dshills/llopt/internal/irbuild"
	"github.com/dshills/llopt/internal/useindex"
)

func TestIsSideEffectFree(t *testing.T) {
	m := irbuild.Module()
	_, b := irbuild.SingleBlockFunc(m, "f", types.I32)

	add := b.NewAdd(constInt(1), constInt(2))
	assert.True(t, IsSideEffectFree(add))

	alloca := b.NewAlloca(types.I32)
	ld := b.NewLoad(types.I32, alloca)
	assert.True(t, IsSideEffectFree(ld))
	ld.Volatile = true
	assert.False(t, IsSideEffectFree(ld))

	st := b.NewStore(constInt(1), alloca)
	assert.False(t, IsSideEffectFree(st))
}

func TestIsDead(t *testing.T) {
	m := irbuild.Module()
	_, b := irbuild.SingleBlockFunc(m, "f", types.I32)

	dead := b.NewAdd(constInt(1), constInt(2))
	used := b.NewAdd(constInt(3), constInt(4))
	b.NewRet(used)

	idx := useindex.New()
	for _, inst := range b.Insts {
		idx.Add(inst)
	}
	idx.Add(b.Term)

	assert.True(t, IsDead(dead, idx))
	assert.False(t, IsDead(used, idx))
}

func TestIsBarrier(t *testing.T) {
	m := irbuild.Module()
	_, b := irbuild.SingleBlockFunc(m, "f", types.I32)

	alloca := b.NewAlloca(types.I32)
	ld := b.NewLoad(types.I32, alloca)
	st := b.NewStore(constInt(1), alloca)

	assert.False(t, IsBarrier(ld))
	ld.Volatile = true
	assert.True(t, IsBarrier(ld))
	assert.True(t, IsBarrier(st))
	assert.False(t, IsBarrier(b.NewAdd(constInt(1), constInt(2))))
}

func TestIsCSEEligible(t *testing.T) {
	m := irbuild.Module()
	_, b := irbuild.SingleBlockFunc(m, "f", types.I32)

	add := b.NewAdd(constInt(1), constInt(2))
	alloca := b.NewAlloca(types.I32)
	ld := b.NewLoad(types.I32, alloca)
	st := b.NewStore(constInt(1), alloca)
	icmp := b.NewICmp(icmpEQ(), constInt(1), constInt(2))
	fcmp := b.NewFCmp(enumFPredOEQ(), constFloat(1), constFloat(2))

	assert.True(t, IsCSEEligible(add))
	assert.True(t, IsCSEEligible(icmp))
	assert.False(t, IsCSEEligible(alloca))
	assert.False(t, IsCSEEligible(ld))
	assert.False(t, IsCSEEligible(st))
	assert.False(t, IsCSEEligible(fcmp))
}
