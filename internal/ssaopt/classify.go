package ssaopt

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/dshills/llopt/internal/useindex"
)

// IsSideEffectFree reports whether inst belongs to the opcode set
// spec.md §4.2 lists as never having a side effect: every arithmetic,
// bitwise, comparison, cast, aggregate and vector opcode, alloca,
// getelementptr, select, phi, and non-volatile load. Everything else —
// stores, calls, invokes, vaarg, terminators — always has a side
// effect even when its result goes unused.
func IsSideEffectFree(inst ir.Instruction) bool {
	switch i := inst.(type) {
	case *ir.InstLoad:
		return !i.Volatile
	case *ir.InstAdd, *ir.InstSub, *ir.InstMul,
		*ir.InstUDiv, *ir.InstSDiv, *ir.InstURem, *ir.InstSRem,
		*ir.InstFNeg, *ir.InstFAdd, *ir.InstFSub, *ir.InstFMul, *ir.InstFDiv, *ir.InstFRem,
		*ir.InstShl, *ir.InstLShr, *ir.InstAShr, *ir.InstAnd, *ir.InstOr, *ir.InstXor,
		*ir.InstICmp, *ir.InstFCmp,
		*ir.InstTrunc, *ir.InstZExt, *ir.InstSExt,
		*ir.InstFPTrunc, *ir.InstFPExt, *ir.InstFPToUI, *ir.InstFPToSI,
		*ir.InstUIToFP, *ir.InstSIToFP,
		*ir.InstPtrToInt, *ir.InstIntToPtr, *ir.InstBitCast, *ir.InstAddrSpaceCast,
		*ir.InstAlloca, *ir.InstGetElementPtr,
		*ir.InstSelect, *ir.InstPhi,
		*ir.InstExtractElement, *ir.InstInsertElement, *ir.InstShuffleVector,
		*ir.InstExtractValue, *ir.InstInsertValue:
		return true
	default:
		return false
	}
}

// IsDead implements the dead-instruction predicate of spec.md §4.2:
// true iff inst's use-list is empty and its opcode is side-effect-free.
// Instructions with no result value (stores and the like) are never
// dead by definition, regardless of side effects.
func IsDead(inst ir.Instruction, uses *useindex.Index) bool {
	if !IsSideEffectFree(inst) {
		return false
	}
	v, ok := inst.(value.Value)
	if !ok {
		return false
	}
	return !uses.IsUsed(v)
}

// IsLoad and IsStore classify the two opcodes the memory-redundancy
// scanner (spec.md §4.5) handles instead of the ordinary CSE path.
func IsLoad(inst ir.Instruction) (*ir.InstLoad, bool) {
	l, ok := inst.(*ir.InstLoad)
	return l, ok
}

func IsStore(inst ir.Instruction) (*ir.InstStore, bool) {
	s, ok := inst.(*ir.InstStore)
	return s, ok
}

// IsBarrier reports whether inst may read or write memory in a way the
// memory scanner cannot statically prove disjoint from the address
// under consideration: any store, any call, or any volatile load
// (spec.md §4.5). Plain instructions within a block never reach an
// invoke — invoke is always a block terminator in llir/llvm, so it
// ends a per-block scan simply by being the last instruction.
func IsBarrier(inst ir.Instruction) bool {
	switch i := inst.(type) {
	case *ir.InstStore:
		return true
	case *ir.InstCall:
		return true
	case *ir.InstLoad:
		return i.Volatile
	default:
		return false
	}
}

// IsCSEEligible reports whether inst is a candidate for the dominator-
// aware CSE driver (spec.md §4.4): the side-effect-free set minus load,
// store, alloca, call, invoke, fcmp, extractvalue, and terminators.
// invoke never appears in Insts (it is a Terminator in llir/llvm), so
// only the remaining exclusions need an explicit case here.
func IsCSEEligible(inst ir.Instruction) bool {
	if !IsSideEffectFree(inst) {
		return false
	}
	switch inst.(type) {
	case *ir.InstLoad, *ir.InstStore, *ir.InstAlloca, *ir.InstFCmp, *ir.InstExtractValue:
		return false
	default:
		return true
	}
}
