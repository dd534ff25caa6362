package ssaopt

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// Equivalent implements the CSE equivalence relation of spec.md §4.4:
// same opcode, same result type, same operand arity, identical operand
// Value by identity at every index (integer constants, which llir/llvm
// does not unique, compare by bit width and value), and identical opcode-specific
// auxiliary data (predicate for icmp, in-bounds/element-type for
// getelementptr, indices for insertvalue — fcmp's predicate never needs
// comparing here since fcmp is excluded from CSE entirely).
//
// Operand commutativity is deliberately NOT exploited, matching
// spec.md's conservative baseline (Open Question 1 in SPEC_FULL.md):
// `add %a, %b` and `add %b, %a` are not treated as equivalent here even
// though addition commutes.
func Equivalent(a, b ir.Instruction) bool {
	if a == b {
		return false
	}

	av, aok := a.(value.Value)
	bv, bok := b.(value.Value)
	if !aok || !bok || av.Type() != bv.Type() {
		return false
	}

	oa := a.Operands()
	ob := b.Operands()
	if len(oa) != len(ob) {
		return false
	}
	for i := range oa {
		if !sameValue(*oa[i], *ob[i]) {
			return false
		}
	}

	switch ai := a.(type) {
	case *ir.InstICmp:
		bi, ok := b.(*ir.InstICmp)
		return ok && ai.Pred == bi.Pred
	case *ir.InstGetElementPtr:
		bi, ok := b.(*ir.InstGetElementPtr)
		return ok && ai.InBounds == bi.InBounds && ai.ElemType == bi.ElemType
	case *ir.InstInsertValue:
		bi, ok := b.(*ir.InstInsertValue)
		return ok && sameIndices(ai.Indices, bi.Indices)
	case *ir.InstShuffleVector:
		_, ok := b.(*ir.InstShuffleVector)
		return ok
	default:
		// Same dynamic type, same result type, same operands: for every
		// other CSE-eligible opcode (arithmetic, bitwise, casts, select,
		// phi, extractelement/insertelement) there is no further
		// auxiliary field to compare, so same-opcode is enough. The type
		// switch above only needs a case for opcodes that carry extra
		// state beyond their operands.
		return sameDynamicType(a, b)
	}
}

func sameDynamicType(a, b ir.Instruction) bool {
	switch a.(type) {
	case *ir.InstAdd:
		_, ok := b.(*ir.InstAdd)
		return ok
	case *ir.InstSub:
		_, ok := b.(*ir.InstSub)
		return ok
	case *ir.InstMul:
		_, ok := b.(*ir.InstMul)
		return ok
	case *ir.InstUDiv:
		_, ok := b.(*ir.InstUDiv)
		return ok
	case *ir.InstSDiv:
		_, ok := b.(*ir.InstSDiv)
		return ok
	case *ir.InstURem:
		_, ok := b.(*ir.InstURem)
		return ok
	case *ir.InstSRem:
		_, ok := b.(*ir.InstSRem)
		return ok
	case *ir.InstFNeg:
		_, ok := b.(*ir.InstFNeg)
		return ok
	case *ir.InstFAdd:
		_, ok := b.(*ir.InstFAdd)
		return ok
	case *ir.InstFSub:
		_, ok := b.(*ir.InstFSub)
		return ok
	case *ir.InstFMul:
		_, ok := b.(*ir.InstFMul)
		return ok
	case *ir.InstFDiv:
		_, ok := b.(*ir.InstFDiv)
		return ok
	case *ir.InstFRem:
		_, ok := b.(*ir.InstFRem)
		return ok
	case *ir.InstShl:
		_, ok := b.(*ir.InstShl)
		return ok
	case *ir.InstLShr:
		_, ok := b.(*ir.InstLShr)
		return ok
	case *ir.InstAShr:
		_, ok := b.(*ir.InstAShr)
		return ok
	case *ir.InstAnd:
		_, ok := b.(*ir.InstAnd)
		return ok
	case *ir.InstOr:
		_, ok := b.(*ir.InstOr)
		return ok
	case *ir.InstXor:
		_, ok := b.(*ir.InstXor)
		return ok
	case *ir.InstTrunc:
		_, ok := b.(*ir.InstTrunc)
		return ok
	case *ir.InstZExt:
		_, ok := b.(*ir.InstZExt)
		return ok
	case *ir.InstSExt:
		_, ok := b.(*ir.InstSExt)
		return ok
	case *ir.InstFPTrunc:
		_, ok := b.(*ir.InstFPTrunc)
		return ok
	case *ir.InstFPExt:
		_, ok := b.(*ir.InstFPExt)
		return ok
	case *ir.InstFPToUI:
		_, ok := b.(*ir.InstFPToUI)
		return ok
	case *ir.InstFPToSI:
		_, ok := b.(*ir.InstFPToSI)
		return ok
	case *ir.InstUIToFP:
		_, ok := b.(*ir.InstUIToFP)
		return ok
	case *ir.InstSIToFP:
		_, ok := b.(*ir.InstSIToFP)
		return ok
	case *ir.InstPtrToInt:
		_, ok := b.(*ir.InstPtrToInt)
		return ok
	case *ir.InstIntToPtr:
		_, ok := b.(*ir.InstIntToPtr)
		return ok
	case *ir.InstBitCast:
		_, ok := b.(*ir.InstBitCast)
		return ok
	case *ir.InstAddrSpaceCast:
		_, ok := b.(*ir.InstAddrSpaceCast)
		return ok
	case *ir.InstSelect:
		_, ok := b.(*ir.InstSelect)
		return ok
	case *ir.InstPhi:
		_, ok := b.(*ir.InstPhi)
		return ok
	case *ir.InstExtractElement:
		_, ok := b.(*ir.InstExtractElement)
		return ok
	case *ir.InstInsertElement:
		_, ok := b.(*ir.InstInsertElement)
		return ok
	default:
		return false
	}
}

func sameIndices(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
