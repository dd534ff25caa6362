package ssaopt

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Simplify implements the algebraic simplifier of spec.md §4.3: a pure
// function of inst that returns a simpler equivalent Value, or ok=false
// if no required reduction applies. It never mutates inst; the caller
// (the driver loop) is responsible for replacing uses and erasing.
//
// Floating-point reductions are deliberately conservative: only the
// rewrites spec.md lists as required are applied, and none of them
// changes NaN or signed-zero behavior (no fast-math relaxation is
// assumed) — in particular, fcmp is never simplified here, since a
// self-comparison collapse would be wrong for NaN operands.
func Simplify(inst ir.Instruction) (value.Value, bool) {
	switch i := inst.(type) {
	case *ir.InstAdd:
		if v, ok := foldInt(i.X, i.Y, func(a, b int64) int64 { return a + b }); ok {
			return v, true
		}
		if isIntConst(i.Y, 0) {
			return i.X, true
		}
		if isIntConst(i.X, 0) {
			return i.Y, true
		}
	case *ir.InstSub:
		if v, ok := foldInt(i.X, i.Y, func(a, b int64) int64 { return a - b }); ok {
			return v, true
		}
		if isIntConst(i.Y, 0) {
			return i.X, true
		}
		if sameValue(i.X, i.Y) {
			return zeroOf(i.Type()), true
		}
	case *ir.InstMul:
		if v, ok := foldInt(i.X, i.Y, func(a, b int64) int64 { return a * b }); ok {
			return v, true
		}
		if isIntConst(i.Y, 1) {
			return i.X, true
		}
		if isIntConst(i.X, 1) {
			return i.Y, true
		}
		if isIntConst(i.Y, 0) || isIntConst(i.X, 0) {
			return zeroOf(i.Type()), true
		}
	case *ir.InstUDiv:
		if v, ok := foldIntChecked(i.X, i.Y, func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return int64(uint64(a) / uint64(b)), true
		}); ok {
			return v, true
		}
		if isIntConst(i.Y, 1) {
			return i.X, true
		}
	case *ir.InstSDiv:
		if v, ok := foldIntChecked(i.X, i.Y, func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a / b, true
		}); ok {
			return v, true
		}
		if isIntConst(i.Y, 1) {
			return i.X, true
		}
	case *ir.InstURem:
		if v, ok := foldIntChecked(i.X, i.Y, func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return int64(uint64(a) % uint64(b)), true
		}); ok {
			return v, true
		}
		if isIntConst(i.Y, 1) {
			return zeroOf(i.Type()), true
		}
	case *ir.InstSRem:
		if v, ok := foldIntChecked(i.X, i.Y, func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a % b, true
		}); ok {
			return v, true
		}
		if isIntConst(i.Y, 1) {
			return zeroOf(i.Type()), true
		}
	case *ir.InstShl:
		if v, ok := foldInt(i.X, i.Y, func(a, b int64) int64 { return a << uint64(b) }); ok {
			return v, true
		}
		if isIntConst(i.Y, 0) {
			return i.X, true
		}
	case *ir.InstLShr:
		if v, ok := foldInt(i.X, i.Y, func(a, b int64) int64 { return int64(uint64(a) >> uint64(b)) }); ok {
			return v, true
		}
		if isIntConst(i.Y, 0) {
			return i.X, true
		}
	case *ir.InstAShr:
		if v, ok := foldInt(i.X, i.Y, func(a, b int64) int64 { return a >> uint64(b) }); ok {
			return v, true
		}
		if isIntConst(i.Y, 0) {
			return i.X, true
		}
	case *ir.InstAnd:
		if v, ok := foldInt(i.X, i.Y, func(a, b int64) int64 { return a & b }); ok {
			return v, true
		}
		if sameValue(i.X, i.Y) {
			return i.X, true
		}
		if isAllOnes(i.Y, i.Type()) {
			return i.X, true
		}
		if isAllOnes(i.X, i.Type()) {
			return i.Y, true
		}
		if isIntConst(i.Y, 0) || isIntConst(i.X, 0) {
			return zeroOf(i.Type()), true
		}
	case *ir.InstOr:
		if v, ok := foldInt(i.X, i.Y, func(a, b int64) int64 { return a | b }); ok {
			return v, true
		}
		if sameValue(i.X, i.Y) {
			return i.X, true
		}
		if isIntConst(i.Y, 0) {
			return i.X, true
		}
		if isIntConst(i.X, 0) {
			return i.Y, true
		}
		if isAllOnes(i.Y, i.Type()) || isAllOnes(i.X, i.Type()) {
			return allOnesOf(i.Type()), true
		}
	case *ir.InstXor:
		if v, ok := foldInt(i.X, i.Y, func(a, b int64) int64 { return a ^ b }); ok {
			return v, true
		}
		if sameValue(i.X, i.Y) {
			return zeroOf(i.Type()), true
		}
		if isIntConst(i.Y, 0) {
			return i.X, true
		}
		if isIntConst(i.X, 0) {
			return i.Y, true
		}
	case *ir.InstFAdd:
		return foldFloat(i.X, i.Y, func(a, b float64) float64 { return a + b })
	case *ir.InstFSub:
		return foldFloat(i.X, i.Y, func(a, b float64) float64 { return a - b })
	case *ir.InstFMul:
		return foldFloat(i.X, i.Y, func(a, b float64) float64 { return a * b })
	case *ir.InstFDiv:
		return foldFloatChecked(i.X, i.Y, func(a, b float64) (float64, bool) {
			if b == 0 {
				return 0, false
			}
			return a / b, true
		})
	case *ir.InstTrunc:
		return foldIntCast(i.From, i.To)
	case *ir.InstZExt:
		return foldIntCast(i.From, i.To)
	case *ir.InstSExt:
		return foldIntCast(i.From, i.To)
	case *ir.InstBitCast:
		return foldIntCast(i.From, i.To)
	case *ir.InstFPTrunc:
		return foldFloatCast(i.From, i.To)
	case *ir.InstFPExt:
		return foldFloatCast(i.From, i.To)
	case *ir.InstFPToUI:
		return foldFloatToIntCast(i.From, i.To, func(f float64) int64 { return int64(uint64(f)) })
	case *ir.InstFPToSI:
		return foldFloatToIntCast(i.From, i.To, func(f float64) int64 { return int64(f) })
	case *ir.InstUIToFP:
		return foldIntToFloatCast(i.From, i.To, func(n int64) float64 { return float64(uint64(n)) })
	case *ir.InstSIToFP:
		return foldIntToFloatCast(i.From, i.To, func(n int64) float64 { return float64(n) })
	case *ir.InstPtrToInt, *ir.InstIntToPtr, *ir.InstAddrSpaceCast:
		// No constant representation for pointers beyond null exists in
		// this model, so these three never fold.
	case *ir.InstICmp:
		return simplifyICmp(i)
	case *ir.InstSelect:
		return simplifySelect(i)
	case *ir.InstPhi:
		return simplifyPhi(i)
	}
	return nil, false
}

// foldIntCast constant-folds trunc/zext/sext/bitcast of a constant
// integer operand by masking or sign-preserving its int64 value to the
// destination width (spec.md §4.3's general constant-folding rule,
// extended to the conversion opcodes the way LLVM's own
// SimplifyInstruction does).
func foldIntCast(from value.Value, to types.Type) (value.Value, bool) {
	c, ok := from.(*constant.Int)
	if !ok {
		return nil, false
	}
	it, ok := to.(*types.IntType)
	if !ok {
		return nil, false
	}
	v := c.X.Int64()
	if it.BitSize < 64 {
		mask := (int64(1) << it.BitSize) - 1
		v &= mask
	}
	return constant.NewInt(it, v), true
}

func foldFloatCast(from value.Value, to types.Type) (value.Value, bool) {
	c, ok := from.(*constant.Float)
	if !ok {
		return nil, false
	}
	ft, ok := to.(*types.FloatType)
	if !ok {
		return nil, false
	}
	f, _ := c.X.Float64()
	return constant.NewFloat(ft, f), true
}

func foldFloatToIntCast(from value.Value, to types.Type, conv func(float64) int64) (value.Value, bool) {
	c, ok := from.(*constant.Float)
	if !ok {
		return nil, false
	}
	it, ok := to.(*types.IntType)
	if !ok {
		return nil, false
	}
	f, _ := c.X.Float64()
	return constant.NewInt(it, conv(f)), true
}

func foldIntToFloatCast(from value.Value, to types.Type, conv func(int64) float64) (value.Value, bool) {
	c, ok := from.(*constant.Int)
	if !ok {
		return nil, false
	}
	ft, ok := to.(*types.FloatType)
	if !ok {
		return nil, false
	}
	return constant.NewFloat(ft, conv(c.X.Int64())), true
}

// simplifyICmp folds a comparison of two integer constants, and
// collapses a comparison of a value to itself per predicate (spec.md
// §4.3): EQ/SLE/SGE/ULE/UGE are trivially true, NE/SLT/SGT/ULT/UGT are
// trivially false.
func simplifyICmp(i *ir.InstICmp) (value.Value, bool) {
	if cx, cy, ok := bothIntConst(i.X, i.Y); ok {
		return boolConst(evalIPred(i.Pred, cx.X.Int64(), cy.X.Int64())), true
	}
	if !sameValue(i.X, i.Y) {
		return nil, false
	}
	switch i.Pred {
	case enum.IPredEQ, enum.IPredSLE, enum.IPredSGE, enum.IPredULE, enum.IPredUGE:
		return boolConst(true), true
	case enum.IPredNE, enum.IPredSLT, enum.IPredSGT, enum.IPredULT, enum.IPredUGT:
		return boolConst(false), true
	}
	return nil, false
}

func evalIPred(pred enum.IPred, a, b int64) bool {
	switch pred {
	case enum.IPredEQ:
		return a == b
	case enum.IPredNE:
		return a != b
	case enum.IPredSLT:
		return a < b
	case enum.IPredSLE:
		return a <= b
	case enum.IPredSGT:
		return a > b
	case enum.IPredSGE:
		return a >= b
	case enum.IPredULT:
		return uint64(a) < uint64(b)
	case enum.IPredULE:
		return uint64(a) <= uint64(b)
	case enum.IPredUGT:
		return uint64(a) > uint64(b)
	case enum.IPredUGE:
		return uint64(a) >= uint64(b)
	}
	return false
}

// simplifySelect resolves a select whose condition is a constant i1
// (spec.md §4.3).
func simplifySelect(i *ir.InstSelect) (value.Value, bool) {
	c, ok := i.Cond.(*constant.Int)
	if !ok {
		return nil, false
	}
	if c.X.Sign() != 0 {
		return i.X, true
	}
	return i.Y, true
}

// simplifyPhi resolves a phi all of whose incoming values are the same
// Value (spec.md §4.3).
func simplifyPhi(i *ir.InstPhi) (value.Value, bool) {
	if len(i.Incs) == 0 {
		return nil, false
	}
	first := i.Incs[0].X
	if sameValue(first, i) {
		return nil, false
	}
	for _, inc := range i.Incs[1:] {
		if !sameValue(inc.X, first) {
			return nil, false
		}
	}
	return first, true
}

// sameValue reports whether a and b are the same Value. llir/llvm does
// not unique constants the way LLVM does, so two integer constants of
// the same bit width and value also count as the same Value.
func sameValue(a, b value.Value) bool {
	if a == b {
		return true
	}
	ca, okA := a.(*constant.Int)
	cb, okB := b.(*constant.Int)
	return okA && okB && ca.Typ.BitSize == cb.Typ.BitSize && ca.X.Cmp(cb.X) == 0
}

func isIntConst(v value.Value, n int64) bool {
	c, ok := v.(*constant.Int)
	if !ok {
		return false
	}
	return c.X.Int64() == n
}

func bothIntConst(x, y value.Value) (*constant.Int, *constant.Int, bool) {
	cx, okX := x.(*constant.Int)
	cy, okY := y.(*constant.Int)
	return cx, cy, okX && okY
}

func boolConst(b bool) value.Value {
	if b {
		return constant.NewInt(types.I1, 1)
	}
	return constant.NewInt(types.I1, 0)
}

func isAllOnes(v value.Value, t types.Type) bool {
	c, ok := v.(*constant.Int)
	if !ok {
		return false
	}
	it, ok := t.(*types.IntType)
	if !ok {
		return false
	}
	if it.BitSize >= 64 {
		return c.X.Int64() == -1
	}
	mask := (int64(1) << it.BitSize) - 1
	return c.X.Int64()&mask == mask
}

func zeroOf(t types.Type) value.Value {
	if it, ok := t.(*types.IntType); ok {
		return constant.NewInt(it, 0)
	}
	if ft, ok := t.(*types.FloatType); ok {
		return constant.NewFloat(ft, 0)
	}
	return nil
}

func allOnesOf(t types.Type) value.Value {
	it, ok := t.(*types.IntType)
	if !ok {
		return nil
	}
	if it.BitSize >= 64 {
		return constant.NewInt(it, -1)
	}
	mask := (int64(1) << it.BitSize) - 1
	return constant.NewInt(it, mask)
}

func foldInt(x, y value.Value, op func(a, b int64) int64) (value.Value, bool) {
	cx, cy, ok := bothIntConst(x, y)
	if !ok {
		return nil, false
	}
	it, ok := cx.Type().(*types.IntType)
	if !ok {
		return nil, false
	}
	return constant.NewInt(it, op(cx.X.Int64(), cy.X.Int64())), true
}

func foldIntChecked(x, y value.Value, op func(a, b int64) (int64, bool)) (value.Value, bool) {
	cx, cy, ok := bothIntConst(x, y)
	if !ok {
		return nil, false
	}
	it, ok := cx.Type().(*types.IntType)
	if !ok {
		return nil, false
	}
	r, ok := op(cx.X.Int64(), cy.X.Int64())
	if !ok {
		return nil, false
	}
	return constant.NewInt(it, r), true
}

func foldFloat(x, y value.Value, op func(a, b float64) float64) (value.Value, bool) {
	cx, okX := x.(*constant.Float)
	cy, okY := y.(*constant.Float)
	if !okX || !okY {
		return nil, false
	}
	ft, ok := cx.Type().(*types.FloatType)
	if !ok {
		return nil, false
	}
	xf, _ := cx.X.Float64()
	yf, _ := cy.X.Float64()
	return constant.NewFloat(ft, op(xf, yf)), true
}

func foldFloatChecked(x, y value.Value, op func(a, b float64) (float64, bool)) (value.Value, bool) {
	cx, okX := x.(*constant.Float)
	cy, okY := y.(*constant.Float)
	if !okX || !okY {
		return nil, false
	}
	ft, ok := cx.Type().(*types.FloatType)
	if !ok {
		return nil, false
	}
	xf, _ := cx.X.Float64()
	yf, _ := cy.X.Float64()
	r, ok := op(xf, yf)
	if !ok {
		return nil, false
	}
	return constant.NewFloat(ft, r), true
}
