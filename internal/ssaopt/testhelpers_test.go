package ssaopt

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

func constInt(n int64) value.Value {
	return constant.NewInt(types.I32, n)
}

func constFloat(f float64) value.Value {
	return constant.NewFloat(types.Double, f)
}

func icmpEQ() enum.IPred {
	return enum.IPredEQ
}

func icmpNE() enum.IPred {
	return enum.IPredNE
}

func enumFPredOEQ() enum.FPred {
	return enum.FPredOEQ
}
