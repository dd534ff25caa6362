// Package irbuild provides small in-memory constructors for building
// test-fixture LLVM IR directly — Modules, Functions, Blocks, and
// instructions — without going through a textual parser. It plays the
// role the teacher's AST-to-LLVM codegen pass (internal/codegen/llvm.go)
// played for ALaS: a way to get well-formed *ir.Module values to feed
// the optimizer, grounded on that file's exact construction idiom
// (*ir.Block's New* methods both build and append an instruction).
package irbuild

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Module returns a fresh, empty module.
func Module() *ir.Module {
	return ir.NewModule()
}

// Func declares and defines a function named name in m, with the given
// return type and parameters, and returns it.
func Func(m *ir.Module, name string, ret types.Type, params ...*ir.Param) *ir.Func {
	return m.NewFunc(name, ret, params...)
}

// Param constructs a named function parameter of type t.
func Param(name string, t types.Type) *ir.Param {
	return ir.NewParam(name, t)
}

// Block appends a new basic block named name to fn and returns it.
func Block(fn *ir.Func, name string) *ir.Block {
	return fn.NewBlock(name)
}

// SingleBlockFunc is the common test-fixture shape: one function with
// one entry block, ready for its body to be filled in with the
// block's own New* instruction constructors before a terminator is
// added.
func SingleBlockFunc(m *ir.Module, name string, ret types.Type, params ...*ir.Param) (*ir.Func, *ir.Block) {
	fn := Func(m, name, ret, params...)
	return fn, Block(fn, "entry")
}
