// Package useindex maintains the use-def graph that github.com/llir/llvm
// does not track natively. llir/llvm stores operands as plain struct
// fields (X, Y, Src, Dst, ...) and exposes them uniformly through
// Operands() []*value.Value, but it keeps no reciprocal use-list: there
// is no way to ask "who uses this value" without a side index.
//
// Index builds that side index once per function and keeps it current
// as the optimizer rewrites operands, so replacing all uses of A with B
// and checking whether a value is dead are both O(uses), not O(function).
package useindex

import (
	"fmt"

	"github.com/llir/llvm/ir/value"
)

// operandHaver is satisfied by both ir.Instruction and ir.Terminator.
type operandHaver interface {
	Operands() []*value.Value
}

// Use is one (user, operand-slot) pair referencing a Value.
type Use struct {
	User operandHaver
	Slot *value.Value
}

// Index is a use-list keyed by value identity (Go interface/pointer
// equality, which is exactly the "by identity" equality spec.md's data
// model requires for operands and addresses).
type Index struct {
	uses map[value.Value]map[*value.Value]Use
}

// New builds an empty index.
func New() *Index {
	return &Index{uses: make(map[value.Value]map[*value.Value]Use)}
}

// Add indexes every operand slot of user, recording each as a use of
// whatever value currently occupies it.
func (idx *Index) Add(user operandHaver) {
	for _, slot := range user.Operands() {
		v := *slot
		if v == nil {
			continue
		}
		idx.insert(v, Use{User: user, Slot: slot})
	}
}

// Remove drops every use owned by user. Call this before splicing an
// instruction out of its block, so values it referenced don't appear
// falsely "still used" afterward.
func (idx *Index) Remove(user operandHaver) {
	for _, slot := range user.Operands() {
		v := *slot
		if v == nil {
			continue
		}
		if set, ok := idx.uses[v]; ok {
			delete(set, slot)
			if len(set) == 0 {
				delete(idx.uses, v)
			}
		}
	}
}

func (idx *Index) insert(v value.Value, u Use) {
	set := idx.uses[v]
	if set == nil {
		set = make(map[*value.Value]Use)
		idx.uses[v] = set
	}
	set[u.Slot] = u
}

// Uses returns the current uses of v. The returned slice is a snapshot;
// mutating the index while ranging over it is fine.
func (idx *Index) Uses(v value.Value) []Use {
	set := idx.uses[v]
	if len(set) == 0 {
		return nil
	}
	out := make([]Use, 0, len(set))
	for _, u := range set {
		out = append(out, u)
	}
	return out
}

// IsUsed reports whether v has any recorded use.
func (idx *Index) IsUsed(v value.Value) bool {
	return len(idx.uses[v]) > 0
}

// ReplaceAllUsesWith rewrites every operand slot currently holding old
// to hold new instead, and returns how many slots were rewritten. This
// is the core's one "atomic" IR mutation: every use is retargeted
// before old is considered unreferenced.
func (idx *Index) ReplaceAllUsesWith(old, new value.Value) int {
	set := idx.uses[old]
	if len(set) == 0 {
		return 0
	}
	n := 0
	for slot, u := range set {
		*slot = new
		idx.insert(new, u)
		n++
	}
	delete(idx.uses, old)
	return n
}

// MustBeUnused panics if v still has recorded uses. The optimizer in
// package ssaopt does not call it: its erasure paths retarget uses with
// ReplaceAllUsesWith (or erase only values with no uses) and then
// remove the instruction without this check.
func (idx *Index) MustBeUnused(v value.Value) {
	if idx.IsUsed(v) {
		panic(fmt.Sprintf("useindex: erasing value %v with live uses", v))
	}
}
