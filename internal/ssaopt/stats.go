package ssaopt

import (
	"strconv"
	"sync/atomic"
)

// Stats holds the ten named counters spec.md §6.3 requires in the
// `<output>.stats` sidecar. Each field is accumulated with atomic.Int64
// so a future concurrent-per-function driver (spec.md §9's open
// question about parallelizing across functions) can share one Stats
// across goroutines without a separate lock.
type Stats struct {
	Functions     atomic.Int64
	Instructions  atomic.Int64
	Loads         atomic.Int64
	Stores        atomic.Int64
	CSEDead       atomic.Int64
	CSESimplify   atomic.Int64
	CSEElim       atomic.Int64
	CSELdElim     atomic.Int64
	CSEStore2Load atomic.Int64
	CSEStElim     atomic.Int64
}

// Inc atomically increments one of Stats' counter fields by one.
func (s *Stats) Inc(counter *atomic.Int64) {
	counter.Add(1)
}

// Rows returns the ten counters in spec.md §6.3's listed order, ready
// for the CSV sidecar writer.
func (s *Stats) Rows() [][2]string {
	return [][2]string{
		{"Functions", strconv.FormatInt(s.Functions.Load(), 10)},
		{"Instructions", strconv.FormatInt(s.Instructions.Load(), 10)},
		{"Loads", strconv.FormatInt(s.Loads.Load(), 10)},
		{"Stores", strconv.FormatInt(s.Stores.Load(), 10)},
		{"CSEDead", strconv.FormatInt(s.CSEDead.Load(), 10)},
		{"CSESimplify", strconv.FormatInt(s.CSESimplify.Load(), 10)},
		{"CSEElim", strconv.FormatInt(s.CSEElim.Load(), 10)},
		{"CSELdElim", strconv.FormatInt(s.CSELdElim.Load(), 10)},
		{"CSEStore2Load", strconv.FormatInt(s.CSEStore2Load.Load(), 10)},
		{"CSEStElim", strconv.FormatInt(s.CSEStElim.Load(), 10)},
	}
}
