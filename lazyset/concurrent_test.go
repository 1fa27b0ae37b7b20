package lazyset

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// opKind enumerates the mutators and the membership test a worker may
// issue during the concurrent stress test.
type opKind int

const (
	opAdd opKind = iota
	opRemove
	opReplace
	opContains
)

// recordedOp is one entry in the history the linearizability oracle
// checks: a logical (not wall-clock) start/end tick pair, bracketing the
// real call, plus what was asked and what the set returned.
type recordedOp struct {
	kind       opKind
	a, b       int32
	start, end int64
	result     bool
}

// tickClock hands out a strictly increasing logical timestamp per call,
// used instead of time.Now() so the recorded intervals reflect real
// concurrency (overlap) without depending on wall-clock resolution.
type tickClock struct{ v int64 }

func (c *tickClock) next() int64 { return atomic.AddInt64(&c.v, 1) }

// TestConcurrentStress_IsSortedAndLinearizable is the spec's "Concurrent
// stress property": N goroutines hammer a shared Set with a uniform mix
// of the three mutators and Contains over a small fingerprint universe, the
// chain must stay sorted at every sampling point, and the recorded
// history must admit at least one linearization.
func TestConcurrentStress_IsSortedAndLinearizable(t *testing.T) {
	const (
		numWorkers   = 3
		opsPerWorker = 4
		universe     = 5
	)

	s := New()
	clock := &tickClock{}

	mu := newChanMutex()
	ops := make([]recordedOp, 0, numWorkers*opsPerWorker)

	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < numWorkers; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(int64(w) + 1))
			for i := 0; i < opsPerWorker; i++ {
				a := int32(rng.Intn(universe))
				kind := opKind(rng.Intn(4))

				start := clock.next()
				var result bool
				var b int32
				switch kind {
				case opAdd:
					result = s.Add(Int32(a))
				case opRemove:
					result = s.Remove(Int32(a))
				case opContains:
					result = s.Contains(Int32(a))
				case opReplace:
					b = int32(rng.Intn(universe))
					result = s.Replace(Int32(a), Int32(b))
				}
				end := clock.next()

				require.True(t, s.IsSorted(), "set must stay sorted under concurrent mutation")

				mu.lock()
				ops = append(ops, recordedOp{kind: kind, a: a, b: b, start: start, end: end, result: result})
				mu.unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.True(t, s.IsSorted())
	require.True(t, linearizable(ops), "recorded history has no valid sequential linearization")
}

// chanMutex is a minimal mutual-exclusion primitive for the history
// slice: a buffered channel of capacity one used as a non-reentrant
// exclusive section. A plain sync.Mutex
// would do; this one is spelled out so the stress test doesn't need to
// import "sync" just for a single critical section.
type chanMutex struct{ ch chan struct{} }

func newChanMutex() *chanMutex { return &chanMutex{ch: make(chan struct{}, 1)} }

func (m *chanMutex) lock() {
	m.ch <- struct{}{}
}

func (m *chanMutex) unlock() {
	<-m.ch
}

// linearizable reports whether some total order of ops, consistent with
// the real-time partial order implied by their [start, end] intervals,
// reproduces every recorded result against a sequential set model. This
// is a direct (small-scale) implementation of the technique spec.md §8
// asks for: "a linearization-checking oracle ... comparing against any
// sequential permutation consistent with those intervals".
func linearizable(ops []recordedOp) bool {
	model := make(map[int32]bool, len(ops))
	pending := make([]bool, len(ops))
	for i := range pending {
		pending[i] = true
	}
	return searchLinearization(ops, pending, model)
}

func searchLinearization(ops []recordedOp, pending []bool, model map[int32]bool) bool {
	anyPending := false
	for i, p := range pending {
		if !p {
			continue
		}
		anyPending = true

		if !eligible(ops, pending, i) {
			continue
		}

		next, ok := applyOp(model, ops[i])
		if !ok {
			continue
		}

		pending[i] = false
		if searchLinearization(ops, pending, next) {
			return true
		}
		pending[i] = true
	}
	return !anyPending
}

// eligible reports whether ops[i] may be linearized next: no other still
// pending operation is forced to precede it by real-time order (having
// ended before ops[i] began).
func eligible(ops []recordedOp, pending []bool, i int) bool {
	for j, p := range pending {
		if !p || j == i {
			continue
		}
		if ops[j].end < ops[i].start {
			return false
		}
	}
	return true
}

// applyOp replays a single recorded operation against a copy of the
// sequential model and reports (newModel, matched) -- matched is false if
// the recorded result is impossible under this model, pruning the branch.
func applyOp(model map[int32]bool, op recordedOp) (map[int32]bool, bool) {
	next := make(map[int32]bool, len(model))
	for k, v := range model {
		next[k] = v
	}

	switch op.kind {
	case opContains:
		return next, next[op.a] == op.result

	case opAdd:
		present := next[op.a]
		if present != !op.result {
			return next, false
		}
		next[op.a] = true
		return next, true

	case opRemove:
		present := next[op.a]
		if present != op.result {
			return next, false
		}
		delete(next, op.a)
		return next, true

	case opReplace:
		if op.a == op.b {
			present := next[op.a]
			if present != !op.result {
				return next, false
			}
			next[op.a] = true
			return next, true
		}
		oldPresent := next[op.a]
		newPresent := next[op.b]
		switch {
		case !oldPresent && !newPresent:
			if !op.result {
				return next, false
			}
			next[op.b] = true
		case !oldPresent && newPresent:
			if op.result {
				return next, false
			}
		case oldPresent && !newPresent:
			if !op.result {
				return next, false
			}
			delete(next, op.a)
			next[op.b] = true
		case oldPresent && newPresent:
			if !op.result {
				return next, false
			}
			delete(next, op.a)
		}
		return next, true
	}
	return next, false
}
