package lazyset

import (
	"math"
	"sync/atomic"

	"github.com/dijkstracula/go-lazyset/internal/ilock"
)

// headKey and tailKey give the two sentinels an explicit place in the
// int64 key space well outside the range any real fingerprint (a 32-bit
// signed integer, cast up to int64) can occupy. This resolves, by
// construction, the ambiguity spec.md §9 flags about reading an
// "uninitialized" tail key: tail's key is a real, comparable +∞, not a
// zero value that happens to be treated specially.
const (
	headKey int64 = math.MinInt64
	tailKey int64 = math.MaxInt64
)

// node is a cell in the sorted singly-linked list. item and key are
// immutable after construction; marked, next, and replacement are mutated
// under lock (or, for marked/next/replacement reads, lock-free with
// acquire semantics via atomic.Bool/atomic.Pointer).
type node struct {
	item Element
	key  int64

	lock *ilock.Mutex

	marked      atomic.Bool
	next        atomic.Pointer[node]
	replacement atomic.Pointer[node]
}

func newSentinel(key int64) *node {
	n := &node{key: key, lock: ilock.New()}
	return n
}

func newNode(item Element) *node {
	n := &node{
		item: item,
		key:  int64(item.Fingerprint()),
		lock: ilock.New(),
	}
	return n
}

func (n *node) lockExclusive()   { n.lock.XLock() }
func (n *node) unlockExclusive() { n.lock.XUnlock() }

func (n *node) isMarked() bool { return n.marked.Load() }
func (n *node) mark()          { n.marked.Store(true) }

func (n *node) getNext() *node   { return n.next.Load() }
func (n *node) setNext(to *node) { n.next.Store(to) }

func (n *node) getReplacement() *node  { return n.replacement.Load() }
func (n *node) setReplacement(r *node) { n.replacement.Store(r) }
func (n *node) clearReplacement()      { n.replacement.Store(nil) }
