// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package ilock implements Mutex, the per-node lock lazyset's sorted
// linked list uses to guard a node's marked/next/replacement fields.
//
// This started life as a four-state hierarchical "intention lock" (S, X,
// IS, IX -- read/write, and provisional read/write-intent states used to
// lock a path from the root of a tree down to the node actually being
// touched). lazyset's list has no hierarchy: every node is its own
// lockable unit, and spec.md §3 only asks for "a non-reentrant mutex" per
// node, never a path of ancestors. Carrying the full four-state state
// machine here would mean three of its four states are permanently dead
// code, so Mutex has been trimmed down to the one state this package's
// only caller actually acquires: exclusive (X). What survives from the
// original is the shape of the primitive -- a condition variable acts as
// the barrier a blocked XLock waits on, and XUnlock wakes every blocked
// waiter so whichever one re-checks first gets the lock.
package ilock

import "sync"

// Mutex is a non-reentrant exclusive lock.
type Mutex struct {
	mtx  sync.Mutex
	c    *sync.Cond
	held bool
}

// New returns an unlocked Mutex.
func New() *Mutex {
	m := &Mutex{}
	m.c = sync.NewCond(&m.mtx)
	return m
}

// XLock acquires the lock, blocking while another goroutine holds it.
func (m *Mutex) XLock() {
	m.mtx.Lock()
	for m.held {
		m.c.Wait()
	}
	m.held = true
	m.mtx.Unlock()
}

// XUnlock releases the lock and wakes any goroutines blocked in XLock.
func (m *Mutex) XUnlock() {
	m.mtx.Lock()
	m.held = false
	m.mtx.Unlock()
	m.c.Broadcast()
}
