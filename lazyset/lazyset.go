// Package lazyset implements a concurrent ordered set using lazy
// synchronization with optimistic validation: a sorted singly-linked list
// of nodes keyed by a 32-bit fingerprint, where traversal is unlocked,
// mutators lock only the window they intend to touch, and a short
// validation step confirms the window is still live before committing.
//
// Membership testing (Contains) is wait-free. The mutators (Add, Remove,
// Replace) are deadlock-free but not lock-free: they may retry an
// unbounded number of times under adversarial scheduling, same as the
// lazy-set algorithm they implement.
package lazyset

import "go.uber.org/zap"

// Set is a concurrent ordered set of Elements, keyed by Element.Fingerprint.
// The zero value is not usable; construct one with New.
type Set struct {
	head, tail *node
	log        *zap.Logger
}

// Option configures a Set at construction time.
type Option func(*Set)

// WithLogger attaches a structured logger used for debug-level tracing of
// validation retries and replace-commit branch selection. The default is a
// no-op logger, so passing no options costs nothing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Set) {
		s.log = l
	}
}

// New returns an empty Set: two sentinels, head linked directly to tail.
func New(opts ...Option) *Set {
	head := newSentinel(headKey)
	tail := newSentinel(tailKey)
	head.setNext(tail)

	s := &Set{head: head, tail: tail, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("lazyset")
	return s
}
