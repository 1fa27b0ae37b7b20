package lazyset

import (
	"sort"

	"go.uber.org/zap"
)

// Replace atomically removes oldElt (if present) and inserts newElt (if
// absent), reporting whether the set was observably modified. See
// spec.md §4.5 and DESIGN.md for the full commit-table rationale.
func (s *Set) Replace(oldElt, newElt Element) bool {
	oldKey := int64(oldElt.Fingerprint())
	newKey := int64(newElt.Fingerprint())

	// Degenerate case: identical fingerprints map to the same slot, so
	// remove-then-insert collapses to a plain Add.
	if oldKey == newKey {
		return s.Add(newElt)
	}

	for retries := 0; ; retries++ {
		predOld, currOld := s.find(oldKey)
		predNew, currNew := s.find(newKey)

		locked := lockAscending(predOld, currOld, predNew, currNew)

		if !validate(predOld, currOld) || !validate(predNew, currNew) {
			unlockAll(locked)
			s.log.Debug("replace: validation failed, retrying",
				zap.Int32("oldKey", oldElt.Fingerprint()),
				zap.Int32("newKey", newElt.Fingerprint()),
				zap.Int("retries", retries))
			continue
		}

		oldPresent := currOld != s.tail && currOld.key == oldKey
		newPresent := currNew != s.tail && currNew.key == newKey

		var modified bool
		switch {
		case !oldPresent && !newPresent:
			n := newNode(newElt)
			n.setNext(currNew)
			predNew.setNext(n)
			modified = true
			s.log.Debug("replace: both absent, inserted new", zap.Int32("newKey", newElt.Fingerprint()))

		case !oldPresent && newPresent:
			modified = false
			s.log.Debug("replace: old absent, new present, unchanged")

		case oldPresent && !newPresent:
			r := newNode(newElt)
			r.setReplacement(currOld)
			r.setNext(currNew)
			predNew.setNext(r)

			currOld.mark()
			if predOld.getNext() == currOld {
				predOld.setNext(currOld.getNext())
			} else {
				// The two windows overlapped such that r now sits
				// immediately before currOld (predOld == predNew);
				// bypass currOld from there instead.
				r.setNext(currOld.getNext())
			}
			r.clearReplacement()
			modified = true
			s.log.Debug("replace: old present, new absent, replaced",
				zap.Int32("oldKey", oldElt.Fingerprint()), zap.Int32("newKey", newElt.Fingerprint()))

		case oldPresent && newPresent:
			currOld.mark()
			predOld.setNext(currOld.getNext())
			modified = true
			s.log.Debug("replace: both present, removed old only", zap.Int32("oldKey", oldElt.Fingerprint()))
		}

		unlockAll(locked)
		return modified
	}
}

// lockAscending collects the (at most four) distinct nodes among its
// arguments, sorts them by list position (their key, with head/tail's
// sentinel keys standing in for -infinity/+infinity), and locks them in
// that order -- the deadlock-avoidance discipline every multi-node
// mutator in this package follows.
func lockAscending(nodes ...*node) []*node {
	uniq := make([]*node, 0, len(nodes))
	for _, n := range nodes {
		found := false
		for _, u := range uniq {
			if u == n {
				found = true
				break
			}
		}
		if !found {
			uniq = append(uniq, n)
		}
	}

	sort.Slice(uniq, func(i, j int) bool { return uniq[i].key < uniq[j].key })

	for _, n := range uniq {
		n.lockExclusive()
	}
	return uniq
}

// unlockAll releases locks in the reverse of the order lockAscending
// acquired them.
func unlockAll(locked []*node) {
	for i := len(locked) - 1; i >= 0; i-- {
		locked[i].unlockExclusive()
	}
}
