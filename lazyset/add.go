package lazyset

import "go.uber.org/zap"

// Add inserts item if no element with the same fingerprint is present.
// Reports whether the set was modified.
func (s *Set) Add(item Element) bool {
	key := int64(item.Fingerprint())

	for retries := 0; ; retries++ {
		pred, curr := s.find(key)
		pred.lockExclusive()
		curr.lockExclusive()

		if !validate(pred, curr) {
			curr.unlockExclusive()
			pred.unlockExclusive()
			s.log.Debug("add: validation failed, retrying", zap.Int32("key", item.Fingerprint()), zap.Int("retries", retries))
			continue
		}

		if curr != s.tail && curr.key == key {
			curr.unlockExclusive()
			pred.unlockExclusive()
			return false
		}

		n := newNode(item)
		n.setNext(curr)
		pred.setNext(n)

		curr.unlockExclusive()
		pred.unlockExclusive()
		return true
	}
}
