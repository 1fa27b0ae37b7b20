package lazyset

import "go.uber.org/zap"

// Remove deletes the element with item's fingerprint, if present. Reports
// whether the set was modified. The mark happens before the physical
// unlink: readers that observed curr before the mark reject it because of
// the mark; readers that arrive afterward may never see it at all.
func (s *Set) Remove(item Element) bool {
	key := int64(item.Fingerprint())

	for retries := 0; ; retries++ {
		pred, curr := s.find(key)
		pred.lockExclusive()
		curr.lockExclusive()

		if !validate(pred, curr) {
			curr.unlockExclusive()
			pred.unlockExclusive()
			s.log.Debug("remove: validation failed, retrying", zap.Int32("key", item.Fingerprint()), zap.Int("retries", retries))
			continue
		}

		if curr == s.tail || curr.key != key {
			curr.unlockExclusive()
			pred.unlockExclusive()
			return false
		}

		curr.mark()
		pred.setNext(curr.getNext())

		curr.unlockExclusive()
		pred.unlockExclusive()
		return true
	}
}
