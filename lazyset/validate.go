package lazyset

// validate must be called with both pred and curr locked. It reports
// whether the window captured by a prior unlocked find is still live:
// neither node has been marked, and pred still points directly at curr.
func validate(pred, curr *node) bool {
	return !pred.isMarked() && !curr.isMarked() && pred.getNext() == curr
}
