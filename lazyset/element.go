package lazyset

// Element is anything that can live in a Set. The set orders elements
// solely by their fingerprint; two elements whose fingerprints collide are
// indistinguishable to the set, by design (see SPEC_FULL.md, Non-goals).
type Element interface {
	Fingerprint() int32
}

// Int32 is a convenience Element for the common case of keying the set
// directly by a 32-bit integer.
type Int32 int32

// Fingerprint returns the value itself.
func (i Int32) Fingerprint() int32 {
	return int32(i)
}
