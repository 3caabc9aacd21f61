package domain

// Pair names two documents that are expected to be quasi-equal.
type Pair struct {
	Name  string
	Left  string
	Right string
}

// Result is the outcome of comparing one Pair.
type Result struct {
	Pair     Pair
	Mismatch Mismatch
	// Cached is true when the verdict was reused from an earlier quasi-equal pair.
	Cached bool
	// Err is set when the pair could not be compared at all.
	Err error
}

// Equal reports whether the pair was compared successfully and found quasi-equal.
func (r Result) Equal() bool {
	return r.Err == nil && r.Mismatch.Equal
}
