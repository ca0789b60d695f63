package gindex

// extendSlice extends a slice to newLen zero-valued elements, reallocating with
// at least double the old capacity when the backing array is too small.
func extendSlice[T any](s []T, newLen int) []T {
	if newLen <= len(s) {
		return s
	}
	if cap(s) >= newLen {
		return s[:newLen]
	}
	newCap := max(2*cap(s), newLen)
	ns := make([]T, newLen, newCap)
	copy(ns, s)
	return ns
}
