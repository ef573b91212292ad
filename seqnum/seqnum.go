// Package seqnum defines the types and arithmetic used to work with
// sequence and acknowledgement numbers of the reliable transport
// protocol implemented by package ctcp.
//
// All comparisons between Values are modular (mod 2^32), so that
// arithmetic remains correct across wraparound. Plain Go comparison
// operators must never be used directly on Values; use the methods
// below instead.
package seqnum

// Value represents the value of a sequence or acknowledgement number.
type Value uint32

// Size represents the size of a sequence number window, i.e. a
// difference between two Values.
type Size uint32

// Add returns v+s as a sequence number.
func (v Value) Add(s Size) Value {
	return v + Value(s)
}

// Size returns the number of bytes between v and to, i.e. to-v, as a
// Size. The result is meaningful only when to is modularly "ahead of"
// v; callers that need a signed difference should use LessThan instead.
func (v Value) Size(to Value) Size {
	return Size(to - v)
}

// LessThan checks if v is before w, i.e. if it's smaller than w in a
// sequence-number sense, tolerating wraparound via a signed 32-bit
// subtraction as recommended for modular sequence-number comparisons.
func (v Value) LessThan(w Value) bool {
	return int32(v-w) < 0
}

// LessThanEq checks if v is before or equal to w in sequence-number
// space.
func (v Value) LessThanEq(w Value) bool {
	return v == w || v.LessThan(w)
}

// InRange checks if v is in the range [lo, hi), i.e. whether
// lo <= v < hi, in modular sequence-number space.
func (v Value) InRange(lo, hi Value) bool {
	return v-lo < hi-lo
}

// InWindow checks if v is in the window that starts at first and spans
// size bytes, i.e. whether first <= v < first+size.
func (v Value) InWindow(first Value, size Size) bool {
	return v.InRange(first, first.Add(size))
}

// UpdateForward advances v by size, in place. It's a convenience used
// on receive-side cumulative sequence counters.
func (v *Value) UpdateForward(size Size) {
	*v = v.Add(size)
}
