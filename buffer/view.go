// Package buffer provides a small byte-slice view type. The sender
// path uses it to take an owned copy of each chunk read from the
// application before that chunk becomes a queued segment's payload.
package buffer

// View is a slice of an underlying buffer, with convenience methods for
// incrementally consuming it. It is used to hold a segment's payload.
type View []byte

// NewView allocates a new buffer and returns an initialized view that
// covers the whole buffer.
func NewView(size int) View {
	return make(View, size)
}

// NewViewFromBytes copies b into a freshly allocated View. Segments
// retain their own copy of the payload so that a reused read buffer on
// the caller's side cannot corrupt queued, unsent, or unacknowledged
// data.
func NewViewFromBytes(b []byte) View {
	v := make(View, len(b))
	copy(v, b)
	return v
}

// Size returns the number of bytes currently visible in the view.
func (v View) Size() int {
	return len(v)
}

// CapLength irreversibly reduces the length of the visible section of
// the view to the value specified.
func (v *View) CapLength(length int) {
	// Also cap capacity so a caller cannot grow the view back into the
	// region just excluded.
	*v = (*v)[:length:length]
}

// TrimFront removes the first count bytes from the visible section of
// the view.
func (v *View) TrimFront(count int) {
	*v = (*v)[count:]
}
