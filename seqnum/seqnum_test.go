package seqnum

import "testing"

func TestLessThan(t *testing.T) {
	tests := []struct {
		v, w Value
		want bool
	}{
		{1, 2, true},
		{2, 1, false},
		{5, 5, false},
		// Wraparound: a value just below the top of the space is
		// "before" a small value near zero.
		{0xfffffff0, 4, true},
		{4, 0xfffffff0, false},
	}
	for _, test := range tests {
		if got := test.v.LessThan(test.w); got != test.want {
			t.Errorf("%v.LessThan(%v) = %v, want %v", test.v, test.w, got, test.want)
		}
	}
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		v     Value
		first Value
		size  Size
		want  bool
	}{
		{10, 10, 5, true},
		{14, 10, 5, true},
		{15, 10, 5, false},
		{9, 10, 5, false},
		// A window spanning the wraparound point.
		{2, 0xfffffffe, 8, true},
		{6, 0xfffffffe, 8, false},
	}
	for _, test := range tests {
		if got := test.v.InWindow(test.first, test.size); got != test.want {
			t.Errorf("%v.InWindow(%v, %v) = %v, want %v", test.v, test.first, test.size, got, test.want)
		}
	}
}

func TestAddWrapsAround(t *testing.T) {
	v := Value(0xfffffffe)
	if got := v.Add(4); got != 2 {
		t.Errorf("Add across wraparound = %v, want 2", got)
	}
}

func TestSize(t *testing.T) {
	if got := Value(10).Size(16); got != 6 {
		t.Errorf("Size = %v, want 6", got)
	}
	if got := Value(0xfffffffe).Size(2); got != 4 {
		t.Errorf("Size across wraparound = %v, want 4", got)
	}
}
