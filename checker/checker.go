// Package checker provides composable assertions against encoded
// cTCP segments, independent of the engine under test. Checkers are
// plain functions chained onto a decoded segment, so a test states
// only the properties it cares about.
package checker

import (
	"testing"

	"github.com/ctcplab/ctcp/wire"
)

// SegmentChecker is a function that checks a property of a decoded
// segment.
type SegmentChecker func(*testing.T, *wire.Segment)

// Segment decodes b, failing the test if it is not a well-formed
// segment with a valid checksum, then runs every checker against the
// result. Used in conjunction with the property checkers below, e.g.:
//
//	checker.Segment(t, b, checker.SeqNum(1), checker.Flags(wire.FlagACK))
func Segment(t *testing.T, b []byte, checkers ...SegmentChecker) {
	t.Helper()

	seg, ok := wire.Decode(b)
	if !ok {
		t.Fatalf("not a valid segment: bad length or checksum mismatch")
	}

	for _, f := range checkers {
		f(t, &seg)
	}
}

// SeqNum creates a checker that checks the segment's sequence number.
func SeqNum(seq uint32) SegmentChecker {
	return func(t *testing.T, s *wire.Segment) {
		t.Helper()
		if s.SeqNo != seq {
			t.Fatalf("bad seqno, got %v, want %v", s.SeqNo, seq)
		}
	}
}

// AckNum creates a checker that checks the segment's ack number.
func AckNum(ack uint32) SegmentChecker {
	return func(t *testing.T, s *wire.Segment) {
		t.Helper()
		if s.AckNo != ack {
			t.Fatalf("bad ackno, got %v, want %v", s.AckNo, ack)
		}
	}
}

// Flags creates a checker that checks the segment carries exactly the
// given flags, no more and no fewer.
func Flags(flags wire.Flags) SegmentChecker {
	return func(t *testing.T, s *wire.Segment) {
		t.Helper()
		if s.Flags != flags {
			t.Fatalf("bad flags, got 0x%x, want 0x%x", s.Flags, flags)
		}
	}
}

// FlagsMatch creates a checker that checks the segment's flags, masked
// by mask, match flags. Useful when a caller only cares about a
// subset of the bits (e.g. ACK, ignoring FIN).
func FlagsMatch(flags, mask wire.Flags) SegmentChecker {
	return func(t *testing.T, s *wire.Segment) {
		t.Helper()
		if s.Flags&mask != flags&mask {
			t.Fatalf("bad masked flags, got 0x%x, want 0x%x, mask 0x%x", s.Flags, flags, mask)
		}
	}
}

// Window creates a checker that checks the segment's advertised
// receive window.
func Window(window uint16) SegmentChecker {
	return func(t *testing.T, s *wire.Segment) {
		t.Helper()
		if s.Window != window {
			t.Fatalf("bad window, got %v, want %v", s.Window, window)
		}
	}
}

// PayloadLen creates a checker that checks the segment's payload
// length.
func PayloadLen(n int) SegmentChecker {
	return func(t *testing.T, s *wire.Segment) {
		t.Helper()
		if l := s.PayloadLen(); l != n {
			t.Fatalf("bad payload length, got %v, want %v", l, n)
		}
	}
}
