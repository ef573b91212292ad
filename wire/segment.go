// Package wire implements the on-the-wire segment format for the
// reliable transport: a fixed header followed by a variable-length
// payload, all in network byte order.
package wire

import "encoding/binary"

// Field offsets within the fixed header.
const (
	fieldSeqNo  = 0
	fieldAckNo  = 4
	fieldLen    = 8
	fieldFlags  = 10
	fieldWindow = 14
	fieldCksum  = 16
)

// HeaderSize is the length, in bytes, of the fixed segment header.
const HeaderSize = 18

// Flags that may be set in a segment.
const (
	FlagACK Flags = 1 << 0
	FlagFIN Flags = 1 << 1
)

// Flags is a bitmask of the flags carried in a segment header.
type Flags uint32

// Has reports whether all bits in mask are set in f.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Header is a segment header stored in wire byte order. Slicing a
// byte buffer into a Header gives direct, allocation-free access to
// its fields.
type Header []byte

// SeqNo returns the seqno field.
func (h Header) SeqNo() uint32 { return binary.BigEndian.Uint32(h[fieldSeqNo:]) }

// SetSeqNo sets the seqno field.
func (h Header) SetSeqNo(v uint32) { binary.BigEndian.PutUint32(h[fieldSeqNo:], v) }

// AckNo returns the ackno field.
func (h Header) AckNo() uint32 { return binary.BigEndian.Uint32(h[fieldAckNo:]) }

// SetAckNo sets the ackno field.
func (h Header) SetAckNo(v uint32) { binary.BigEndian.PutUint32(h[fieldAckNo:], v) }

// Len returns the len field: header size plus payload size.
func (h Header) Len() uint16 { return binary.BigEndian.Uint16(h[fieldLen:]) }

// SetLen sets the len field.
func (h Header) SetLen(v uint16) { binary.BigEndian.PutUint16(h[fieldLen:], v) }

// TCPFlags returns the flags field. Named to avoid colliding with the
// Flags type.
func (h Header) TCPFlags() Flags { return Flags(binary.BigEndian.Uint32(h[fieldFlags:])) }

// SetFlags sets the flags field.
func (h Header) SetFlags(f Flags) { binary.BigEndian.PutUint32(h[fieldFlags:], uint32(f)) }

// Window returns the window field.
func (h Header) Window() uint16 { return binary.BigEndian.Uint16(h[fieldWindow:]) }

// SetWindow sets the window field.
func (h Header) SetWindow(v uint16) { binary.BigEndian.PutUint16(h[fieldWindow:], v) }

// Cksum returns the cksum field.
func (h Header) Cksum() uint16 { return binary.BigEndian.Uint16(h[fieldCksum:]) }

// SetCksum sets the cksum field.
func (h Header) SetCksum(v uint16) { binary.BigEndian.PutUint16(h[fieldCksum:], v) }

// Payload returns the bytes following the fixed header, bounded by the
// segment's own Len field rather than by cap(h), so that a header
// sliced from a larger receive buffer never leaks trailing garbage.
func (h Header) Payload() []byte {
	l := int(h.Len())
	if l < HeaderSize || l > len(h) {
		return nil
	}
	return h[HeaderSize:l]
}

// Segment is a decoded wire segment: header fields plus an owned copy
// of the payload.
type Segment struct {
	SeqNo   uint32
	AckNo   uint32
	Flags   Flags
	Window  uint16
	Payload []byte
}

// PayloadLen returns the number of payload bytes carried by the
// segment.
func (s *Segment) PayloadLen() int { return len(s.Payload) }

// Encode serializes s into a freshly allocated wire buffer with the
// checksum computed and stamped in. It is the only place outbound
// segments get their checksum: callers must not hand-roll the header.
func Encode(s *Segment) []byte {
	b := make([]byte, HeaderSize+len(s.Payload))
	h := Header(b)
	h.SetSeqNo(s.SeqNo)
	h.SetAckNo(s.AckNo)
	h.SetLen(uint16(len(b)))
	h.SetFlags(s.Flags)
	h.SetWindow(s.Window)
	h.SetCksum(0)
	copy(b[HeaderSize:], s.Payload)
	h.SetCksum(Checksum(b))
	return b
}

// Decode parses b into a Segment, validating its length and checksum.
// It returns false if b is too short to contain a header, if the len
// field is inconsistent with the buffer it was carried in, or if the
// checksum does not verify.
func Decode(b []byte) (Segment, bool) {
	if len(b) < HeaderSize {
		return Segment{}, false
	}
	h := Header(b)
	l := int(h.Len())
	if l < HeaderSize || l > len(b) {
		return Segment{}, false
	}
	b = b[:l]
	h = Header(b)
	onWire := h.Cksum()
	h.SetCksum(0)
	computed := Checksum(b)
	h.SetCksum(onWire)
	if onWire != computed {
		return Segment{}, false
	}
	return Segment{
		SeqNo:   h.SeqNo(),
		AckNo:   h.AckNo(),
		Flags:   h.TCPFlags(),
		Window:  h.Window(),
		Payload: append([]byte(nil), h.Payload()...),
	}, true
}
