package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctcplab/ctcp/wire"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := &wire.Segment{
		SeqNo:   1,
		AckNo:   6,
		Flags:   wire.FlagACK,
		Window:  4096,
		Payload: []byte("hello"),
	}

	b := wire.Encode(s)
	got, ok := wire.Decode(b)
	require.True(t, ok, "decode should succeed on a freshly encoded segment")

	assert.Equal(t, s.SeqNo, got.SeqNo)
	assert.Equal(t, s.AckNo, got.AckNo)
	assert.Equal(t, s.Flags, got.Flags)
	assert.Equal(t, s.Window, got.Window)
	assert.Equal(t, s.Payload, got.Payload)
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	b := wire.Encode(&wire.Segment{SeqNo: 1, AckNo: 1, Flags: wire.FlagACK, Payload: []byte("x")})
	b[wire.HeaderSize] ^= 0xff // corrupt a payload byte without updating cksum

	_, ok := wire.Decode(b)
	assert.False(t, ok, "decode should reject a segment whose checksum no longer verifies")
}

func TestDecodeRejectsShortBuffer(t *testing.T) {
	_, ok := wire.Decode([]byte{1, 2, 3})
	assert.False(t, ok)
}

func TestDecodeRejectsInconsistentLen(t *testing.T) {
	b := wire.Encode(&wire.Segment{SeqNo: 1, Flags: wire.FlagACK, Payload: []byte("hello")})
	wire.Header(b).SetLen(uint16(len(b) + 10))
	_, ok := wire.Decode(b)
	assert.False(t, ok)
}

func TestZeroLengthPayloadEncodesBareHeader(t *testing.T) {
	b := wire.Encode(&wire.Segment{SeqNo: 7, AckNo: 7, Flags: wire.FlagACK | wire.FlagFIN})
	assert.Equal(t, wire.HeaderSize, len(b))
	got, ok := wire.Decode(b)
	require.True(t, ok)
	assert.Equal(t, 0, got.PayloadLen())
	assert.True(t, got.Flags.Has(wire.FlagFIN))
}
