package ctcp

import (
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/ctcplab/ctcp/host"
	"github.com/ctcplab/ctcp/ilist"
	"github.com/ctcplab/ctcp/seqnum"
)

// connFlags is the bitset of teardown-relevant flags carried on a
// Connection.
type connFlags uint8

const (
	flagFINSent connFlags = 1 << iota
	flagFINReceived
	flagEOFRead
)

func (f connFlags) has(mask connFlags) bool { return f&mask == mask }

// Connection is the per-connection state the engine drives through its
// four entry points. It is never constructed directly by a caller;
// Engine.Open returns one.
type Connection struct {
	ilist.Entry

	id        xid.ID
	transport host.Transport
	app       host.Application
	cfg       Config
	log       zerolog.Logger

	seqnoNext    seqnum.Value
	sendWindowLo seqnum.Value
	recvWindowLo seqnum.Value

	sendBuffer    segmentQueue
	unackedBuffer segmentQueue
	reassembly    reassemblyBuffer
	output        outputBuffer

	hasPendingAck bool
	pendingAck    seqnum.Value

	flags     connFlags
	destroyed bool
}

// ID returns the connection's registry/log identifier.
func (c *Connection) ID() xid.ID { return c.id }

// UnackedLen reports how many segments are currently outstanding,
// unacknowledged. Exposed for tests observing that a connection's
// send side has fully drained.
func (c *Connection) UnackedLen() int { return c.unackedBuffer.len() }

// UnackedPayload reports the total payload bytes currently outstanding
// in the unacked buffer. This must never exceed cfg.SendWindow; tests
// assert it directly.
func (c *Connection) UnackedPayload() int { return c.unackedBuffer.totalPayload() }

// SendBufferLen reports how many segments are queued but not yet
// window-eligible for transmission.
func (c *Connection) SendBufferLen() int { return c.sendBuffer.len() }

// Destroyed reports whether the connection has already been torn down.
func (c *Connection) Destroyed() bool { return c.destroyed }

// enqueuePendingAck records that recvWindowLo should be acknowledged
// to the peer at the next opportunity. A second call before the first
// is consumed overwrites the value rather than queueing a second
// entry: cumulative acks subsume their predecessors, so the pending-ack
// queue never needs more than one slot.
func (c *Connection) enqueuePendingAck(v seqnum.Value) {
	c.pendingAck = v
	c.hasPendingAck = true
}

// popPendingAck returns the pending ack value, if any, and clears it.
func (c *Connection) popPendingAck() (seqnum.Value, bool) {
	if !c.hasPendingAck {
		return 0, false
	}
	c.hasPendingAck = false
	return c.pendingAck, true
}
