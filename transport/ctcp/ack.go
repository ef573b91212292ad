package ctcp

import "github.com/ctcplab/ctcp/wire"

// stampAck pops the pending ack (if any) into seg, falling back to the
// current cumulative receive position. Every outbound segment (fresh
// data, retransmit, or standalone ack) passes through here exactly
// once, which is what lets a standalone ack be skipped
// whenever a data segment already carried the same information: by
// the time emitStandaloneAck runs, the pop already happened.
func (c *Connection) stampAck(seg *wire.Segment) {
	if v, ok := c.popPendingAck(); ok {
		seg.AckNo = uint32(v)
	} else {
		seg.AckNo = uint32(c.recvWindowLo)
	}
	seg.Flags |= wire.FlagACK
	seg.Window = uint16(c.cfg.RecvWindow)
}

// send encodes seg, stamps the current ack onto it, and hands it to
// the transport. A transport-level send failure is logged and
// otherwise ignored: the retransmission timer is the only recovery
// path for a lost segment (transport send failures are transient by
// the error taxonomy).
func (e *Engine) send(c *Connection, seg *wire.Segment) {
	c.stampAck(seg)
	b := wire.Encode(seg)
	if _, err := c.transport.Send(b); err != nil {
		c.log.Debug().Err(err).Msg("transport send failed, retransmission timer will retry")
		e.metrics.TransportSendFailures.Inc()
	}
	e.metrics.SegmentsSent.Inc()
}

// emitStandaloneAck sends a bare ack segment if a tick's worth of work
// left a pending ack unconsumed (i.e. neither a fresh data segment nor
// a retransmission went out this cycle).
func (e *Engine) emitStandaloneAck(c *Connection) {
	if c.destroyed || !c.hasPendingAck {
		return
	}
	seg := wire.Segment{SeqNo: uint32(c.seqnoNext)}
	e.send(c, &seg)
}
