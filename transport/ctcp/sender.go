package ctcp

import (
	"io"
	"time"

	"github.com/ctcplab/ctcp/buffer"
	"github.com/ctcplab/ctcp/seqnum"
	"github.com/ctcplab/ctcp/wire"
)

// readApplicationInput drains the application's input stream into the
// send buffer. It reads repeatedly until the application signals
// either "nothing more right now" (0, nil) or end-of-stream (0, EOF).
// Any other error is fatal: the application write/read contract is
// broken and the connection cannot continue.
func (e *Engine) readApplicationInput(c *Connection) error {
	if c.flags.has(flagEOFRead) {
		return nil
	}

	buf := make([]byte, MaxSegmentData)
	for {
		n, err := c.app.Read(buf)
		if n > 0 {
			view := buffer.NewViewFromBytes(buf[:n])
			c.enqueueData(view)
			continue
		}
		if err == nil {
			return nil
		}
		if err == io.EOF {
			c.flags |= flagEOFRead
			c.enqueueFIN()
			return nil
		}
		c.log.Warn().Err(err).Msg("application read failed")
		e.metrics.ApplicationFatals.Inc()
		return errApplicationFatal
	}
}

// enqueueData appends a new data segment built from payload to the
// send buffer, consuming payload.Size() sequence numbers.
func (c *Connection) enqueueData(payload buffer.View) {
	s := &queuedSegment{
		seg: wire.Segment{
			SeqNo:   uint32(c.seqnoNext),
			Flags:   wire.FlagACK,
			Payload: []byte(payload),
		},
	}
	c.seqnoNext = c.seqnoNext.Add(seqnum.Size(payload.Size()))
	c.sendBuffer.pushBack(s)
}

// enqueueFIN appends the connection's single FIN segment to the send
// buffer. It consumes exactly one sequence number and is only ever
// called once per connection, from readApplicationInput the moment
// EOF is observed.
func (c *Connection) enqueueFIN() {
	s := &queuedSegment{
		seg: wire.Segment{
			SeqNo: uint32(c.seqnoNext),
			Flags: wire.FlagACK | wire.FlagFIN,
		},
	}
	c.seqnoNext = c.seqnoNext.Add(1)
	c.flags |= flagFINSent
	c.sendBuffer.pushBack(s)
}

// sendWindowGated moves segments from the head of the send buffer into
// the unacked buffer and transmits them for as long as doing so keeps
// total outstanding payload within cfg.SendWindow.
func (e *Engine) sendWindowGated(c *Connection) {
	for {
		head := c.sendBuffer.front()
		if head == nil {
			return
		}

		end := seqnum.Value(head.seg.SeqNo).Add(seqnum.Size(head.payloadLen()))
		if c.sendWindowLo.Size(end) > seqnum.Size(c.cfg.SendWindow) {
			return
		}

		c.sendBuffer.remove(head)
		head.lastSentTime = time.Now()
		head.retransmitCount = 0
		c.unackedBuffer.pushBack(head)

		e.send(c, &head.seg)
	}
}

// retransmitHead inspects the head of the unacked buffer and, if it
// has aged past cfg.RTTimeout, retransmits it. It reports whether a
// retransmission (or a retry-cap destruction) occurred, so the timer
// knows whether a fresh send should also be attempted this tick.
func (e *Engine) retransmitHead(c *Connection) bool {
	head := c.unackedBuffer.front()
	if head == nil {
		return false
	}
	if time.Since(head.lastSentTime) <= c.cfg.RTTimeout {
		return false
	}

	if head.retransmitCount >= RetryCap {
		c.log.Warn().Err(errRetryCapExceeded).Int("retransmit_count", head.retransmitCount).Msg("retry cap exceeded")
		e.metrics.RetryCapExhaustions.Inc()
		e.destroy(c)
		return true
	}

	head.lastSentTime = time.Now()
	e.send(c, &head.seg)
	head.retransmitCount++
	e.metrics.SegmentsRetransmitted.Inc()
	c.log.Debug().Int("retransmit_count", head.retransmitCount).Msg("retransmitting head segment")
	return true
}

// handleAck processes an inbound ackno against the unacked buffer:
// every segment fully covered by the new cumulative ack is released,
// and sendWindowLo advances. Acks at or behind the current
// sendWindowLo are stale and ignored.
func (c *Connection) handleAck(ack seqnum.Value) {
	if !c.sendWindowLo.LessThan(ack) {
		return
	}
	// An ack for sequence numbers never assigned is bogus; accepting
	// it would let sendWindowLo overtake seqnoNext.
	if c.seqnoNext.LessThan(ack) {
		return
	}
	for {
		head := c.unackedBuffer.front()
		if head == nil {
			break
		}
		end := seqnum.Value(head.seg.SeqNo).Add(seqnum.Size(head.payloadLen()))
		if head.seg.Flags.Has(wire.FlagFIN) {
			end = end.Add(1)
		}
		if ack.LessThan(end) {
			break
		}
		c.unackedBuffer.remove(head)
	}
	c.sendWindowLo = ack
}
