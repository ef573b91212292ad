package ctcp

import (
	"github.com/ctcplab/ctcp/metrics"
	"github.com/ctcplab/ctcp/seqnum"
	"github.com/ctcplab/ctcp/wire"
)

// handleInboundSegment is the entry point for every datagram the
// transport delivers. It validates the segment, folds its ackno into
// the sender path, and, for segments that carry payload or a FIN,
// runs receive-side admission and reassembly.
func (e *Engine) handleInboundSegment(c *Connection, b []byte) {
	seg, ok := wire.Decode(b)
	if !ok {
		err := errChecksumMismatch
		if len(b) < wire.HeaderSize {
			err = errMalformedSegment
		}
		c.log.Debug().Err(err).Msg("dropping malformed or checksum-failed segment")
		e.metrics.Dropped(metrics.DropChecksum)
		return
	}

	if seg.Flags.Has(wire.FlagACK) {
		c.handleAck(seqnum.Value(seg.AckNo))
	}

	if seg.PayloadLen() == 0 && !seg.Flags.Has(wire.FlagFIN) {
		// Pure ack: nothing further to do on the receive side.
		return
	}

	e.acceptInbound(c, &seg)
}

// acceptInbound applies window/duplicate admission to an inbound
// data-or-FIN segment, inserts it into the reassembly buffer if
// admitted, and drains whatever contiguous prefix that creates.
func (e *Engine) acceptInbound(c *Connection, seg *wire.Segment) {
	seqno := seqnum.Value(seg.SeqNo)
	end := seqno.Add(seqnum.Size(seg.PayloadLen()))

	// Segments entirely behind recvWindowLo are retransmissions of
	// data already delivered, not window violations: classify them as
	// duplicates before applying the window test.
	duplicate := seqno.LessThan(c.recvWindowLo) || c.reassembly.has(seqno)
	if duplicate {
		c.log.Debug().Err(errDuplicateSegment).Uint32("seqno", seg.SeqNo).Msg("dropping duplicate segment")
		e.metrics.Dropped(metrics.DropDuplicate)
		c.enqueuePendingAck(c.recvWindowLo)
		return
	}

	if c.recvWindowLo.Size(end) > seqnum.Size(c.cfg.RecvWindow) {
		c.log.Debug().Err(errOutOfWindow).Uint32("seqno", seg.SeqNo).Msg("dropping out-of-window segment")
		e.metrics.Dropped(metrics.DropOutOfWindow)
		c.enqueuePendingAck(c.recvWindowLo)
		return
	}

	c.reassembly.insert(&pendingSegment{
		seqno:   seqno,
		payload: append([]byte(nil), seg.Payload...),
		fin:     seg.Flags.Has(wire.FlagFIN),
	})

	e.drainReassembly(c)
	c.enqueuePendingAck(c.recvWindowLo)
}

// drainReassembly moves the contiguous prefix of the reassembly buffer
// into the output buffer, advancing recvWindowLo as it goes. A FIN
// consumes one phantom byte of sequence space and, once drained, marks
// the connection as having received end-of-stream.
func (e *Engine) drainReassembly(c *Connection) {
	for {
		head := c.reassembly.front()
		if head == nil || head.seqno != c.recvWindowLo {
			return
		}
		c.reassembly.removeFront()

		if len(head.payload) > 0 {
			c.output.pushBack(&outputChunk{payload: head.payload})
		}
		c.recvWindowLo = c.recvWindowLo.Add(seqnum.Size(len(head.payload)))

		if head.fin {
			c.recvWindowLo = c.recvWindowLo.Add(1)
			c.flags |= flagFINReceived
			c.output.pushBack(&outputChunk{eof: true})
		}
	}
}

// drainOutput delivers as much of the output buffer to the
// application as its buffer space currently allows. A negative buffer
// space, or a Write error, is a fatal application condition and
// destroys the connection.
func (e *Engine) drainOutput(c *Connection) {
	if c.destroyed {
		return
	}
	for {
		head := c.output.front()
		if head == nil {
			return
		}

		if head.eof {
			if _, err := c.app.Write(nil); err != nil {
				c.log.Warn().Err(err).Msg("application write failed on end-of-stream delivery")
				e.metrics.ApplicationFatals.Inc()
				e.destroy(c)
				return
			}
			c.output.removeFront()
			continue
		}

		space := c.app.BufferSpace()
		if space < 0 {
			c.log.Warn().Msg("application reported fatal negative buffer space")
			e.metrics.ApplicationFatals.Inc()
			e.destroy(c)
			return
		}
		if space < len(head.payload) {
			return
		}

		n, err := c.app.Write(head.payload)
		if err != nil {
			c.log.Warn().Err(err).Msg("application write failed")
			e.metrics.ApplicationFatals.Inc()
			e.destroy(c)
			return
		}
		if n < len(head.payload) {
			head.payload = head.payload[n:]
			return
		}
		c.output.removeFront()
	}
}
