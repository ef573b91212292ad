package ctcp

// checkTeardown destroys c once every teardown condition holds: both
// directions have sent and received a FIN, the local application's
// input has reached end-of-stream, and nothing remains in flight.
// Retry-cap destruction is handled separately, at the point the cap is
// detected (see retransmitHead); this function only ever observes the
// orderly-shutdown condition.
func (e *Engine) checkTeardown(c *Connection) {
	if c.destroyed {
		return
	}
	if !c.flags.has(flagFINSent | flagFINReceived | flagEOFRead) {
		return
	}
	if !c.sendBuffer.empty() || !c.unackedBuffer.empty() {
		return
	}
	// The ack for the peer's FIN may still be pending. Flush it now:
	// destroying first would leave the peer retransmitting its FIN
	// into a closed connection until its own retry cap fires.
	e.emitStandaloneAck(c)
	c.log.Info().Msg("orderly teardown complete")
	e.destroy(c)
}
