package ctcp

import "time"

// MaxSegmentData is the largest number of application bytes packed
// into a single segment's payload.
const MaxSegmentData = 1400

// RetryCap is the number of consecutive retransmissions of a head
// segment tolerated before the connection is destroyed.
const RetryCap = 5

// Config holds the per-engine parameters governing every connection
// the engine manages. There is no per-connection override: all
// connections opened by one Engine share one Config.
type Config struct {
	// RecvWindow is the number of bytes beyond recv_window_lo the
	// engine will accept from a peer.
	RecvWindow int

	// SendWindow is the number of bytes the engine may have
	// outstanding, unacknowledged, at once.
	SendWindow int

	// RTTimeout is how long a segment waits at the head of the
	// unacked buffer before being retransmitted.
	RTTimeout time.Duration

	// TimerInterval is the cadence at which OnTimer is expected to be
	// invoked by the host loop. The engine does not schedule its own
	// timer and does not read this value beyond validating it; the host
	// uses it to drive its calls to OnTimer.
	TimerInterval time.Duration
}

// DefaultConfig returns sane defaults: a 3200-byte window, a
// 1-second retransmission timeout and a 100ms timer tick.
func DefaultConfig() Config {
	return Config{
		RecvWindow:    3200,
		SendWindow:    3200,
		RTTimeout:     time.Second,
		TimerInterval: 100 * time.Millisecond,
	}
}

// Validate rejects a configuration with zero or negative windows or
// timeouts. Callers get the error at construction time instead of a
// stalled connection later.
func (c Config) Validate() error {
	if c.RecvWindow <= 0 || c.SendWindow <= 0 {
		return errInvalidConfig
	}
	if c.RTTimeout <= 0 || c.TimerInterval <= 0 {
		return errInvalidConfig
	}
	return nil
}
