// Package ctcp implements a reliable byte-stream transport layered
// over an unreliable datagram service. An Engine owns the registry of
// live connections and exposes the four entry points a host event loop
// drives: OnReadable, OnSegment, OnTimer and Destroy. The engine is
// single-threaded cooperative: a host must never call back into it
// re-entrantly from within one of these four methods.
package ctcp

import (
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/ctcplab/ctcp/host"
	"github.com/ctcplab/ctcp/ilist"
	"github.com/ctcplab/ctcp/metrics"
)

// Engine is the process-wide registry of connections plus the shared
// configuration and instrumentation they all use. Construct one with
// New and drive it exclusively through its entry-point methods.
type Engine struct {
	cfg     Config
	log     zerolog.Logger
	metrics *metrics.Metrics

	registry ilist.List
	byID     map[xid.ID]*Connection
}

// New constructs an Engine. cfg is validated immediately; an invalid
// configuration is a programmer error, not a runtime condition, so it
// is returned rather than panicking.
func New(cfg Config, m *metrics.Metrics) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Engine{
		cfg:     cfg,
		log:     newEngineLogger(),
		metrics: m,
		byID:    make(map[xid.ID]*Connection),
	}, nil
}

// Open creates a new connection bound to transport and app, assigns it
// a registry id, and inserts it at the front of the registry so that
// OnTimer visits the most recently opened connections first.
func (e *Engine) Open(transport host.Transport, app host.Application) *Connection {
	id := xid.New()
	c := &Connection{
		id:           id,
		transport:    transport,
		app:          app,
		cfg:          e.cfg,
		log:          connLogger(e.log, id),
		seqnoNext:    1,
		sendWindowLo: 1,
		recvWindowLo: 1,
	}

	e.registry.PushFront(c)
	e.byID[id] = c

	e.metrics.ConnectionsOpened.Inc()
	e.metrics.LiveConnections.Set(float64(e.registry.Len()))
	c.log.Info().Msg("connection opened")

	return c
}

// Lookup returns the connection registered under id, if still live.
func (e *Engine) Lookup(id xid.ID) (*Connection, bool) {
	c, ok := e.byID[id]
	return c, ok
}

// Len reports the number of live connections, mirroring the
// live_connections gauge.
func (e *Engine) Len() int {
	return e.registry.Len()
}

// OnReadable is invoked by the host when it believes application data
// may be available to read for the connection identified by id. It
// drives the sender path: draining the application's
// input, segmenting it, and transmitting whatever the send window
// currently allows.
func (e *Engine) OnReadable(id xid.ID) error {
	c, ok := e.byID[id]
	if !ok {
		return errUnknownConnection
	}
	if c.destroyed {
		return nil
	}

	if err := e.readApplicationInput(c); err != nil {
		e.destroy(c)
		return nil
	}
	e.sendWindowGated(c)
	return nil
}

// OnSegment is invoked by the host when a datagram addressed to
// connection id has arrived from the transport. b is the raw wire
// bytes of exactly one segment.
func (e *Engine) OnSegment(id xid.ID, b []byte) error {
	c, ok := e.byID[id]
	if !ok {
		return errUnknownConnection
	}
	if c.destroyed {
		return nil
	}
	e.handleInboundSegment(c, b)
	e.sendWindowGated(c)
	e.drainOutput(c)
	e.checkTeardown(c)
	return nil
}

// OnTimer is invoked by the host on cfg.TimerInterval. It walks the
// registry, capturing each entry's successor before possibly
// destroying the current one, and for every live connection performs,
// in order: retransmission check, window-gated send, ack
// emission/piggyback, output drain, teardown check.
func (e *Engine) OnTimer() {
	for entry := e.registry.Front(); entry != nil; {
		c := entry.(*Connection)
		next := entry.Next()

		e.tick(c)

		entry = next
	}
}

// tick runs one connection's portion of a timer cycle.
func (e *Engine) tick(c *Connection) {
	if c.destroyed {
		return
	}

	retransmitted := e.retransmitHead(c)
	if !retransmitted {
		e.sendWindowGated(c)
	}
	e.emitStandaloneAck(c)
	e.drainOutput(c)
	e.checkTeardown(c)
}

// Destroy forces immediate teardown of the connection identified by
// id, releasing its buffers, removing it from the registry and closing
// its transport. It is safe to call on an id that is unknown or
// already destroyed.
func (e *Engine) Destroy(id xid.ID) {
	c, ok := e.byID[id]
	if !ok || c.destroyed {
		return
	}
	e.destroy(c)
}

// destroy is the single release path for a connection: every exit
// from the engine that decides a connection must go (teardown
// complete, retry cap exceeded, application fatal write) funnels
// through here exactly once.
func (e *Engine) destroy(c *Connection) {
	if c.destroyed {
		return
	}
	c.destroyed = true

	e.registry.Remove(c)
	delete(e.byID, c.id)

	c.sendBuffer = segmentQueue{}
	c.unackedBuffer = segmentQueue{}
	c.reassembly = reassemblyBuffer{}
	c.output = outputBuffer{}

	if err := c.transport.Close(); err != nil {
		c.log.Warn().Err(err).Msg("transport close failed during teardown")
	}

	e.metrics.ConnectionsDestroyed.Inc()
	e.metrics.LiveConnections.Set(float64(e.registry.Len()))
	c.log.Info().Msg("connection destroyed")
}
