package ctcp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctcplab/ctcp/checker"
	"github.com/ctcplab/ctcp/host"
	"github.com/ctcplab/ctcp/transport/ctcp"
	"github.com/ctcplab/ctcp/wire"
)

// pair wires two engines together through stub transports, so that
// whatever engine A sends is delivered to engine B's OnSegment and
// vice versa. Tests can interpose drop predicates on either leg.
type pair struct {
	engineA, engineB *ctcp.Engine
	connA, connB     *ctcp.Connection
	transportA       *host.StubTransport
	transportB       *host.StubTransport
	appA, appB       *host.StubApplication
}

func newPair(t *testing.T, cfg ctcp.Config) *pair {
	t.Helper()

	engineA, err := ctcp.New(cfg, nil)
	require.NoError(t, err)
	engineB, err := ctcp.New(cfg, nil)
	require.NoError(t, err)

	transportA := host.NewStubTransport()
	transportB := host.NewStubTransport()
	appA := host.NewStubApplication()
	appB := host.NewStubApplication()

	connA := engineA.Open(transportA, appA)
	connB := engineB.Open(transportB, appB)

	transportA.OnSend(func(b []byte) { engineB.OnSegment(connB.ID(), b) })
	transportB.OnSend(func(b []byte) { engineA.OnSegment(connA.ID(), b) })

	return &pair{
		engineA: engineA, engineB: engineB,
		connA: connA, connB: connB,
		transportA: transportA, transportB: transportB,
		appA: appA, appB: appB,
	}
}

func tick(p *pair) {
	p.engineA.OnTimer()
	p.engineB.OnTimer()
}

func testConfig() ctcp.Config {
	cfg := ctcp.DefaultConfig()
	cfg.RTTimeout = 10 * time.Millisecond
	cfg.TimerInterval = time.Millisecond
	return cfg
}

func TestCleanSingleSegment(t *testing.T) {
	p := newPair(t, testConfig())

	p.appA.Feed([]byte("hello"))
	require.NoError(t, p.engineA.OnReadable(p.connA.ID()))

	sent := p.transportA.Sent()
	require.Len(t, sent, 1)
	checker.Segment(t, sent[0],
		checker.SeqNum(1),
		checker.Flags(wire.FlagACK),
		checker.PayloadLen(5),
	)

	tick(p) // let B's standalone ack reach A

	assert.Equal(t, []byte("hello"), p.appB.Received())
	assert.Equal(t, 0, p.connA.UnackedLen())

	acks := p.transportB.Sent()
	require.NotEmpty(t, acks)
	checker.Segment(t, acks[len(acks)-1],
		checker.AckNum(6),
		checker.FlagsMatch(wire.FlagACK, wire.FlagACK),
	)
}

func TestLossThenRetransmit(t *testing.T) {
	p := newPair(t, testConfig())

	dropped := false
	p.transportA.Drop(func(b []byte) bool {
		if !dropped {
			dropped = true
			return true
		}
		return false
	})

	p.appA.Feed([]byte("hello"))
	require.NoError(t, p.engineA.OnReadable(p.connA.ID()))

	assert.Empty(t, p.appB.Received(), "first transmission should have been dropped")

	time.Sleep(15 * time.Millisecond)
	tick(p)

	assert.Equal(t, []byte("hello"), p.appB.Received())
	assert.Equal(t, 0, p.connA.UnackedLen())
}

func TestOutOfOrderReassembly(t *testing.T) {
	p := newPair(t, testConfig())

	// Capture every segment A sends instead of delivering it
	// immediately, so the two reads below each produce their own
	// distinct segment (seqno=1 "hello", seqno=6 "world") and we can
	// hand them to B out of order ourselves.
	var captured [][]byte
	p.transportA.OnSend(func(b []byte) {
		captured = append(captured, append([]byte(nil), b...))
	})

	p.appA.Feed([]byte("hello"))
	require.NoError(t, p.engineA.OnReadable(p.connA.ID()))
	p.appA.Feed([]byte("world"))
	require.NoError(t, p.engineA.OnReadable(p.connA.ID()))

	require.Len(t, captured, 2, "two separate reads should produce two separate segments")
	first, second := captured[0], captured[1]

	require.NoError(t, p.engineB.OnSegment(p.connB.ID(), second))
	assert.Empty(t, p.appB.Received(), "no delivery until the missing prefix arrives")

	require.NoError(t, p.engineB.OnSegment(p.connB.ID(), first))
	assert.Equal(t, []byte("helloworld"), p.appB.Received())
}

func TestDuplicateSuppression(t *testing.T) {
	p := newPair(t, testConfig())

	var captured []byte
	p.transportA.OnSend(func(b []byte) {
		captured = append([]byte(nil), b...)
		p.engineB.OnSegment(p.connB.ID(), b)
	})

	p.appA.Feed([]byte("hello"))
	require.NoError(t, p.engineA.OnReadable(p.connA.ID()))
	require.NotNil(t, captured)

	p.engineB.OnSegment(p.connB.ID(), captured)

	assert.Equal(t, []byte("hello"), p.appB.Received(), "duplicate must not be delivered twice")
}

func TestOrderlyShutdown(t *testing.T) {
	p := newPair(t, testConfig())

	p.appA.CloseInput()
	p.appB.CloseInput()

	require.NoError(t, p.engineA.OnReadable(p.connA.ID()))
	require.NoError(t, p.engineB.OnReadable(p.connB.ID()))

	for i := 0; i < 10 && (p.engineA.Len() > 0 || p.engineB.Len() > 0); i++ {
		tick(p)
	}

	assert.Equal(t, 0, p.engineA.Len())
	assert.Equal(t, 0, p.engineB.Len())
}

func TestRetryCapDestroysConnection(t *testing.T) {
	p := newPair(t, testConfig())

	p.transportA.Drop(func(b []byte) bool { return true })

	p.appA.Feed([]byte("hello"))
	require.NoError(t, p.engineA.OnReadable(p.connA.ID()))

	for i := 0; i < ctcp.RetryCap+1 && p.engineA.Len() > 0; i++ {
		time.Sleep(15 * time.Millisecond)
		p.engineA.OnTimer()
	}

	assert.Equal(t, 0, p.engineA.Len(), "connection should self-destruct once the retry cap is exceeded")
	assert.Len(t, p.transportA.Sent(), ctcp.RetryCap+1,
		"the original send plus exactly RetryCap retransmissions must go out before destruction")
}

func TestUnackedOccupancyWithinSendWindow(t *testing.T) {
	cfg := testConfig()
	cfg.SendWindow = 12

	p := newPair(t, cfg)
	p.transportA.Drop(func(b []byte) bool { return true }) // keep everything unacked

	for i := 0; i < 3; i++ {
		p.appA.Feed([]byte("abcdef")) // 6 payload bytes per segment
		require.NoError(t, p.engineA.OnReadable(p.connA.ID()))
	}

	assert.LessOrEqual(t, p.connA.UnackedPayload(), cfg.SendWindow,
		"unacked occupancy must never exceed the send window")
	assert.Equal(t, 2, p.connA.UnackedLen(), "only two 6-byte segments fit in a 12-byte window")
	assert.Equal(t, 1, p.connA.SendBufferLen(), "the third segment stays queued until window space frees up")
}
