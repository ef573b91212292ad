package host

import (
	"io"
	"sync"
)

// StubTransport is an in-memory Transport that hands every sent
// datagram to a configurable callback instead of putting it on a real
// wire. Tests use it to capture outbound segments and to simulate loss
// by dropping datagrams before they reach the peer.
type StubTransport struct {
	mu     sync.Mutex
	sent   [][]byte
	drop   func(b []byte) bool
	onSend func(b []byte)
	closed bool
}

// NewStubTransport returns a StubTransport that records every datagram
// passed to Send and never drops anything. Use Drop to install loss
// behaviour and OnSend to pipe datagrams to a peer.
func NewStubTransport() *StubTransport {
	return &StubTransport{}
}

// Drop installs a predicate that decides, per datagram, whether Send
// should silently discard it (simulating the unreliable datagram
// service losing it in flight).
func (s *StubTransport) Drop(pred func(b []byte) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop = pred
}

// OnSend installs a callback invoked for every datagram that is not
// dropped, typically used to deliver it to a peer engine's OnSegment.
func (s *StubTransport) OnSend(f func(b []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSend = f
}

// Sent returns a copy of every datagram handed to Send so far,
// including ones that were subsequently dropped.
func (s *StubTransport) Sent() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.sent))
	copy(out, s.sent)
	return out
}

// Send implements Transport.
func (s *StubTransport) Send(b []byte) (int, error) {
	cp := append([]byte(nil), b...)

	s.mu.Lock()
	s.sent = append(s.sent, cp)
	drop := s.drop
	onSend := s.onSend
	s.mu.Unlock()

	if drop != nil && drop(cp) {
		return len(b), nil
	}
	if onSend != nil {
		onSend(cp)
	}
	return len(b), nil
}

// Close implements Transport.
func (s *StubTransport) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *StubTransport) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// StubApplication is an in-memory Application backed by a pending
// output queue (data the engine should deliver, via Write) and an
// input queue (data the engine should read and send, via Read).
type StubApplication struct {
	mu       sync.Mutex
	toSend   []byte
	eof      bool
	received []byte
	space    int
}

// NewStubApplication returns a StubApplication whose BufferSpace is
// unbounded until SetBufferSpace is called.
func NewStubApplication() *StubApplication {
	return &StubApplication{space: 1 << 30}
}

// Feed appends b to the data the application will hand out via Read.
func (a *StubApplication) Feed(b []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.toSend = append(a.toSend, b...)
}

// CloseInput marks the application's input stream as exhausted: once
// the fed data is drained, Read returns io.EOF.
func (a *StubApplication) CloseInput() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.eof = true
}

// SetBufferSpace sets how many more bytes Write will accept in total,
// emulating a slow or bounded-capacity local consumer: every Write
// consumes from this budget until it is set again. A negative
// value emulates the fatal conn_bufspace()==-1 condition.
func (a *StubApplication) SetBufferSpace(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.space = n
}

// Received returns a copy of everything delivered via Write so far.
func (a *StubApplication) Received() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]byte(nil), a.received...)
}

// Read implements Application.
func (a *StubApplication) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.toSend) == 0 {
		if a.eof {
			return 0, io.EOF
		}
		return 0, nil
	}
	n := copy(buf, a.toSend)
	a.toSend = a.toSend[n:]
	return n, nil
}

// Write implements Application.
func (a *StubApplication) Write(b []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.space < 0 {
		return 0, io.ErrClosedPipe
	}
	n := len(b)
	if n > a.space {
		n = a.space
	}
	a.received = append(a.received, b[:n]...)
	a.space -= n
	return n, nil
}

// BufferSpace implements Application.
func (a *StubApplication) BufferSpace() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.space
}
