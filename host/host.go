// Package host defines the boundary between the protocol engine
// (package ctcp) and its two external collaborators: the unreliable
// datagram transport the engine rides on, and the application whose
// byte stream it carries. Both are out of scope for the engine itself;
// it only consumes the primitives declared here.
package host

import "io"

// Transport is the fire-and-forget datagram service the engine layers
// its segments on top of. The engine never blocks on it and never
// retries a failed Send itself beyond what the retransmission timer
// already does.
type Transport interface {
	// Send transmits b as a single datagram. The engine treats an
	// error return as transient: it logs and counts it, and the
	// retransmission timer is the only recovery path (see the
	// transport send failure entry in the error taxonomy).
	Send(b []byte) (int, error)

	// Close tears down the underlying transport endpoint. Called
	// exactly once, during connection teardown.
	Close() error
}

// Application is the byte-stream producer/consumer on the local side
// of a connection. Reads and writes are non-blocking: Read returns
// immediately with whatever is available, and Write returns whatever
// it could accept without blocking.
type Application interface {
	// Read returns up to len(buf) bytes of application data to send.
	// It returns (0, nil) if no data is available right now, and
	// (0, io.EOF) once the application has reached end-of-stream and
	// will never produce more data.
	Read(buf []byte) (int, error)

	// Write delivers n bytes of in-order application data. It may
	// write fewer than len(b) bytes; the engine retries the remainder
	// later. An error return is fatal and destroys the connection.
	Write(b []byte) (int, error)

	// BufferSpace reports the number of bytes the application can
	// currently accept via Write. A negative value is fatal.
	BufferSpace() int
}

// ErrEndOfStream is returned by an Application's Read to signal that
// the local input stream is exhausted. It is an alias of io.EOF so
// that stub and real implementations can use whichever name reads
// better at the call site.
var ErrEndOfStream = io.EOF
