// Command sample drives a single ctcp.Engine connection end to end
// over a real UDP socket, piping the local process's stdin and stdout
// through it. It exists purely to exercise the engine against a real,
// lossy-in-practice datagram transport; it implements no protocol
// logic itself.
package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/ctcplab/ctcp/host"
	"github.com/ctcplab/ctcp/transport/ctcp"
)

func main() {
	localAddr := flag.String("local", ":0", "local UDP address to bind")
	peerAddr := flag.String("peer", "", "remote UDP address to exchange segments with")

	defaults := ctcp.DefaultConfig()
	recvWindow := flag.Int("recv-window", defaults.RecvWindow, "receive window in bytes")
	sendWindow := flag.Int("send-window", defaults.SendWindow, "send window in bytes")
	rtTimeout := flag.Duration("rt-timeout", defaults.RTTimeout, "retransmission timeout")
	tickInterval := flag.Duration("tick", defaults.TimerInterval, "timer tick interval")
	flag.Parse()

	if *peerAddr == "" {
		log.Fatal("-peer is required")
	}

	local, err := net.ResolveUDPAddr("udp", *localAddr)
	if err != nil {
		log.Fatal(err)
	}
	peer, err := net.ResolveUDPAddr("udp", *peerAddr)
	if err != nil {
		log.Fatal(err)
	}
	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		log.Fatal(err)
	}

	cfg := ctcp.Config{
		RecvWindow:    *recvWindow,
		SendWindow:    *sendWindow,
		RTTimeout:     *rtTimeout,
		TimerInterval: *tickInterval,
	}
	engine, err := ctcp.New(cfg, nil)
	if err != nil {
		log.Fatal(err)
	}

	transport := &udpTransport{conn: conn, peer: peer}
	app := newStdioApplication()

	c := engine.Open(transport, app)

	segments := make(chan []byte, 64)
	go recvLoop(conn, segments)

	ticker := time.NewTicker(cfg.TimerInterval)
	defer ticker.Stop()

	for {
		select {
		case b, ok := <-segments:
			if !ok {
				return
			}
			if err := engine.OnSegment(c.ID(), b); err != nil {
				log.Fatal(err)
			}
		case <-ticker.C:
			engine.OnTimer()
		}

		if err := engine.OnReadable(c.ID()); err != nil {
			log.Fatal(err)
		}
		if engine.Len() == 0 {
			return
		}
	}
}

// recvLoop reads datagrams off the socket and forwards them to the
// main loop over a channel, so that every call into the engine still
// happens from the one goroutine driving OnSegment/OnTimer/OnReadable
// serially, per the engine's single-threaded cooperative contract.
func recvLoop(conn *net.UDPConn, out chan<- []byte) {
	defer close(out)
	buf := make([]byte, 64*1024)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		b := append([]byte(nil), buf[:n]...)
		out <- b
	}
}

// udpTransport adapts a *net.UDPConn to host.Transport, always sending
// to the one configured peer address. The socket itself is left
// unconnected (bound via ListenUDP) so the same process can in
// principle serve multiple peers on one port; this sample only ever
// drives one.
type udpTransport struct {
	conn *net.UDPConn
	peer *net.UDPAddr
}

func (t *udpTransport) Send(b []byte) (int, error) {
	return t.conn.WriteToUDP(b, t.peer)
}

func (t *udpTransport) Close() error {
	return t.conn.Close()
}

// stdioApplication adapts the process's stdin/stdout to
// host.Application. Reads happen on a background goroutine feeding a
// bounded channel so that Application.Read's non-blocking contract
// ("0, nil" when nothing is available yet) holds even though os.Stdin
// itself is a blocking file descriptor.
type stdioApplication struct {
	lines chan []byte
	eof   bool
	pend  []byte
	out   *bufio.Writer
}

func newStdioApplication() *stdioApplication {
	a := &stdioApplication{
		lines: make(chan []byte, 256),
		out:   bufio.NewWriter(os.Stdout),
	}
	go a.readLoop()
	return a
}

func (a *stdioApplication) readLoop() {
	defer close(a.lines)
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			a.lines <- append([]byte(nil), buf[:n]...)
		}
		if err != nil {
			return
		}
	}
}

func (a *stdioApplication) Read(buf []byte) (int, error) {
	if len(a.pend) == 0 {
		if a.eof {
			return 0, io.EOF
		}
		select {
		case b, ok := <-a.lines:
			if !ok {
				a.eof = true
				return 0, io.EOF
			}
			a.pend = b
		default:
			return 0, nil
		}
	}
	n := copy(buf, a.pend)
	a.pend = a.pend[n:]
	return n, nil
}

func (a *stdioApplication) Write(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	n, err := a.out.Write(b)
	if err == nil {
		err = a.out.Flush()
	}
	return n, err
}

func (a *stdioApplication) BufferSpace() int {
	return 1 << 20
}

var _ host.Application = (*stdioApplication)(nil)
