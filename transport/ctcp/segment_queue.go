package ctcp

import (
	"time"

	"github.com/ctcplab/ctcp/ilist"
	"github.com/ctcplab/ctcp/wire"
)

// queuedSegment is a segment together with the bookkeeping the sender
// needs while it sits in the send buffer or the unacked buffer. It
// embeds ilist.Entry so a queue of these can be built with no
// allocation beyond the segment itself.
type queuedSegment struct {
	ilist.Entry

	seg wire.Segment

	// lastSentTime and retransmitCount are meaningful only once the
	// segment has moved into the unacked buffer.
	lastSentTime    time.Time
	retransmitCount int
}

func (q *queuedSegment) payloadLen() int {
	return len(q.seg.Payload)
}

// segmentQueue is a typed FIFO of *queuedSegment built on ilist.List.
// Both the send buffer and the unacked buffer are one of these.
type segmentQueue struct {
	list ilist.List
}

func (q *segmentQueue) pushBack(s *queuedSegment) {
	q.list.PushBack(s)
}

func (q *segmentQueue) front() *queuedSegment {
	e := q.list.Front()
	if e == nil {
		return nil
	}
	return e.(*queuedSegment)
}

func (q *segmentQueue) remove(s *queuedSegment) {
	q.list.Remove(s)
}

func (q *segmentQueue) empty() bool {
	return q.list.Empty()
}

func (q *segmentQueue) len() int {
	return q.list.Len()
}

// totalPayload sums the payload length of every segment currently
// queued. The unacked buffer's total payload must never exceed the
// configured send window; tests assert this through it.
func (q *segmentQueue) totalPayload() int {
	total := 0
	for e := q.list.Front(); e != nil; e = e.Next() {
		total += e.(*queuedSegment).payloadLen()
	}
	return total
}
