package ctcp

import (
	"github.com/ctcplab/ctcp/ilist"
	"github.com/ctcplab/ctcp/seqnum"
)

// pendingSegment is an accepted, in-window, but possibly out-of-order
// inbound segment waiting in the reassembly buffer for a contiguous
// prefix to form.
type pendingSegment struct {
	ilist.Entry

	seqno   seqnum.Value
	payload []byte
	fin     bool
}

// reassemblyBuffer keeps accepted inbound segments sorted by seqno so
// that draining the contiguous prefix is a simple walk from the front.
type reassemblyBuffer struct {
	list ilist.List
}

// insert places s in seqno order. Exact-duplicate seqnos are rejected
// by the caller before insert is reached (see acceptInbound), so ties
// are not expected, but insert still treats an exact match anywhere in
// the buffer as "do not insert again" defensively.
func (b *reassemblyBuffer) insert(s *pendingSegment) {
	for e := b.list.Front(); e != nil; e = e.Next() {
		cur := e.(*pendingSegment)
		if s.seqno == cur.seqno {
			return
		}
		if s.seqno.LessThan(cur.seqno) {
			b.insertBefore(cur, s)
			return
		}
	}
	b.list.PushBack(s)
}

func (b *reassemblyBuffer) insertBefore(mark, s *pendingSegment) {
	b.list.InsertBefore(mark, s)
}

func (b *reassemblyBuffer) front() *pendingSegment {
	e := b.list.Front()
	if e == nil {
		return nil
	}
	return e.(*pendingSegment)
}

func (b *reassemblyBuffer) removeFront() {
	b.list.Remove(b.list.Front())
}

func (b *reassemblyBuffer) has(seq seqnum.Value) bool {
	for e := b.list.Front(); e != nil; e = e.Next() {
		if e.(*pendingSegment).seqno == seq {
			return true
		}
	}
	return false
}

func (b *reassemblyBuffer) len() int {
	return b.list.Len()
}

// outputChunk is a contiguous run of bytes (or an end-of-stream
// marker) ready for delivery to the application.
type outputChunk struct {
	ilist.Entry

	payload []byte
	eof     bool
}

// outputBuffer is the FIFO of chunks drained from the reassembly
// buffer's contiguous prefix, awaiting application buffer space.
type outputBuffer struct {
	list ilist.List
}

func (o *outputBuffer) pushBack(c *outputChunk) {
	o.list.PushBack(c)
}

func (o *outputBuffer) front() *outputChunk {
	e := o.list.Front()
	if e == nil {
		return nil
	}
	return e.(*outputChunk)
}

func (o *outputBuffer) removeFront() {
	o.list.Remove(o.list.Front())
}

func (o *outputBuffer) empty() bool {
	return o.list.Empty()
}
