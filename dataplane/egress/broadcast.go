package egress

import (
	"sync"

	"github.com/eclipse-uprotocol/up-streamer-go/transport"
)

// RecvOutcome tags the result of a BroadcastQueue.Recv call, mirroring the
// three outcomes a bounded broadcast channel can produce (spec §4.5, §5):
// a message, a lag notification, or a clean close signal.
type RecvOutcome int

const (
	RecvMessage RecvOutcome = iota
	RecvLagged
	RecvClosed
)

// BroadcastQueue is the back-pressure primitive behind one egress worker: a
// fixed-capacity ring buffer with a single consumer and any number of
// concurrent producers. Send never blocks the producer — once the buffer
// is full, the oldest unread message is silently overwritten and the next
// Recv call reports how many messages were skipped instead of replaying
// them (spec §4.5, §5 — "on overload, the slowest consumer will observe lag
// and drop, never block the producer").
//
// The goroutine-per-consumer / channel-handoff shape is the same one
// dispatch.Dispatcher (dispatch/dispatch.go in the teacher repo) uses to
// fan a value out to subscribers without blocking the producer; this type
// generalizes that shape to a capacity-bounded, lag-counting single
// consumer instead of dispatch.Dispatcher's unbounded latest-value fan.
type BroadcastQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	ring    []transport.Message
	cap     int
	nextSeq uint64
	readSeq uint64
	closed  bool
}

// NewBroadcastQueue creates a queue with the given capacity. Capacity must
// be at least 1.
func NewBroadcastQueue(capacity int) *BroadcastQueue {
	if capacity < 1 {
		capacity = 1
	}
	q := &BroadcastQueue{ring: make([]transport.Message, capacity), cap: capacity}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Send enqueues msg. It never blocks: once the ring is full, the oldest
// unread entry is overwritten.
func (q *BroadcastQueue) Send(msg transport.Message) {
	q.mu.Lock()
	q.ring[q.nextSeq%uint64(q.cap)] = msg
	q.nextSeq++
	q.mu.Unlock()
	q.cond.Signal()
}

// Recv blocks until a message is available, a lag is detected, or the
// queue is closed.
//
//   - RecvMessage: msg holds the next message in order; dropped is 0.
//   - RecvLagged: the consumer fell behind by dropped messages, which were
//     overwritten and will not be delivered; msg is the zero value. The
//     caller should call Recv again to continue from the oldest surviving
//     message.
//   - RecvClosed: the queue is closed and fully drained; the worker loop
//     should terminate.
func (q *BroadcastQueue) Recv() (msg transport.Message, outcome RecvOutcome, dropped uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.readSeq == q.nextSeq && !q.closed {
		q.cond.Wait()
	}

	if q.readSeq == q.nextSeq && q.closed {
		return transport.Message{}, RecvClosed, 0
	}

	minAvailable := uint64(0)
	if q.nextSeq > uint64(q.cap) {
		minAvailable = q.nextSeq - uint64(q.cap)
	}

	if q.readSeq < minAvailable {
		skipped := minAvailable - q.readSeq
		q.readSeq = minAvailable
		return transport.Message{}, RecvLagged, skipped
	}

	msg = q.ring[q.readSeq%uint64(q.cap)]
	q.readSeq++
	return msg, RecvMessage, 0
}

// Close marks the queue closed. Any goroutine blocked in Recv wakes and,
// once the backlog is drained, observes RecvClosed. Close is idempotent.
func (q *BroadcastQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
