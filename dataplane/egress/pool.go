package egress

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eclipse-uprotocol/up-streamer-go/metrics"
	"github.com/eclipse-uprotocol/up-streamer-go/transport"
)

type forwarder struct {
	refcount int
	worker   *Worker
	queue    *BroadcastQueue
}

// Pool is the refcounted registry of egress workers keyed by transport
// identity (spec §4.5). Multiple routes that share the same egress
// transport share one queue and one worker; the worker and its queue are
// torn down only when the last route referencing that transport is
// removed. Grounded on TransportForwarders in egress_pool.rs.
type Pool struct {
	mu         sync.Mutex
	queueSize  int
	forwarders map[transport.IdentityKey]*forwarder
	metrics    *metrics.Metrics
}

// NewPool creates a pool whose per-transport broadcast queues are sized
// queueSize. m may be nil.
func NewPool(queueSize int, m *metrics.Metrics) *Pool {
	return &Pool{queueSize: queueSize, forwarders: make(map[transport.IdentityKey]*forwarder), metrics: m}
}

// Insert registers out as an egress target, starting its worker and queue
// on first use, and returns the shared queue any ingress listener forwarding
// to out should send into. Each call increments the refcount; callers must
// pair every Insert with exactly one Remove.
func (p *Pool) Insert(out transport.Transport) *BroadcastQueue {
	key := transport.NewIdentityKey(out)

	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.forwarders[key]
	if !ok {
		log.WithField("transport", key).Debug("egress: inserting new forwarder")
		queue := NewBroadcastQueue(p.queueSize)
		worker := StartWorker(out, queue, p.metrics)
		f = &forwarder{worker: worker, queue: queue}
		p.forwarders[key] = f
	}
	f.refcount++
	return f.queue
}

// Remove decrements the refcount for out and, once it reaches zero, closes
// the queue (which stops the worker goroutine) and drops the entry.
func (p *Pool) Remove(out transport.Transport) {
	key := transport.NewIdentityKey(out)

	p.mu.Lock()
	f, ok := p.forwarders[key]
	if !ok {
		p.mu.Unlock()
		log.WithField("transport", key).Warn("egress: remove called for unknown transport")
		return
	}

	f.refcount--
	if f.refcount > 0 {
		p.mu.Unlock()
		return
	}

	delete(p.forwarders, key)
	p.mu.Unlock()

	log.WithField("transport", key).Debug("egress: refcount reached zero, tearing down forwarder")
	f.queue.Close()
	f.worker.Wait()
}

// Len reports the number of distinct egress transports currently tracked.
// Intended for tests and metrics.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.forwarders)
}

// CloseAll tears down every remaining forwarder regardless of refcount and
// waits for all of their worker goroutines to exit before returning. Used
// by Streamer.Close on shutdown, when routes may not have been deleted one
// by one.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	forwarders := make([]*forwarder, 0, len(p.forwarders))
	for key, f := range p.forwarders {
		forwarders = append(forwarders, f)
		delete(p.forwarders, key)
	}
	p.mu.Unlock()

	var g errgroup.Group
	for _, f := range forwarders {
		f := f
		f.queue.Close()
		g.Go(func() error {
			f.worker.Wait()
			return nil
		})
	}
	_ = g.Wait()
}
