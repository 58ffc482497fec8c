// Package egress implements the egress side of the data plane: a bounded
// broadcast queue per egress transport, a dedicated goroutine draining it
// onto that transport (Worker), and a refcounted pool of such workers keyed
// by transport identity (Pool), per spec §4.5.
package egress

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/eclipse-uprotocol/up-streamer-go/metrics"
	"github.com/eclipse-uprotocol/up-streamer-go/transport"
)

const (
	workerLabelPrefix  = "up-egress-"
	workerLabelMaxLen  = 15
	defaultWorkerLabel = "up-egress-xxxx"
)

// Worker owns one goroutine draining a BroadcastQueue onto a single egress
// transport. It is grounded on EgressRouteWorker / route_dispatch_loop in
// the original Rust implementation: spawn a dedicated runtime unit per
// egress transport, read messages off a broadcast receiver, forward them,
// log send failures without treating them as fatal, and exit cleanly when
// the queue closes.
type Worker struct {
	label   string
	done    chan struct{}
	metrics *metrics.Metrics
}

// StartWorker spawns the goroutine and returns immediately. The goroutine
// runs until queue is closed and drained. m may be nil.
func StartWorker(out transport.Transport, queue *BroadcastQueue, m *metrics.Metrics) *Worker {
	label := buildWorkerLabel(uuid.NewString())
	w := &Worker{label: label, done: make(chan struct{}), metrics: m}

	m.IncActiveEgressWorkers()
	go func() {
		defer close(w.done)
		defer m.DecActiveEgressWorkers()
		w.dispatchLoop(out, queue)
	}()

	return w
}

// Wait blocks until the worker's dispatch loop has exited.
func (w *Worker) Wait() {
	<-w.done
}

func (w *Worker) dispatchLoop(out transport.Transport, queue *BroadcastQueue) {
	for {
		msg, outcome, dropped := queue.Recv()
		switch outcome {
		case RecvMessage:
			log.WithField("worker", w.label).Debug("egress: attempting send")
			ctx := context.Background()
			if err := out.Send(ctx, msg); err != nil {
				log.WithFields(log.Fields{"worker": w.label, "error": err}).Warn("egress: send failed")
				w.metrics.IncSendFailures()
			} else {
				log.WithField("worker", w.label).Debug("egress: send succeeded")
				w.metrics.IncMessagesForwarded()
			}
		case RecvLagged:
			log.WithFields(log.Fields{"worker": w.label, "dropped": dropped}).Warn("egress: receiver lagged, skipped queued messages")
			w.metrics.AddMessagesDroppedOnLag(dropped)
		case RecvClosed:
			log.WithField("worker", w.label).Info("egress: queue closed, stopping dispatch loop")
			return
		}
	}
}

// buildWorkerLabel derives a short, deterministic, filesystem/thread-name
// safe label from routeID. The original implementation filters routeID
// (a UUID) down to its hex digits and takes a fixed-length prefix, falling
// back to a constant name if too few hex digits survive; a UUID's hex body
// always yields enough digits, so this mirrors that shape using a hash
// digest instead of positional filtering, guaranteeing a stable, always-hex
// suffix regardless of routeID's format.
func buildWorkerLabel(routeID string) string {
	suffixLen := workerLabelMaxLen - len(workerLabelPrefix)
	if suffixLen <= 0 {
		return defaultWorkerLabel
	}

	sum := xxhash.Sum64String(routeID)
	suffix := fmt.Sprintf("%x", sum)
	if len(suffix) < suffixLen {
		return defaultWorkerLabel
	}

	return workerLabelPrefix + suffix[:suffixLen]
}
