// Package ingress implements the ingress side of the data plane: a
// transport.Listener adapter that feeds received messages into an egress
// broadcast queue (Listener), and a refcounted registry that registers and
// unregisters that adapter's filters on a concrete transport with full
// rollback on partial failure (Registry), per spec §4.6.
package ingress

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/eclipse-uprotocol/up-streamer-go/dataplane/egress"
	"github.com/eclipse-uprotocol/up-streamer-go/transport"
)

// Listener adapts a route's egress queue to the transport.Listener
// interface. It is grounded on IngressRouteListener: drop messages whose
// payload format is shared memory (not portable across a transport
// boundary), otherwise hand the message to the egress queue without
// blocking the transport's delivery path.
type Listener struct {
	routeID string
	queue   *egress.BroadcastQueue
}

// NewListener returns a listener that forwards accepted messages into queue.
// routeID is used only for log correlation.
func NewListener(routeID string, queue *egress.BroadcastQueue) *Listener {
	return &Listener{routeID: routeID, queue: queue}
}

// OnReceive implements transport.Listener.
func (l *Listener) OnReceive(_ context.Context, msg transport.Message) {
	log.WithFields(log.Fields{
		"route":  l.routeID,
		"source": msg.Source,
	}).Debug("ingress: received message")

	if msg.PayloadFormat == transport.PayloadFormatSharedMemory {
		log.WithFields(log.Fields{
			"route":  l.routeID,
			"source": msg.Source,
		}).Debug("ingress: dropping unsupported shared-memory payload")
		return
	}

	l.queue.Send(msg)
}
