package ustreamer

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/eclipse-uprotocol/up-streamer-go/dataplane/egress"
	"github.com/eclipse-uprotocol/up-streamer-go/dataplane/ingress"
	"github.com/eclipse-uprotocol/up-streamer-go/metrics"
	"github.com/eclipse-uprotocol/up-streamer-go/subscription"
)

// Streamer is the facade orchestrating the route table, egress pool, and
// ingress registry with rollback (spec §4.8). Grounded on UStreamer in
// ustreamer.rs.
type Streamer struct {
	name       string
	routes     *RouteTable
	egressPool *egress.Pool
	ingress    *ingress.Registry
	directory  *subscription.Directory
	metrics    *metrics.Metrics
}

// NewStreamer constructs a Streamer, performing a one-shot bootstrap fetch
// of the subscription directory via provider. Bootstrap failure is a fatal
// initialization error: every route installed afterward depends on having
// a subscription snapshot to derive publish filters from.
//
// queueCapacity bounds every per-egress-transport broadcast queue the
// streamer creates (spec §4.5). m is the Prometheus facade to report
// through; it may be nil, in which case the streamer runs unmonitored.
func NewStreamer(name string, queueCapacity int, provider subscription.Provider, m *metrics.Metrics) (*Streamer, error) {
	records, err := provider.FetchSubscriptions(subscription.WildcardSubscriberRequest())
	if err != nil {
		return nil, fmt.Errorf("ustreamer: %s: bootstrap subscription fetch failed: %w", name, err)
	}

	log.WithFields(log.Fields{"streamer": name, "subscriptions": len(records)}).Debug("ustreamer: created")

	return &Streamer{
		name:       name,
		routes:     NewRouteTable(),
		egressPool: egress.NewPool(queueCapacity, m),
		ingress:    ingress.NewRegistry(m),
		directory:  subscription.NewDirectory(records),
		metrics:    m,
	}, nil
}

func forwardingID(in, out Endpoint) string {
	return fmt.Sprintf("%s -> %s", in, out)
}

// AddRoute installs a forwarding route from in to out (spec §4.8). On any
// failure after the route table insert, every prior step is rolled back:
// the route-table entry is removed and the egress pool refcount is
// decremented, leaving state exactly as it was before the call.
func (s *Streamer) AddRoute(ctx context.Context, in, out Endpoint) error {
	routeID := forwardingID(in, out)

	if in.Authority == out.Authority {
		log.WithFields(log.Fields{"streamer": s.name, "route": routeID}).Error("ustreamer: same-authority route rejected")
		return ErrSameAuthority
	}

	key := NewRouteKey(in, out)
	if !s.routes.Insert(key) {
		return ErrAlreadyExists
	}

	queue := s.egressPool.Insert(out.Transport)

	if err := s.ingress.Insert(ctx, in.Transport, in.Authority, out.Authority, routeID, queue, s.directory); err != nil {
		s.routes.Remove(key)
		s.egressPool.Remove(out.Transport)
		return &RegistrationError{RouteID: routeID, Cause: err}
	}

	s.metrics.IncActiveRoutes()
	log.WithFields(log.Fields{"streamer": s.name, "route": routeID}).Debug("ustreamer: route added")
	return nil
}

// DeleteRoute removes a previously installed route (spec §4.8).
func (s *Streamer) DeleteRoute(ctx context.Context, in, out Endpoint) error {
	routeID := forwardingID(in, out)

	if in.Authority == out.Authority {
		log.WithFields(log.Fields{"streamer": s.name, "route": routeID}).Error("ustreamer: same-authority route rejected")
		return ErrSameAuthority
	}

	key := NewRouteKey(in, out)
	if !s.routes.Remove(key) {
		return ErrNotFound
	}

	s.egressPool.Remove(out.Transport)
	if err := s.ingress.Remove(ctx, in.Transport, in.Authority, out.Authority, s.directory); err != nil {
		log.WithFields(log.Fields{"streamer": s.name, "route": routeID, "error": err}).Warn("ustreamer: unregister failures during delete")
	}

	s.metrics.DecActiveRoutes()
	log.WithFields(log.Fields{"streamer": s.name, "route": routeID}).Debug("ustreamer: route deleted")
	return nil
}

// Close tears down every egress worker still running, regardless of
// whether its routes were deleted individually first, and waits for their
// goroutines to exit.
func (s *Streamer) Close() {
	s.egressPool.CloseAll()
}
