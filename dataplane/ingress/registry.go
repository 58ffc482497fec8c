package ingress

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/eclipse-uprotocol/up-streamer-go/dataplane/egress"
	"github.com/eclipse-uprotocol/up-streamer-go/metrics"
	"github.com/eclipse-uprotocol/up-streamer-go/routing"
	"github.com/eclipse-uprotocol/up-streamer-go/subscription"
	"github.com/eclipse-uprotocol/up-streamer-go/transport"
	"github.com/eclipse-uprotocol/up-streamer-go/uri"
)

type registryKey struct {
	transport    transport.IdentityKey
	inAuthority  string
	outAuthority string
}

type registration struct {
	refcount int
	listener *Listener
}

// Registry is the refcounted store of ingress listener registrations keyed
// by (transport identity, ingress authority, egress authority) (spec §4.6).
// It is grounded on ForwardingListeners in ingress_registry.rs, including
// its rollback-on-partial-failure behavior: if any filter registration in
// a multi-filter Insert fails, every filter registered earlier in that same
// call is unregistered before the error is returned, leaving the transport
// exactly as it was before the call.
type Registry struct {
	mu      sync.Mutex
	entries map[registryKey]*registration
	metrics *metrics.Metrics
}

// NewRegistry returns an empty registry. m may be nil.
func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{entries: make(map[registryKey]*registration), metrics: m}
}

// Insert registers a route's request/response and publish filters on in,
// sharing a single Listener and registration across every call made with
// the same (in, inAuthority, outAuthority) triple. Messages accepted by
// that listener are forwarded into queue. subscribers supplies the current
// subscription directory used to derive publish source filters (spec §4.3).
//
// On failure, every filter this call registered is unregistered again
// before returning, so a failed Insert never leaves partial state behind.
// r.mu is never held across a call into in: it's released before every
// RegisterListener/UnregisterListener call and re-acquired only to check or
// update the map entry (spec §5).
func (r *Registry) Insert(ctx context.Context, in transport.Transport, inAuthority, outAuthority, routeID string, queue *egress.BroadcastQueue, subscribers *subscription.Directory) error {
	key := registryKey{transport: transport.NewIdentityKey(in), inAuthority: inAuthority, outAuthority: outAuthority}

	r.mu.Lock()
	if reg, ok := r.entries[key]; ok {
		reg.refcount++
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	listener := NewListener(routeID, queue)

	type filterPair struct {
		source uri.URI
		sink   *uri.URI
	}
	var registered []filterPair

	// rollback unregisters every filter registered earlier in this call.
	// Per spec §4.6 step 5/§7, a failure inside rollback is logged and
	// aggregated for diagnostics but never returned to the caller: the
	// original registration error is what Insert fails with.
	rollback := func() {
		var errs *multierror.Error
		for _, f := range registered {
			r.metrics.AddRollbackUnregistrations(1)
			if err := in.UnregisterListener(ctx, f.source, f.sink, listener); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		if errs.ErrorOrNil() != nil {
			log.WithFields(log.Fields{"route": routeID, "error": errs}).Warn("ingress: rollback unregister failed")
		}
	}

	requestSource := uri.Wildcard(inAuthority)
	requestSink := uri.Wildcard(outAuthority)
	if err := in.RegisterListener(ctx, requestSource, &requestSink, listener); err != nil {
		log.WithFields(log.Fields{"route": routeID, "error": err}).Warn("ingress: unable to register request/response listener")
		rollback()
		return fmt.Errorf("ingress: register request/response listener for route %s: %w", routeID, err)
	}
	registered = append(registered, filterPair{source: requestSource, sink: &requestSink})

	records := subscribers.LookupRouteSubscribers(outAuthority)
	publishFilters := routing.ResolvePublishSourceFilters(inAuthority, outAuthority, records)

	for _, source := range publishFilters {
		if err := in.RegisterListener(ctx, source, nil, listener); err != nil {
			log.WithFields(log.Fields{"route": routeID, "source": source, "error": err}).Warn("ingress: unable to register publish listener")
			rollback()
			return fmt.Errorf("ingress: register publish listener %s for route %s: %w", source, routeID, err)
		}
		registered = append(registered, filterPair{source: source})
		log.WithFields(log.Fields{"route": routeID, "source": source}).Debug("ingress: registered publish listener")
	}

	r.mu.Lock()
	if reg, ok := r.entries[key]; ok {
		// Someone else inserted this key while in.RegisterListener was in
		// flight. Keep their registration and undo ours, the same way Remove
		// tolerates a concurrent Insert racing its own unregister calls.
		reg.refcount++
		r.mu.Unlock()
		rollback()
		return nil
	}
	r.entries[key] = &registration{refcount: 1, listener: listener}
	r.mu.Unlock()
	r.metrics.IncActiveIngressListeners()
	return nil
}

// Remove decrements the refcount for (in, inAuthority, outAuthority) and,
// once it reaches zero, unregisters every filter that was registered for
// it. Unregister failures are aggregated and returned but never prevent the
// remaining filters from being unregistered.
func (r *Registry) Remove(ctx context.Context, in transport.Transport, inAuthority, outAuthority string, subscribers *subscription.Directory) error {
	key := registryKey{transport: transport.NewIdentityKey(in), inAuthority: inAuthority, outAuthority: outAuthority}

	r.mu.Lock()
	reg, ok := r.entries[key]
	if !ok {
		r.mu.Unlock()
		log.WithFields(log.Fields{"in_authority": inAuthority, "out_authority": outAuthority}).Warn("ingress: remove called for unknown registration")
		return nil
	}

	reg.refcount--
	if reg.refcount > 0 {
		r.mu.Unlock()
		return nil
	}
	delete(r.entries, key)
	r.mu.Unlock()
	r.metrics.DecActiveIngressListeners()

	var errs *multierror.Error

	requestSource := uri.Wildcard(inAuthority)
	requestSink := uri.Wildcard(outAuthority)
	if err := in.UnregisterListener(ctx, requestSource, &requestSink, reg.listener); err != nil {
		log.WithFields(log.Fields{"in_authority": inAuthority, "out_authority": outAuthority, "error": err}).Warn("ingress: unable to unregister request/response listener")
		errs = multierror.Append(errs, err)
	}

	records := subscribers.LookupRouteSubscribers(outAuthority)
	publishFilters := routing.ResolvePublishSourceFilters(inAuthority, outAuthority, records)

	for _, source := range publishFilters {
		if err := in.UnregisterListener(ctx, source, nil, reg.listener); err != nil {
			log.WithFields(log.Fields{"source": source, "error": err}).Warn("ingress: unable to unregister publish listener")
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

// Len reports the number of distinct (transport, ingress, egress) tuples
// currently registered. Intended for tests and metrics.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
