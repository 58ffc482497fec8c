package ustreamer

import (
	"sync"

	"github.com/eclipse-uprotocol/up-streamer-go/transport"
)

// RouteKey is the identity tuple of an installed route (spec §3): two
// routes with an equal RouteKey are the same route. Comparable, usable as
// a Go map key directly, grounded on ForwardingRule in route_table.rs.
type RouteKey struct {
	InAuthority  string
	OutAuthority string
	InTransport  transport.IdentityKey
	OutTransport transport.IdentityKey
}

// NewRouteKey builds the RouteKey for a (ingress, egress) Endpoint pair.
func NewRouteKey(in, out Endpoint) RouteKey {
	return RouteKey{
		InAuthority:  in.Authority,
		OutAuthority: out.Authority,
		InTransport:  transport.NewIdentityKey(in.Transport),
		OutTransport: transport.NewIdentityKey(out.Transport),
	}
}

// RouteTable is the control-plane set of installed routes (spec §4.7),
// serialized by a single mutex. Grounded on ForwardingRules /
// insert_forwarding_rule / remove_forwarding_rule in route_lifecycle.rs.
type RouteTable struct {
	mu     sync.Mutex
	routes map[RouteKey]struct{}
}

// NewRouteTable returns an empty route table.
func NewRouteTable() *RouteTable {
	return &RouteTable{routes: make(map[RouteKey]struct{})}
}

// Insert adds key to the table. It reports true iff key was newly added.
func (t *RouteTable) Insert(key RouteKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.routes[key]; ok {
		return false
	}
	t.routes[key] = struct{}{}
	return true
}

// Remove deletes key from the table. It reports true iff key was present.
func (t *RouteTable) Remove(key RouteKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.routes[key]; !ok {
		return false
	}
	delete(t.routes, key)
	return true
}

// Len reports the number of installed routes. Intended for tests and
// metrics.
func (t *RouteTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.routes)
}
