// Package localtransport provides an in-process transport.Transport
// implementation: messages sent on one instance are delivered synchronously
// to every listener registered on that same instance whose filter matches.
// It exists for cmd/ustreamer's example wiring and for integration tests
// that want message delivery to actually happen rather than being recorded
// and asserted on; concrete transports for real buses (SOME/IP, MQTT,
// Zenoh, ...) live outside this module (spec §4.1, §6).
package localtransport

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/eclipse-uprotocol/up-streamer-go/transport"
	"github.com/eclipse-uprotocol/up-streamer-go/uri"
)

type registration struct {
	source   uri.URI
	sink     *uri.URI
	listener transport.Listener
}

// Transport is a named, in-process pub/sub transport. The zero value is not
// usable; construct with New.
type Transport struct {
	name string

	mu            sync.RWMutex
	registrations []registration
}

// New returns an empty transport identified by name in log output.
func New(name string) *Transport {
	return &Transport{name: name}
}

// Send delivers msg to every listener whose registered filter matches it.
// It never fails: a transport with no matching listener simply drops the
// message, same as a real bus with no subscribers.
func (t *Transport) Send(ctx context.Context, msg transport.Message) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	delivered := 0
	for _, reg := range t.registrations {
		if !filterMatches(reg.source, reg.sink, msg) {
			continue
		}
		delivered++
		reg.listener.OnReceive(ctx, msg)
	}

	log.WithFields(log.Fields{"transport": t.name, "source": msg.Source, "delivered": delivered}).Debug("localtransport: send")
	return nil
}

// RegisterListener installs listener for messages matching sourceFilter and,
// when non-nil, sinkFilter. The same listener may be registered under
// several filters; each call adds a distinct registration.
func (t *Transport) RegisterListener(_ context.Context, sourceFilter uri.URI, sinkFilter *uri.URI, listener transport.Listener) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.registrations = append(t.registrations, registration{source: sourceFilter, sink: sinkFilter, listener: listener})
	return nil
}

// UnregisterListener removes the first registration matching the exact
// (sourceFilter, sinkFilter, listener) triple.
func (t *Transport) UnregisterListener(_ context.Context, sourceFilter uri.URI, sinkFilter *uri.URI, listener transport.Listener) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, reg := range t.registrations {
		if reg.source != sourceFilter || reg.listener != listener {
			continue
		}
		if !sinkEqual(reg.sink, sinkFilter) {
			continue
		}
		t.registrations = append(t.registrations[:i], t.registrations[i+1:]...)
		return nil
	}

	return nil
}

func sinkEqual(a, b *uri.URI) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// filterMatches reports whether a registered (source, sink) filter accepts
// msg, honoring the wildcard authority and the all-ones sentinel fields the
// same way a real transport's topic matcher would.
func filterMatches(source uri.URI, sink *uri.URI, msg transport.Message) bool {
	if !uriFieldsMatch(source, msg.Source) {
		return false
	}
	if sink == nil {
		return true
	}
	if msg.Sink == nil {
		return false
	}
	return uriFieldsMatch(*sink, *msg.Sink)
}

func uriFieldsMatch(filter, actual uri.URI) bool {
	if !uri.IsWildcardAuthority(filter.Authority) && filter.Authority != actual.Authority {
		return false
	}
	if filter.UEID != uri.AllUEID && filter.UEID != actual.UEID {
		return false
	}
	if filter.Version != uri.AllVersion && filter.Version != actual.Version {
		return false
	}
	if filter.ResourceID != uri.AllResource && filter.ResourceID != actual.ResourceID {
		return false
	}
	return true
}
