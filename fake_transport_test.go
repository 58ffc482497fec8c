package ustreamer

import (
	"context"
	"errors"
	"sync"

	"github.com/eclipse-uprotocol/up-streamer-go/transport"
	"github.com/eclipse-uprotocol/up-streamer-go/uri"
)

var errFakeRegisterFailed = errors.New("fake: register failed")

type filterRegistration struct {
	source  uri.URI
	sink    uri.URI
	hasSink bool
}

// recordingTransport is a test double that counts register/unregister
// calls per filter pair and can be configured to fail specific
// registrations, grounded on RecordingTransport in ingress_registry.rs's
// test module.
type recordingTransport struct {
	mu           sync.Mutex
	registered   map[filterRegistration]int
	unregistered map[filterRegistration]int

	failRegisterFor func(source uri.URI, sink *uri.URI) bool
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{
		registered:   make(map[filterRegistration]int),
		unregistered: make(map[filterRegistration]int),
	}
}

func toFilterKey(source uri.URI, sink *uri.URI) filterRegistration {
	k := filterRegistration{source: source}
	if sink != nil {
		k.sink = *sink
		k.hasSink = true
	}
	return k
}

func (r *recordingTransport) registerCount(source uri.URI, sink *uri.URI) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registered[toFilterKey(source, sink)]
}

func (r *recordingTransport) unregisterCount(source uri.URI, sink *uri.URI) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregistered[toFilterKey(source, sink)]
}

func (r *recordingTransport) Send(context.Context, transport.Message) error { return nil }

func (r *recordingTransport) RegisterListener(_ context.Context, source uri.URI, sink *uri.URI, _ transport.Listener) error {
	if r.failRegisterFor != nil && r.failRegisterFor(source, sink) {
		return errFakeRegisterFailed
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered[toFilterKey(source, sink)]++
	return nil
}

func (r *recordingTransport) UnregisterListener(_ context.Context, source uri.URI, sink *uri.URI, _ transport.Listener) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregistered[toFilterKey(source, sink)]++
	return nil
}
