package ingress

import (
	"context"
	"errors"
	"sync"

	"github.com/eclipse-uprotocol/up-streamer-go/transport"
	"github.com/eclipse-uprotocol/up-streamer-go/uri"
)

var errRegisterFailed = errors.New("register failed")

type filterRegistration struct {
	source  uri.URI
	sink    uri.URI
	hasSink bool
}

// recordingTransport counts register/unregister calls per filter pair,
// grounded on RecordingTransport in ingress_registry.rs's test module.
type recordingTransport struct {
	mu         sync.Mutex
	registered map[filterRegistration]int
	unregistered map[filterRegistration]int

	failRegisterFor func(source uri.URI, sink *uri.URI) bool
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{
		registered:   make(map[filterRegistration]int),
		unregistered: make(map[filterRegistration]int),
	}
}

func toKey(source uri.URI, sink *uri.URI) filterRegistration {
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
	return r.registered[toKey(source, sink)]
}

func (r *recordingTransport) unregisterCount(source uri.URI, sink *uri.URI) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregistered[toKey(source, sink)]
}

func (r *recordingTransport) Send(context.Context, transport.Message) error { return nil }

func (r *recordingTransport) RegisterListener(_ context.Context, source uri.URI, sink *uri.URI, _ transport.Listener) error {
	if r.failRegisterFor != nil && r.failRegisterFor(source, sink) {
		return errRegisterFailed
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered[toKey(source, sink)]++
	return nil
}

func (r *recordingTransport) UnregisterListener(_ context.Context, source uri.URI, sink *uri.URI, _ transport.Listener) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregistered[toKey(source, sink)]++
	return nil
}
