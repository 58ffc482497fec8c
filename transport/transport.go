// Package transport defines the capability contract the streamer requires
// from a concrete transport implementation (SOME/IP, MQTT, Zenoh, ...), and
// the payload/message shapes that cross it. Concrete transports live outside
// this module; this package only names the boundary (spec §4.1, §6).
package transport

import (
	"context"

	"github.com/eclipse-uprotocol/up-streamer-go/uri"
)

// PayloadFormat identifies the wire encoding of a Message's payload.
type PayloadFormat int

const (
	PayloadFormatUnspecified PayloadFormat = iota
	PayloadFormatProtobuf
	PayloadFormatJSON
	PayloadFormatText
	PayloadFormatRaw

	// PayloadFormatSharedMemory marks a message whose payload is a pointer
	// into local shared memory. Such messages are not portable across a
	// transport boundary and are dropped by the ingress listener (spec §4.6).
	PayloadFormatSharedMemory
)

// Message is the unit of data the streamer forwards between transports. The
// streamer treats the payload as opaque; only PayloadFormat and the
// addressing fields are inspected.
type Message struct {
	Source        uri.URI
	Sink          *uri.URI
	PayloadFormat PayloadFormat
	Payload       []byte
}

// Listener receives messages delivered by a transport for filters it was
// registered under. Implementations must be safe to register under more
// than one (source, sink) filter pair at the same time (spec §4.6).
type Listener interface {
	OnReceive(ctx context.Context, msg Message)
}

// Transport is the capability a concrete transport implementation exposes
// to the streamer. All operations are asynchronous from the caller's point
// of view and may fail; failures are non-fatal to the streamer (spec §4.1).
type Transport interface {
	// Send delivers msg on the transport. Send failures are logged by the
	// caller and never treated as fatal.
	Send(ctx context.Context, msg Message) error

	// RegisterListener installs listener to receive messages matching
	// sourceFilter (and, when non-nil, sinkFilter). sourceFilter and
	// sinkFilter are uProtocol URIs that may carry wildcard sentinel
	// fields (uri.Wildcard).
	RegisterListener(ctx context.Context, sourceFilter uri.URI, sinkFilter *uri.URI, listener Listener) error

	// UnregisterListener removes a previously installed listener
	// registration for the same (sourceFilter, sinkFilter, listener)
	// triple.
	UnregisterListener(ctx context.Context, sourceFilter uri.URI, sinkFilter *uri.URI, listener Listener) error
}
