package ustreamer

import (
	"fmt"

	"github.com/eclipse-uprotocol/up-streamer-go/transport"
)

// Endpoint names a transport authority together with the transport handle
// that serves it (spec §3). It is a value object: callers construct one
// per side of a route and hand it to AddRoute/DeleteRoute.
type Endpoint struct {
	Name      string
	Authority string
	Transport transport.Transport
}

// NewEndpoint builds an Endpoint. Grounded on build_endpoint in
// api/endpoint.rs.
func NewEndpoint(name, authority string, t transport.Transport) Endpoint {
	return Endpoint{Name: name, Authority: authority, Transport: t}
}

// String renders an Endpoint for log fields as "name@authority" (spec §11.1).
func (e Endpoint) String() string {
	return fmt.Sprintf("%s@%s", e.Name, e.Authority)
}
