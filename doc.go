/*
Package ustreamer implements a uProtocol streamer: a message-bridge that
forwards uProtocol messages between heterogeneous transport implementations
(for example a vehicle-bus transport and a network pub/sub transport) so
that producers on one transport can reach consumers on another without
knowing about the boundary.

# Architecture

The streamer combines a control plane and a data plane.

The control plane is the route table (this package): a set of installed
routes keyed by a transport-identity-aware RouteKey, enforcing that a route
is never installed twice and that a delete of an unknown route fails
cleanly.

The data plane has two halves, each refcounted by transport identity:

  - dataplane/ingress registers a listener on the ingress transport that
    forwards accepted messages into the egress transport's broadcast queue
    (one queue per egress transport, shared by every route that uses it).
  - dataplane/egress runs one dedicated goroutine per egress transport,
    draining that transport's broadcast queue and calling Send on it.

Between them sits the routing package, a pure function that derives which
publish-topic source filters an ingress listener must subscribe to, given
the subscribers returned by the subscription package's directory adapter.

# Usage

	reg := prometheus.NewRegistry()
	streamer, err := ustreamer.NewStreamer("vehicle-bridge", 64, provider, metrics.New(reg))
	if err != nil {
	    log.Fatal(err)
	}

	in := ustreamer.NewEndpoint("vehicle-bus", "vehicle", vehicleTransport)
	out := ustreamer.NewEndpoint("cloud", "cloud", cloudTransport)

	if err := streamer.AddRoute(ctx, in, out); err != nil {
	    log.Fatal(err)
	}

	// ... later
	if err := streamer.DeleteRoute(ctx, in, out); err != nil {
	    log.Fatal(err)
	}

NewStreamer performs a one-shot bootstrap fetch of the subscription
directory; a failure there is a fatal initialization error, since every
route install after that point depends on having a subscription snapshot
to derive publish filters from.

Concrete transport implementations, the subscription provider backing the
directory, and any host process wiring (config, CLI flags, metrics
exporters) live outside this package; see cmd/ustreamer for an example
binary that wires all of it together.
*/
package ustreamer
