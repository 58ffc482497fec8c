// Package subscription provides the subscription-directory facade the
// routing resolver and the ingress registry consult to learn which
// publish-style topics have subscribers behind a given egress authority
// (spec §4.4).
package subscription

import "github.com/eclipse-uprotocol/up-streamer-go/uri"

// Record is a single (topic, subscriber) pair as published by the
// subscription directory (spec §3).
type Record struct {
	Topic      uri.URI
	Subscriber uri.URI
}

// Provider is the external subscription-directory collaborator. The
// streamer calls FetchSubscriptions exactly once, at construction time,
// with a wildcard-subscriber request (spec §6, §4.8).
type Provider interface {
	FetchSubscriptions(request Request) ([]Record, error)
}

// Request mirrors the uProtocol FetchSubscriptionsRequest shape closely
// enough for this module's needs: a subscriber filter. The bootstrap
// request the Streamer issues uses the wildcard authority and the all-ones
// sentinel identity (spec §4.8, §6).
type Request struct {
	Subscriber uri.URI
}

// WildcardSubscriberRequest is the single request the streamer issues at
// construction time to bootstrap its subscription-directory snapshot.
func WildcardSubscriberRequest() Request {
	return Request{Subscriber: uri.Wildcard(uri.WildcardAuthority)}
}
