// Package routing implements the pure publish-route resolver: given the
// subscribers behind an egress authority, it derives the set of publish
// source filters an ingress listener must register for (spec §4.3).
package routing

import (
	log "github.com/sirupsen/logrus"

	"github.com/eclipse-uprotocol/up-streamer-go/subscription"
	"github.com/eclipse-uprotocol/up-streamer-go/uri"
)

// ResolvePublishSourceFilters derives the deduplicated set of publish
// source filter URIs an ingress listener on ingressAuthority must register
// for, given the subscribers looked up for egressAuthority.
//
// For each record whose topic authority equals ingressAuthority or the
// wildcard authority, a source filter is synthesized with the topic's
// UEID/Version/ResourceID and authority rewritten to ingressAuthority.
// Records whose topic authority is neither are dropped. Results are
// deduplicated by structural URI equality. This function does no I/O and
// never fails the caller: a malformed record is skipped and logged (spec
// §4.3 rule 4 — construction here cannot fail since Record already carries
// parsed fields, but the skip-and-log shape is kept for parity with a
// transport-level resolver that parses raw URI strings).
func ResolvePublishSourceFilters(ingressAuthority, egressAuthority string, subscribers []subscription.Record) []uri.URI {
	seen := make(map[uri.URI]struct{}, len(subscribers))
	filters := make([]uri.URI, 0, len(subscribers))

	for _, sub := range subscribers {
		source, ok := derivePublishSourceFilter(ingressAuthority, egressAuthority, sub.Topic)
		if !ok {
			continue
		}
		if _, dup := seen[source]; dup {
			continue
		}
		seen[source] = struct{}{}
		filters = append(filters, source)
	}

	return filters
}

func derivePublishSourceFilter(ingressAuthority, egressAuthority string, topic uri.URI) (uri.URI, bool) {
	if topic.Authority != ingressAuthority && !uri.IsWildcardAuthority(topic.Authority) {
		log.WithFields(log.Fields{
			"ingress_authority": ingressAuthority,
			"egress_authority":  egressAuthority,
			"topic_authority":   topic.Authority,
		}).Debug("routing: skipping subscriber outside ingress authority")
		return uri.URI{}, false
	}

	return topic.WithAuthority(ingressAuthority), true
}
