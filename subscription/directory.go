package subscription

import (
	"github.com/eclipse-uprotocol/up-streamer-go/uri"
)

// Directory is a read-through facade over a snapshot of the subscription
// directory (spec §4.4, §4.8 — "snapshot at boot"). It is built once from
// whatever the Provider returned for the bootstrap fetch; every field is
// written during NewDirectory and never again, so concurrent reads from
// many goroutines driving add_route/delete_route need no locking of their
// own.
//
// See spec §9 for the design note on why a live/dynamic directory would
// need a different remove-time recomputation strategy than this
// implementation provides.
type Directory struct {
	bySubscr    map[string][]Record
	wildcardSub []Record
}

// NewDirectory indexes records by subscriber authority for fast lookup.
func NewDirectory(records []Record) *Directory {
	d := &Directory{bySubscr: make(map[string][]Record)}
	for _, r := range records {
		if uri.IsWildcardAuthority(r.Subscriber.Authority) {
			d.wildcardSub = append(d.wildcardSub, r)
			continue
		}
		d.bySubscr[r.Subscriber.Authority] = append(d.bySubscr[r.Subscriber.Authority], r)
	}
	return d
}

// LookupRouteSubscribers returns the subscription records whose subscriber
// authority equals egressAuthority or the wildcard authority "*". An empty
// result is a valid outcome, not an error (spec §4.4).
func (d *Directory) LookupRouteSubscribers(egressAuthority string) []Record {
	matches := append([]Record(nil), d.wildcardSub...)
	matches = append(matches, d.bySubscr[egressAuthority]...)
	return matches
}
