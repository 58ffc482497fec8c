package subscription

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/eclipse-uprotocol/up-streamer-go/uri"
)

// staticEntry is the on-disk shape of one subscription record.
type staticEntry struct {
	Topic      staticURI `json:"topic"`
	Subscriber staticURI `json:"subscriber"`
}

type staticURI struct {
	Authority  string `json:"authority"`
	UEID       uint32 `json:"ue_id"`
	Version    uint8  `json:"version"`
	ResourceID uint16 `json:"resource_id"`
}

func (s staticURI) toURI() uri.URI {
	return uri.URI{Authority: s.Authority, UEID: s.UEID, Version: s.Version, ResourceID: s.ResourceID}
}

// StaticFileProvider is a read-only Provider backed by a JSON file of
// (topic, subscriber) pairs. It supplements the core, which only specifies
// the Provider interface (spec §6) — grounded on
// utils/usubscription-static-file in the original Rust implementation,
// which offers the same "read a fixed file once" backend for streamers that
// don't have a live subscription service to talk to.
//
// This is not part of the core control/data plane; it exists for the
// cmd/ustreamer example binary and for tests that want a concrete,
// file-backed Provider rather than an in-memory fake.
type StaticFileProvider struct {
	path string
}

// NewStaticFileProvider returns a provider that reads path on every call to
// FetchSubscriptions. Since the streamer only calls FetchSubscriptions once
// (spec §4.8), the file is effectively read once per streamer lifetime.
func NewStaticFileProvider(path string) *StaticFileProvider {
	return &StaticFileProvider{path: path}
}

// FetchSubscriptions ignores request and returns every record in the file:
// this backend has no notion of filtering by subscriber, matching the
// "static, read-only" nature of the original implementation it is grounded
// on.
func (p *StaticFileProvider) FetchSubscriptions(Request) ([]Record, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("subscription: read static file %q: %w", p.path, err)
	}

	var entries []staticEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("subscription: parse static file %q: %w", p.path, err)
	}

	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, Record{Topic: e.Topic.toURI(), Subscriber: e.Subscriber.toURI()})
	}
	return records, nil
}
