// Package uri implements the uProtocol URI value type used throughout the
// streamer to address sources, sinks, and subscription topics.
//
// A URI identifies a uEntity resource on a given authority:
//
//	//<authority>/<ue_id>/<version>/<resource_id>
//
// The authority "*" is the wildcard authority: it matches any concrete
// authority when used in a topic filter. The all-ones sentinel (UEID,
// Version, and Resource all at their maximum value) is reserved as the
// request/response filter for an authority.
package uri

import "fmt"

// Sentinel field values reserved for the request/response filter.
const (
	AllUEID     = 0xFFFFFFFF
	AllVersion  = 0xFF
	AllResource = 0xFFFF
)

// WildcardAuthority is the literal authority that matches any authority in
// a topic filter.
const WildcardAuthority = "*"

// URI addresses a uEntity resource on a transport authority.
type URI struct {
	Authority  string
	UEID       uint32
	Version    uint8
	ResourceID uint16
}

// New builds a URI from its parts. Authority must be non-empty.
func New(authority string, ueID uint32, version uint8, resourceID uint16) (URI, error) {
	if authority == "" {
		return URI{}, fmt.Errorf("uri: empty authority")
	}
	return URI{Authority: authority, UEID: ueID, Version: version, ResourceID: resourceID}, nil
}

// Wildcard returns the filter that matches every message for authority:
// every field other than the authority is set to its all-ones sentinel.
func Wildcard(authority string) URI {
	return URI{
		Authority:  authority,
		UEID:       AllUEID,
		Version:    AllVersion,
		ResourceID: AllResource,
	}
}

// IsWildcardAuthority reports whether authority is the wildcard "*".
func IsWildcardAuthority(authority string) bool {
	return authority == WildcardAuthority
}

// String renders the URI in "//authority/ue_id/version/resource_id" form,
// matching the uProtocol textual convention (hex fields), for log lines and
// equality-friendly debug output.
func (u URI) String() string {
	return fmt.Sprintf("//%s/%X/%X/%X", u.Authority, u.UEID, u.Version, u.ResourceID)
}

// WithAuthority returns a copy of u with the authority replaced, keeping
// UEID/Version/ResourceID intact. Used to rewrite a subscription topic's
// authority into an ingress-authority-scoped source filter (spec §4.3).
func (u URI) WithAuthority(authority string) URI {
	u.Authority = authority
	return u
}
