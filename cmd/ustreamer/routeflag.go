package main

import (
	"fmt"
	"strings"
)

// routePair is one static route to install at startup: forward messages
// from inAuthority to outAuthority.
type routePair struct {
	inAuthority  string
	outAuthority string
}

// routeListFlag accumulates "-route in=out" flags (repeatable), grounded on
// the skipper defaultFiltersFlags pattern of a flag.Value that appends
// across repeated occurrences of the same flag.
type routeListFlag struct {
	routes []routePair
}

func (f *routeListFlag) String() string {
	parts := make([]string, 0, len(f.routes))
	for _, r := range f.routes {
		parts = append(parts, r.inAuthority+"="+r.outAuthority)
	}
	return strings.Join(parts, ",")
}

func (f *routeListFlag) Set(value string) error {
	in, out, ok := strings.Cut(value, "=")
	if !ok || in == "" || out == "" {
		return fmt.Errorf("route flag must be in the form in-authority=out-authority, got %q", value)
	}
	f.routes = append(f.routes, routePair{inAuthority: in, outAuthority: out})
	return nil
}
