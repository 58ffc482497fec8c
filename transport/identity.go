package transport

import "fmt"

// IdentityKey is an opaque equality key over a Transport handle based on
// the handle's object identity, never its observable state (spec §3, §4.2).
// Two transports that happen to be configured identically but are distinct
// instances must compare unequal; the same instance seen through two
// different Endpoint values must compare equal.
//
// Go interface values compare by (dynamic type, dynamic value); for a
// Transport implementation backed by a pointer (the expected, idiomatic
// shape for any stateful transport, exactly like a long-lived connection or
// client handle) that coincides with pointer identity, so IdentityKey is a
// thin, comparable wrapper around the interface value itself rather than a
// derived hash. Transport implementations MUST be reference types (a
// pointer, or an interface/channel/map wrapping one) for this identity to
// hold; a value type would make two field-for-field-identical Endpoints
// compare equal, which is the one thing this key exists to prevent.
type IdentityKey struct {
	handle Transport
}

// NewIdentityKey derives the identity key for t.
func NewIdentityKey(t Transport) IdentityKey {
	return IdentityKey{handle: t}
}

// String renders a stable, non-reversible label for structured log fields.
// It is not guaranteed unique across processes, only useful for pairing up
// log lines about the same transport instance within one run.
func (k IdentityKey) String() string {
	return fmt.Sprintf("%p", k.handle)
}
