package value

import "strings"

// These sentinel strings are user-authored on the wire; the merger and the
// final sweep recognize them by value, never by a distinct Kind.
const (
	// RefKey is the mapping key that triggers reference resolution.
	RefKey = "$ref"
	// Remove is the whole-node scalar sentinel erased by the sweep.
	Remove = "$remove"
	// RemoveFromListPrefix marks a list element of form "$remove::<payload>".
	RemoveFromListPrefix = "$remove::"
)

// IsRemove reports whether v is the bare $remove scalar.
func IsRemove(v Value) bool {
	return v.IsStringValue(Remove)
}

// RemoveFromListPayload returns the payload of a "$remove::<payload>" string
// element and true, or "" and false if v is not such a marker.
func RemoveFromListPayload(v Value) (string, bool) {
	s, ok := v.String()
	if !ok || !strings.HasPrefix(s, RemoveFromListPrefix) {
		return "", false
	}
	return strings.TrimPrefix(s, RemoveFromListPrefix), true
}
