package issuetree

import (
	"strings"

	"github.com/google/uuid"
)

// focusedDelim separates a canonical ID from its per-occurrence salt.
// Canonical IDs are UUIDs and can never contain it.
const focusedDelim = "#"

// NewNodeID returns a fresh canonical node ID.
func NewNodeID() string {
	return uuid.NewString()
}

// WithFocusedID namespaces a canonical ID for one occurrence in the focused
// view. The encoding is reversible via StripFocusedID.
func WithFocusedID(canonicalID, salt string) string {
	return canonicalID + focusedDelim + salt
}

// StripFocusedID maps an occurrence ID back to its canonical ID. It is a
// no-op on IDs that are already canonical, so callers may apply it
// unconditionally to anything arriving from a view.
func StripFocusedID(id string) string {
	if i := strings.Index(id, focusedDelim); i >= 0 {
		return id[:i]
	}
	return id
}

// IsFocusedID reports whether the ID carries an occurrence namespace.
func IsFocusedID(id string) bool {
	return strings.Contains(id, focusedDelim)
}
