// ABOUTME: Session contracts for per-browser-session keyed storage
// ABOUTME: Defines the Session and Server interfaces the auth engine depends on

package session

import "errors"

// ErrNotFound is returned when a session id has no live session
var ErrNotFound = errors.New("session not found")

// Session is keyed storage scoped to one browser session. Values live
// exactly as long as the session does. Within a single request the only
// guarantee is last-write-wins; concurrent requests in the same session are
// tolerated because all engine writes are idempotent re-derivations.
type Session interface {
	// ID returns the opaque session identifier.
	ID() string

	// Get returns the value stored under key, and whether it was present.
	Get(key string) (any, bool)

	// Put stores value under key, replacing any previous value.
	Put(key string, value any)

	// Delete removes the value stored under key, if any.
	Delete(key string)
}

// Server mints and retrieves sessions.
type Server interface {
	// Create mints a new session with a fresh id.
	Create() (Session, error)

	// Get returns the live session with the given id, or ErrNotFound if the
	// id is unknown or the session has expired.
	Get(id string) (Session, error)
}
