// ABOUTME: Package documentation for the session package
// ABOUTME: Explains the keyed per-session storage the auth engine round-trips through

// Package session provides per-browser-session keyed storage.
//
// The auth engine never retains state across requests itself; everything it
// caches (the candidate set, the selected principal) round-trips through a
// Session. The Session contract is deliberately small: get, put, delete,
// with session-lifetime semantics. RAMServer is the default implementation;
// Manager wires sessions to HTTP requests through a cookie.
package session
