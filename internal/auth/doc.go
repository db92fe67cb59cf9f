// ABOUTME: Package documentation for the auth package
// ABOUTME: Explains the selection state machine and its session-scoped caching

// Package auth decides, per request, whether the caller is authenticated and
// as which application account.
//
// The input identity is asserted by an upstream verifier (an SSO proxy
// stamping a header); this package never verifies credentials. Its job is
// the selection state machine: one external identity may map to several
// application accounts, and until the user explicitly selects one at the
// login path, requests proceed only as the bare external identity with the
// default role. A successful selection is cached in the session and reused
// for every later request without touching the candidate repository again.
//
// A session is therefore in one of two states: unselected (no cached
// principal) or selected. The pre-selection external principal is a
// per-request outcome and is never cached.
//
// Rejections — no asserted identity, no linked accounts, a selection that
// was never a candidate — are deliberately indistinguishable: a uniform 403.
// Hard failures (repository unreachable, unmapped group code) surface as
// server errors instead, and are logged with the external identity and
// session id.
package auth
