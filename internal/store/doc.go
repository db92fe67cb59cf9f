// ABOUTME: Package documentation for the store package
// ABOUTME: Explains the candidate repository and audit persistence layer

// Package store provides persistence for selectgate.
//
// The central contract is CandidateStore: given an externally verified
// identity, return the ordered set of internal application accounts linked
// to it. SQLiteStore is the default implementation, backed by a single
// app_users table queried with a three-column projection ordered by account
// id. The same database also holds the decision audit trail.
//
// The store is read-only from the authentication engine's perspective;
// provisioning happens through AccountAdminStore, used by the CLI.
package store
