// ABOUTME: Store interfaces and data types for selectgate persistence
// ABOUTME: Defines AccountCandidate and the CandidateStore/AuditStore contracts

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// AccountCandidate represents one internal application account linked to an
// externally verified identity. Candidates are immutable once loaded.
type AccountCandidate struct {
	AccountID  string // unique, stable account identifier
	ExternalID string // the external identity this account is linked to
	GroupCode  string // classification code used for role derivation
}

// CandidateStore looks up the internal accounts linked to an external
// identity. Implementations must return candidates ordered by account id
// ascending, and an empty slice (not an error) when the identity has no
// linked accounts. Errors indicate the backing store is unreachable or the
// query failed; callers treat them as hard authentication failures.
type CandidateStore interface {
	FindCandidates(ctx context.Context, externalID string) ([]AccountCandidate, error)
}

// AccountAdminStore exposes provisioning operations used by the CLI.
type AccountAdminStore interface {
	CreateAccount(ctx context.Context, candidate *AccountCandidate) error
	ListAccounts(ctx context.Context, limit int) ([]AccountCandidate, error)
}

// AuditStore records authentication decisions for diagnosis. Appends are
// best-effort from the caller's perspective: a failed append must never
// change an already-computed authentication result.
type AuditStore interface {
	AppendDecision(ctx context.Context, entry *DecisionEntry) error
	ListDecisions(ctx context.Context, filter DecisionFilter) ([]*DecisionEntry, error)
}
