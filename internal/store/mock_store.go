// ABOUTME: Mock store implementation for testing
// ABOUTME: Allows engine and gateway tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
)

// MockStore is an in-memory CandidateStore/AuditStore implementation for
// testing. It counts FindCandidates calls so tests can assert the engine's
// once-per-session lookup invariant.
type MockStore struct {
	mu        sync.RWMutex
	accounts  map[string][]AccountCandidate // keyed by external ID
	decisions []*DecisionEntry
	findCalls int
	findErr   error // when set, FindCandidates fails with this error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		accounts: make(map[string][]AccountCandidate),
	}
}

// AddAccount links an account to an external identity.
func (m *MockStore) AddAccount(candidate AccountCandidate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts[candidate.ExternalID] = append(m.accounts[candidate.ExternalID], candidate)
}

// FailLookups makes all subsequent FindCandidates calls return err.
func (m *MockStore) FailLookups(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findErr = err
}

// FindCandidates returns the linked accounts ordered by account id.
func (m *MockStore) FindCandidates(ctx context.Context, externalID string) ([]AccountCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}

	// Return a sorted copy to match the repository ordering contract
	candidates := make([]AccountCandidate, len(m.accounts[externalID]))
	copy(candidates, m.accounts[externalID])
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].AccountID < candidates[j].AccountID
	})

	return candidates, nil
}

// FindCalls returns how many times FindCandidates has been invoked.
func (m *MockStore) FindCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.findCalls
}

// AppendDecision records a decision entry in memory.
func (m *MockStore) AppendDecision(ctx context.Context, entry *DecisionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := *entry
	m.decisions = append(m.decisions, &e)
	return nil
}

// ListDecisions returns recorded decisions matching the filter, newest last
// (insertion order; the mock does not sort by timestamp).
func (m *MockStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]*DecisionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*DecisionEntry
	for _, e := range m.decisions {
		if filter.SessionID != nil && e.SessionID != *filter.SessionID {
			continue
		}
		if filter.ExternalID != nil && e.ExternalID != *filter.ExternalID {
			continue
		}
		if filter.Outcome != nil && e.Outcome != *filter.Outcome {
			continue
		}
		copied := *e
		entries = append(entries, &copied)
	}

	return entries, nil
}
