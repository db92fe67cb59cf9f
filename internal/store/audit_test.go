// ABOUTME: Tests for decision audit log store operations
// ABOUTME: Covers Append and List with filtering for the decision_log table

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditStore_AppendDecision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	accountID := "A2"
	entry := &DecisionEntry{
		SessionID:   "sess-123",
		ExternalID:  "alice",
		Outcome:     DecisionSuccess,
		AccountID:   &accountID,
		RequestPath: "/login.html",
	}

	err := store.AppendDecision(ctx, entry)
	require.NoError(t, err)

	// Should have generated ID and timestamp
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestAuditStore_ListDecisions_NoFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, outcome := range []DecisionOutcome{DecisionAnonymous, DecisionForbidden, DecisionSuccess} {
		err := store.AppendDecision(ctx, &DecisionEntry{
			SessionID:   "sess-123",
			ExternalID:  "alice",
			Outcome:     outcome,
			RequestPath: "/dashboard",
		})
		require.NoError(t, err)
	}

	entries, err := store.ListDecisions(ctx, DecisionFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestAuditStore_ListDecisions_Filtered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendDecision(ctx, &DecisionEntry{
		SessionID: "sess-1", ExternalID: "alice", Outcome: DecisionForbidden, RequestPath: "/login.html",
	}))
	require.NoError(t, store.AppendDecision(ctx, &DecisionEntry{
		SessionID: "sess-2", ExternalID: "bob", Outcome: DecisionSuccess, RequestPath: "/login.html",
	}))
	require.NoError(t, store.AppendDecision(ctx, &DecisionEntry{
		SessionID: "sess-1", ExternalID: "alice", Outcome: DecisionSuccess, RequestPath: "/login.html",
	}))

	session := "sess-1"
	entries, err := store.ListDecisions(ctx, DecisionFilter{SessionID: &session})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "sess-1", e.SessionID)
		assert.Equal(t, "alice", e.ExternalID)
	}

	outcome := DecisionSuccess
	entries, err = store.ListDecisions(ctx, DecisionFilter{Outcome: &outcome})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAuditStore_NilAccountID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendDecision(ctx, &DecisionEntry{
		SessionID:   "sess-1",
		ExternalID:  "alice",
		Outcome:     DecisionForbidden,
		RequestPath: "/app",
	}))

	entries, err := store.ListDecisions(ctx, DecisionFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].AccountID)
}
