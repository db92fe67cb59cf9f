// ABOUTME: Tests for SQLite store implementation
// ABOUTME: Covers candidate lookup ordering, empty results, and account provisioning

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	// Verify the database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestFindCandidates_OrderedByAccountID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Insert out of order; lookup must come back sorted
	for _, c := range []AccountCandidate{
		{AccountID: "A3", ExternalID: "alice", GroupCode: "3"},
		{AccountID: "A1", ExternalID: "alice", GroupCode: "1"},
		{AccountID: "A2", ExternalID: "alice", GroupCode: "2"},
		{AccountID: "B1", ExternalID: "bob", GroupCode: "1"},
	} {
		if err := store.CreateAccount(ctx, &c); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
	}

	candidates, err := store.FindCandidates(ctx, "alice")
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}

	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	for i, want := range []string{"A1", "A2", "A3"} {
		if candidates[i].AccountID != want {
			t.Errorf("candidate %d: expected account %q, got %q", i, want, candidates[i].AccountID)
		}
		if candidates[i].ExternalID != "alice" {
			t.Errorf("candidate %d: expected external id 'alice', got %q", i, candidates[i].ExternalID)
		}
	}
}

func TestFindCandidates_NoLinkedAccounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	candidates, err := store.FindCandidates(ctx, "ext-9")
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}

	// Empty slice, not nil, not an error
	if candidates == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(candidates) != 0 {
		t.Errorf("expected 0 candidates, got %d", len(candidates))
	}
}

func TestCreateAccount_DuplicateAccountID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := AccountCandidate{AccountID: "A1", ExternalID: "alice", GroupCode: "1"}
	if err := store.CreateAccount(ctx, &c); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	if err := store.CreateAccount(ctx, &c); err == nil {
		t.Error("expected duplicate account id to fail")
	}
}

func TestListAccounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, c := range []AccountCandidate{
		{AccountID: "A2", ExternalID: "alice", GroupCode: "3"},
		{AccountID: "A1", ExternalID: "alice", GroupCode: "1"},
		{AccountID: "B1", ExternalID: "bob", GroupCode: "2"},
	} {
		if err := store.CreateAccount(ctx, &c); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
	}

	accounts, err := store.ListAccounts(ctx, 0)
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}

	if len(accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(accounts))
	}
	if accounts[0].AccountID != "A1" || accounts[2].AccountID != "B1" {
		t.Errorf("expected accounts ordered by id, got %v", accounts)
	}
}
