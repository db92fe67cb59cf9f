// ABOUTME: SQLite implementation of the store interfaces using modernc.org/sqlite
// ABOUTME: Provides candidate lookup and account provisioning with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// selectCandidatesQuery is the backing query contract for candidate lookup:
// a three-column projection filtered by external id, ordered by account id
// ascending.
const selectCandidatesQuery = `
	SELECT account_id, external_id, group_code FROM app_users
	WHERE external_id = ? ORDER BY account_id
`

// SQLiteStore implements CandidateStore, AccountAdminStore and AuditStore
// using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS app_users (
			account_id TEXT PRIMARY KEY,
			external_id TEXT NOT NULL,
			group_code TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_app_users_external_id ON app_users(external_id);

		CREATE TABLE IF NOT EXISTS decision_log (
			decision_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			external_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			account_id TEXT,
			request_path TEXT NOT NULL,
			ts TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_decision_log_session ON decision_log(session_id);
		CREATE INDEX IF NOT EXISTS idx_decision_log_external ON decision_log(external_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

// FindCandidates returns the accounts linked to the given external identity,
// ordered by account id ascending. Returns an empty slice when the identity
// has no linked accounts.
func (s *SQLiteStore) FindCandidates(ctx context.Context, externalID string) ([]AccountCandidate, error) {
	rows, err := s.db.QueryContext(ctx, selectCandidatesQuery, externalID)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []AccountCandidate
	for rows.Next() {
		var c AccountCandidate
		if err := rows.Scan(&c.AccountID, &c.ExternalID, &c.GroupCode); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}

	// Return empty slice (not nil) if no candidates
	if candidates == nil {
		candidates = []AccountCandidate{}
	}

	s.logger.Debug("loaded candidates", "external_id", externalID, "count", len(candidates))
	return candidates, nil
}

// CreateAccount provisions a new application account linked to an external
// identity.
func (s *SQLiteStore) CreateAccount(ctx context.Context, candidate *AccountCandidate) error {
	query := `INSERT INTO app_users (account_id, external_id, group_code) VALUES (?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		candidate.AccountID,
		candidate.ExternalID,
		candidate.GroupCode,
	)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	s.logger.Debug("created account",
		"account_id", candidate.AccountID,
		"external_id", candidate.ExternalID,
		"group_code", candidate.GroupCode,
	)
	return nil
}

// ListAccounts returns provisioned accounts ordered by account id, up to
// limit (default 100 when limit <= 0).
func (s *SQLiteStore) ListAccounts(ctx context.Context, limit int) ([]AccountCandidate, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT account_id, external_id, group_code FROM app_users
		ORDER BY account_id LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []AccountCandidate
	for rows.Next() {
		var c AccountCandidate
		if err := rows.Scan(&c.AccountID, &c.ExternalID, &c.GroupCode); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	if accounts == nil {
		accounts = []AccountCandidate{}
	}

	return accounts, nil
}

// Close releases the underlying database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
