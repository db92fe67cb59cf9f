// ABOUTME: Decision audit entity and store methods for tracking authentication outcomes
// ABOUTME: Records which external identity resolved to which account, and how

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DecisionOutcome represents the result of one authentication decision.
type DecisionOutcome string

const (
	DecisionSuccess   DecisionOutcome = "success"
	DecisionAnonymous DecisionOutcome = "anonymous"
	DecisionForbidden DecisionOutcome = "forbidden"
	DecisionError     DecisionOutcome = "error"
)

// DecisionEntry represents a single audit log entry for an authentication
// decision.
type DecisionEntry struct {
	ID          string          // UUID v4
	SessionID   string          // session the decision was made for
	ExternalID  string          // asserted external identity (may be empty)
	Outcome     DecisionOutcome // what the engine decided
	AccountID   *string         // resolved account, nil unless Outcome is success
	RequestPath string          // path of the request being decided
	Timestamp   time.Time       // when it happened
}

// DecisionFilter specifies filtering options for listing decision entries.
type DecisionFilter struct {
	SessionID  *string          // filter by session
	ExternalID *string          // filter by external identity
	Outcome    *DecisionOutcome // filter by outcome
	Limit      int              // max results (default 100, max 1000)
}

// AppendDecision appends a new entry to the decision log.
// Generates ID and Timestamp if not set.
func (s *SQLiteStore) AppendDecision(ctx context.Context, e *DecisionEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO decision_log (decision_id, session_id, external_id, outcome, account_id, request_path, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.SessionID,
		e.ExternalID,
		e.Outcome,
		e.AccountID,
		e.RequestPath,
		e.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting decision entry: %w", err)
	}

	s.logger.Debug("appended decision",
		"session_id", e.SessionID,
		"outcome", e.Outcome,
		"path", e.RequestPath,
	)
	return nil
}

// ListDecisions returns decision entries matching the filter, newest first.
func (s *SQLiteStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]*DecisionEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := `
		SELECT decision_id, session_id, external_id, outcome, account_id, request_path, ts
		FROM decision_log WHERE 1=1
	`
	var args []any

	if filter.SessionID != nil {
		query += " AND session_id = ?"
		args = append(args, *filter.SessionID)
	}
	if filter.ExternalID != nil {
		query += " AND external_id = ?"
		args = append(args, *filter.ExternalID)
	}
	if filter.Outcome != nil {
		query += " AND outcome = ?"
		args = append(args, *filter.Outcome)
	}

	query += " ORDER BY ts DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing decisions: %w", err)
	}
	defer rows.Close()

	var entries []*DecisionEntry
	for rows.Next() {
		var e DecisionEntry
		var outcome, ts string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.ExternalID, &outcome, &e.AccountID, &e.RequestPath, &ts); err != nil {
			return nil, fmt.Errorf("scanning decision entry: %w", err)
		}
		e.Outcome = DecisionOutcome(outcome)
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing decision timestamp: %w", err)
		}
		e.Timestamp = parsed
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating decisions: %w", err)
	}

	return entries, nil
}
