// ABOUTME: HTTP middleware binding the decision engine to real requests
// ABOUTME: Extracts the asserted identity header, maps outcomes to 403/500, injects the principal

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/selectgate/selectgate/internal/session"
	"github.com/selectgate/selectgate/internal/store"
)

// DefaultExternalIDHeader is the request header carrying the externally
// verified identity when none is configured.
const DefaultExternalIDHeader = "REMOTE_USER"

// DefaultLoginPath is the selection endpoint when none is configured.
const DefaultLoginPath = "/login.html"

// SelectionParam is the form/query parameter carrying the chosen account id
// on login requests.
const SelectionParam = "appUserId"

// Middleware authenticates every request through the engine. Rejections get
// a uniform 403 with no distinguishing detail; hard failures (repository
// down, unmapped group code) get a 500 and a log line with enough context to
// diagnose. Successful decisions attach the principal to the request context
// and are recorded in the audit store when one is provided; an audit failure
// never changes an already-computed result.
func Middleware(engine *Engine, audit store.AuditStore, externalIDHeader string) func(http.Handler) http.Handler {
	if externalIDHeader == "" {
		externalIDHeader = DefaultExternalIDHeader
	}
	logger := slog.Default().With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess == nil {
				logger.Error("no session on request; session middleware must run first")
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			req := Request{
				ExternalID: r.Header.Get(externalIDHeader),
				Path:       r.URL.Path,
			}
			if req.Path == engine.LoginPath() {
				req.SelectedAccountID = r.FormValue(SelectionParam)
			}

			principal, err := engine.Authenticate(r.Context(), req, sess)
			if err != nil {
				if errors.Is(err, ErrForbidden) {
					recordDecision(r.Context(), audit, logger, sess.ID(), req, store.DecisionForbidden, nil)
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}

				logger.Error("authentication failed",
					"error", err,
					"external_id", req.ExternalID,
					"session_id", sess.ID(),
					"path", req.Path,
				)
				recordDecision(r.Context(), audit, logger, sess.ID(), req, store.DecisionError, nil)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			outcome := store.DecisionAnonymous
			var accountID *string
			if principal.Kind == KindSelected {
				outcome = store.DecisionSuccess
				accountID = &principal.AccountID
			}
			recordDecision(r.Context(), audit, logger, sess.ID(), req, outcome, accountID)

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// recordDecision appends an audit entry, best-effort.
func recordDecision(ctx context.Context, audit store.AuditStore, logger *slog.Logger, sessionID string, req Request, outcome store.DecisionOutcome, accountID *string) {
	if audit == nil {
		return
	}

	err := audit.AppendDecision(ctx, &store.DecisionEntry{
		SessionID:   sessionID,
		ExternalID:  req.ExternalID,
		Outcome:     outcome,
		AccountID:   accountID,
		RequestPath: req.Path,
	})
	if err != nil {
		logger.Warn("failed to append decision audit entry", "error", err, "session_id", sessionID)
	}
}
