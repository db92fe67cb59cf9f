// ABOUTME: The per-request authentication decision engine
// ABOUTME: Resolves candidates, gates selection through the login path, caches the result

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/selectgate/selectgate/internal/session"
	"github.com/selectgate/selectgate/internal/store"
)

// ErrForbidden is the expected, non-exceptional rejection outcome: no
// external identity, no linked accounts, or an unresolvable selection. All
// three produce the same observable behavior so callers cannot enumerate
// identities from the response.
var ErrForbidden = errors.New("forbidden")

// Session keys the engine round-trips through. All per-session state lives
// under these two keys; the engine holds nothing across requests itself.
const (
	candidatesSessionKey = "selectgate.candidates"
	principalSessionKey  = "selectgate.principal"
)

// Request is the host-abstracted input to one authentication decision.
type Request struct {
	// ExternalID is the identity asserted by the upstream verifier. Empty
	// means the upstream stamped nothing on this request.
	ExternalID string

	// Path is the normalized request path, compared exactly against the
	// configured login path.
	Path string

	// SelectedAccountID is the account-selection value carried by a login
	// request. Empty means no selection was submitted.
	SelectedAccountID string
}

// Engine decides, per request, whether the caller is authenticated and as
// which application account. It is stateless across requests; the session
// carries the candidate cache and the selected principal.
type Engine struct {
	candidates store.CandidateStore
	loginPath  string
	logger     *slog.Logger
}

// NewEngine creates a decision engine gating selection through loginPath.
func NewEngine(candidates store.CandidateStore, loginPath string) *Engine {
	return &Engine{
		candidates: candidates,
		loginPath:  loginPath,
		logger:     slog.Default().With("component", "auth"),
	}
}

// LoginPath returns the configured login path.
func (e *Engine) LoginPath() string {
	return e.loginPath
}

// Authenticate runs the decision procedure for one request. It returns the
// resolved principal on success, ErrForbidden for the uniform rejection
// outcome, and any other error for hard failures (candidate lookup or role
// derivation); the host maps those to a server error, not a 403.
//
// The rules apply in fixed order, first match wins:
//
//  1. A selected principal cached in the session is reused as-is, with no
//     repository call.
//  2. No asserted external identity rejects before anything is written.
//  3. Candidates are loaded at most once per session (the cached set is
//     authoritative even when empty); an empty set rejects.
//  4. Off the login path, the request proceeds as the bare external identity
//     with the default role only. Nothing is cached.
//  5. A login request whose selection is absent or not among the cached
//     candidates rejects. Exact, case-sensitive account id match.
//  6. A matching selection derives roles, caches the selected principal, and
//     proceeds as it.
func (e *Engine) Authenticate(ctx context.Context, req Request, sess session.Session) (*Principal, error) {
	if p := storedPrincipal(sess); p != nil {
		return p, nil
	}

	if req.ExternalID == "" {
		return nil, ErrForbidden
	}

	candidates, err := e.sessionCandidates(ctx, req.ExternalID, sess)
	if err != nil {
		return nil, fmt.Errorf("loading candidates for %q: %w", req.ExternalID, err)
	}
	if len(candidates) == 0 {
		e.logger.Debug("external identity has no linked accounts", "external_id", req.ExternalID)
		return nil, ErrForbidden
	}

	if req.Path != e.loginPath {
		return ExternalPrincipal(req.ExternalID), nil
	}

	chosen, ok := matchCandidate(candidates, req.SelectedAccountID)
	if !ok {
		e.logger.Debug("selection did not match any candidate",
			"external_id", req.ExternalID,
			"session_id", sess.ID(),
		)
		return nil, ErrForbidden
	}

	roles, err := RolesForGroup(chosen.GroupCode)
	if err != nil {
		return nil, fmt.Errorf("deriving roles for account %q: %w", chosen.AccountID, err)
	}

	p := SelectedPrincipal(chosen.AccountID, chosen.ExternalID, roles)
	sess.Put(principalSessionKey, p)
	e.logger.Info("account selected",
		"external_id", req.ExternalID,
		"account_id", chosen.AccountID,
		"session_id", sess.ID(),
	)
	return p, nil
}

// sessionCandidates returns the session's candidate set, loading it from the
// repository on first use. The cached set, empty included, is never
// refetched within a session: the selection flow must not observe an
// inconsistent view if the backing store changes mid-session.
func (e *Engine) sessionCandidates(ctx context.Context, externalID string, sess session.Session) ([]store.AccountCandidate, error) {
	if cached, ok := CachedCandidates(sess); ok {
		return cached, nil
	}

	candidates, err := e.candidates.FindCandidates(ctx, externalID)
	if err != nil {
		return nil, err
	}

	sess.Put(candidatesSessionKey, candidates)
	e.logger.Debug("cached candidate set",
		"external_id", externalID,
		"count", len(candidates),
		"session_id", sess.ID(),
	)
	return candidates, nil
}

// matchCandidate returns the candidate whose account id equals selected.
// An empty selection never matches.
func matchCandidate(candidates []store.AccountCandidate, selected string) (store.AccountCandidate, bool) {
	if selected == "" {
		return store.AccountCandidate{}, false
	}
	for _, c := range candidates {
		if c.AccountID == selected {
			return c, true
		}
	}
	return store.AccountCandidate{}, false
}

// storedPrincipal returns the session's cached selected principal, if any.
func storedPrincipal(sess session.Session) *Principal {
	v, ok := sess.Get(principalSessionKey)
	if !ok {
		return nil
	}
	p, ok := v.(*Principal)
	if !ok {
		return nil
	}
	return p
}

// CachedCandidates returns the session's cached candidate set and whether
// one has been cached. Used by the login page to present the choices.
func CachedCandidates(sess session.Session) ([]store.AccountCandidate, bool) {
	v, ok := sess.Get(candidatesSessionKey)
	if !ok {
		return nil, false
	}
	candidates, ok := v.([]store.AccountCandidate)
	if !ok {
		return nil, false
	}
	return candidates, true
}
