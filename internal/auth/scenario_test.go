// ABOUTME: End-to-end scenario test for the full selection flow
// ABOUTME: Drives the session manager + auth middleware chain across one browser session

package auth

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/selectgate/selectgate/internal/session"
	"github.com/selectgate/selectgate/internal/store"
)

// TestSelectionFlow walks one browser session through the canonical flow:
// anonymous dashboard access, a rejected bare login request, a successful
// selection, and a fast-path follow-up that must not touch the repository.
func TestSelectionFlow(t *testing.T) {
	mock := store.NewMockStore()
	mock.AddAccount(store.AccountCandidate{AccountID: "A1", ExternalID: "alice", GroupCode: "1"})
	mock.AddAccount(store.AccountCandidate{AccountID: "A2", ExternalID: "alice", GroupCode: "3"})

	engine := NewEngine(mock, DefaultLoginPath)
	manager := session.NewManager(session.NewRAMServer(time.Hour))

	var lastPrincipal *Principal
	handler := manager.Middleware(Middleware(engine, mock, "")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastPrincipal = FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	))

	var cookies []*http.Cookie
	do := func(target string) *httptest.ResponseRecorder {
		t.Helper()

		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(DefaultExternalIDHeader, "alice")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if fresh := rec.Result().Cookies(); len(fresh) > 0 {
			cookies = fresh
		}
		return rec
	}

	// Request 1: dashboard before selection proceeds as alice with role user
	rec := do("/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("request 1: expected 200, got %d", rec.Code)
	}
	if lastPrincipal.Name() != "alice" || len(lastPrincipal.Roles) != 1 || lastPrincipal.Roles[0] != RoleUser {
		t.Fatalf("request 1: expected anonymous alice with {user}, got %+v", lastPrincipal)
	}

	// Request 2: login without a selection is rejected
	rec = do(DefaultLoginPath)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("request 2: expected 403, got %d", rec.Code)
	}

	// Request 3: selecting A2 authenticates as A2 with {user, admin}
	lastPrincipal = nil
	rec = do(DefaultLoginPath + "?appUserId=A2")
	if rec.Code != http.StatusOK {
		t.Fatalf("request 3: expected 200, got %d", rec.Code)
	}
	if lastPrincipal.AccountID != "A2" {
		t.Fatalf("request 3: expected account A2, got %+v", lastPrincipal)
	}
	gotRoles := append([]string(nil), lastPrincipal.Roles...)
	sort.Strings(gotRoles)
	if len(gotRoles) != 2 || gotRoles[0] != RoleAdmin || gotRoles[1] != RoleUser {
		t.Fatalf("request 3: expected roles {user, admin}, got %v", lastPrincipal.Roles)
	}

	// Request 4: the selection is replayed from the session, no new lookup
	lastPrincipal = nil
	rec = do("/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("request 4: expected 200, got %d", rec.Code)
	}
	if lastPrincipal.AccountID != "A2" || !lastPrincipal.HasRole(RoleAdmin) {
		t.Fatalf("request 4: expected cached A2 principal, got %+v", lastPrincipal)
	}

	if mock.FindCalls() != 1 {
		t.Errorf("expected exactly 1 repository call across the session, got %d", mock.FindCalls())
	}
}

// TestSelectionFlow_SeparateSessions verifies no state bleeds between
// browser sessions: each one pays its own lookup and selection.
func TestSelectionFlow_SeparateSessions(t *testing.T) {
	mock := store.NewMockStore()
	mock.AddAccount(store.AccountCandidate{AccountID: "A1", ExternalID: "alice", GroupCode: "1"})

	engine := NewEngine(mock, DefaultLoginPath)
	manager := session.NewManager(session.NewRAMServer(time.Hour))
	handler := manager.Middleware(Middleware(engine, nil, "")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	))

	// First browser selects A1
	req := httptest.NewRequest(http.MethodGet, DefaultLoginPath+"?appUserId=A1", nil)
	req.Header.Set(DefaultExternalIDHeader, "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first session selection: expected 200, got %d", rec.Code)
	}

	// A second browser (no cookie) is still unselected
	req = httptest.NewRequest(http.MethodGet, DefaultLoginPath, nil)
	req.Header.Set(DefaultExternalIDHeader, "alice")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("second session: expected 403 before selection, got %d", rec.Code)
	}

	if mock.FindCalls() != 2 {
		t.Errorf("expected one lookup per session, got %d", mock.FindCalls())
	}
}
