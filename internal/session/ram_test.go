// ABOUTME: Tests for the RAM session server
// ABOUTME: Covers create/get roundtrip, keyed storage, expiry, and lazy purge

package session

import (
	"errors"
	"testing"
	"time"
)

func TestRAMServer_CreateAndGet(t *testing.T) {
	server := NewRAMServer(time.Hour)

	sess, err := server.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.ID() == "" {
		t.Fatal("expected non-empty session id")
	}

	got, err := server.Get(sess.ID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID() != sess.ID() {
		t.Errorf("expected session %q, got %q", sess.ID(), got.ID())
	}
}

func TestRAMServer_GetUnknownID(t *testing.T) {
	server := NewRAMServer(time.Hour)

	_, err := server.Get("no-such-session")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRAMServer_UniqueIDs(t *testing.T) {
	server := NewRAMServer(time.Hour)

	a, _ := server.Create()
	b, _ := server.Create()
	if a.ID() == b.ID() {
		t.Error("expected distinct session ids")
	}
}

func TestSession_KeyedStorage(t *testing.T) {
	server := NewRAMServer(time.Hour)
	sess, _ := server.Create()

	if _, ok := sess.Get("principal"); ok {
		t.Error("expected no value before Put")
	}

	sess.Put("principal", "A2")
	v, ok := sess.Get("principal")
	if !ok || v != "A2" {
		t.Errorf("expected 'A2', got %v (present=%v)", v, ok)
	}

	sess.Put("principal", "A3")
	v, _ = sess.Get("principal")
	if v != "A3" {
		t.Errorf("expected last-write-wins 'A3', got %v", v)
	}

	sess.Delete("principal")
	if _, ok := sess.Get("principal"); ok {
		t.Error("expected no value after Delete")
	}
}

func TestRAMServer_Expiry(t *testing.T) {
	server := NewRAMServer(time.Minute)

	current := time.Now()
	server.now = func() time.Time { return current }

	sess, _ := server.Create()

	// Still live just before the deadline
	current = current.Add(59 * time.Second)
	if _, err := server.Get(sess.ID()); err != nil {
		t.Fatalf("expected live session, got %v", err)
	}

	// Expired past the deadline
	current = current.Add(2 * time.Second)
	if _, err := server.Get(sess.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRAMServer_LazyPurge(t *testing.T) {
	server := NewRAMServer(time.Minute)

	current := time.Now()
	server.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if _, err := server.Create(); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if server.Len() != 3 {
		t.Fatalf("expected 3 sessions, got %d", server.Len())
	}

	// All three expire; the next Create purges them
	current = current.Add(2 * time.Minute)
	if _, err := server.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if server.Len() != 1 {
		t.Errorf("expected 1 session after purge, got %d", server.Len())
	}
}
