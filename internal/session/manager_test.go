package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fintrack/internal/accounts"
	"fintrack/internal/core"
	"fintrack/internal/kv"
	"fintrack/internal/kv/memory"
)

func newTestManager() (*Manager, *accounts.Registry, *memory.Store) {
	registry := accounts.NewRegistry(accounts.DefaultSeed()...)
	store := memory.New()
	return NewManager(registry, store, 0), registry, store
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	ctx := context.Background()
	m, _, store := newTestManager()

	res := m.Login(ctx, "demo@fintrack.local", "demo123")
	if !res.OK {
		t.Fatalf("expected login to succeed: %+v", res)
	}
	if m.State() != Authenticated {
		t.Fatalf("expected authenticated state, got %v", m.State())
	}

	sess, ok := m.Current()
	if !ok || sess.ID != "1" || sess.Email != "demo@fintrack.local" {
		t.Fatalf("unexpected session: %+v ok=%v", sess, ok)
	}

	data, ok, err := store.Get(ctx, kv.KeySession)
	if err != nil || !ok {
		t.Fatalf("persisted session missing: ok=%v err=%v", ok, err)
	}
	var persisted core.Session
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("decode persisted session: %v", err)
	}
	if persisted != sess {
		t.Fatalf("persisted session %+v differs from current %+v", persisted, sess)
	}
}

func TestLoginFailureLeavesEverythingUnchanged(t *testing.T) {
	ctx := context.Background()
	m, _, store := newTestManager()

	res := m.Login(ctx, "bad@x.com", "wrong")
	if res.OK {
		t.Fatalf("expected login to fail")
	}
	if res.Message == "" {
		t.Fatalf("expected a user-facing message")
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("session must remain unset")
	}
	if m.State() != Unauthenticated {
		t.Fatalf("expected unauthenticated state, got %v", m.State())
	}
	if _, ok, _ := store.Get(ctx, kv.KeySession); ok {
		t.Fatalf("persisted session key must stay absent")
	}
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager()

	if res := m.Login(ctx, "demo@fintrack.local", "demo123"); !res.OK {
		t.Fatalf("setup login failed: %+v", res)
	}
	if res := m.Login(ctx, "demo@fintrack.local", "wrong"); res.OK {
		t.Fatalf("expected second login to fail")
	}
	if _, ok := m.Current(); !ok {
		t.Fatalf("existing session must survive a failed login")
	}
	if m.State() != Authenticated {
		t.Fatalf("expected authenticated state, got %v", m.State())
	}
}

func TestRegisterCreatesAccountAndSession(t *testing.T) {
	ctx := context.Background()
	m, registry, store := newTestManager()

	res := m.Register(ctx, "Ana", "ana@example.com", "pw")
	if !res.OK {
		t.Fatalf("expected registration to succeed: %+v", res)
	}
	if registry.Len() != 2 {
		t.Fatalf("expected 2 accounts, got %d", registry.Len())
	}
	sess, ok := m.Current()
	if !ok || sess.Email != "ana@example.com" || sess.ID != "2" {
		t.Fatalf("unexpected session: %+v ok=%v", sess, ok)
	}
	if _, ok, _ := store.Get(ctx, kv.KeySession); !ok {
		t.Fatalf("session must be persisted after registration")
	}
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	ctx := context.Background()
	m, registry, _ := newTestManager()

	before := registry.Len()
	res := m.Register(ctx, "Copy", "demo@fintrack.local", "pw")
	if res.OK {
		t.Fatalf("expected duplicate registration to fail")
	}
	if registry.Len() != before {
		t.Fatalf("registry size changed: %d -> %d", before, registry.Len())
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("no session expected after failed registration")
	}
}

func TestRegisterRejectsInvalidFields(t *testing.T) {
	ctx := context.Background()
	m, registry, _ := newTestManager()

	cases := []struct{ name, email, secret string }{
		{"", "a@b.c", "pw"},
		{"Ana", "nope", "pw"},
		{"Ana", "a@b.c", ""},
	}
	for i, tc := range cases {
		if res := m.Register(ctx, tc.name, tc.email, tc.secret); res.OK {
			t.Fatalf("case %d expected failure", i)
		}
	}
	if registry.Len() != 1 {
		t.Fatalf("registry must be untouched, got %d", registry.Len())
	}
}

func TestRestoreAdoptsPersistedSessionWithoutValidation(t *testing.T) {
	ctx := context.Background()
	registry := accounts.NewRegistry()
	store := memory.New()

	// A session whose account the registry has never seen: restore is
	// trust-on-read and must adopt it anyway.
	persisted := core.Session{ID: "42", Name: "Ghost", Email: "ghost@x.com"}
	data, _ := json.Marshal(persisted)
	if err := store.Set(ctx, kv.KeySession, data); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := NewManager(registry, store, 0)
	if err := m.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	sess, ok := m.Current()
	if !ok || sess != persisted {
		t.Fatalf("expected restored session %+v, got %+v ok=%v", persisted, sess, ok)
	}
}

func TestRestoreWithoutPersistedSession(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager()
	if err := m.Restore(ctx); err != nil {
		t.Fatalf("restore with empty store: %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("no session expected")
	}
}

func TestLogoutClearsSessionAndPersistedCopy(t *testing.T) {
	ctx := context.Background()
	m, _, store := newTestManager()

	if res := m.Login(ctx, "demo@fintrack.local", "demo123"); !res.OK {
		t.Fatalf("setup login failed: %+v", res)
	}
	m.Logout(ctx)

	if _, ok := m.Current(); ok {
		t.Fatalf("session must be cleared")
	}
	if m.State() != Unauthenticated {
		t.Fatalf("expected unauthenticated state, got %v", m.State())
	}
	if _, ok, _ := store.Get(ctx, kv.KeySession); ok {
		t.Fatalf("persisted session must be removed")
	}
}

func TestAbandonedLoginReturnsFailure(t *testing.T) {
	registry := accounts.NewRegistry(accounts.DefaultSeed()...)
	m := NewManager(registry, memory.New(), 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := m.Login(ctx, "demo@fintrack.local", "demo123")
	if res.OK {
		t.Fatalf("cancelled login must not succeed")
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("no session expected after cancelled login")
	}
}
