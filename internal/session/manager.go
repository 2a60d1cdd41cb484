package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/accounts"
	"fintrack/internal/core"
	"fintrack/internal/kv"
)

// State is the manager's position in the auth state machine.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Result reports a login or registration outcome to the caller. Auth
// failures are results, not errors; there is no retry policy here.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Manager validates credentials against an injected registry, owns the
// single active session, and mirrors it to the persistence service
// under the "session" key.
//
// Login and Register block on a configured latency to model the lookup
// as a suspend point. Overlapping calls are not linearized; the last
// completed write wins the final session value.
type Manager struct {
	registry *accounts.Registry
	store    kv.Store
	latency  time.Duration

	mu      sync.Mutex
	state   State
	current *core.Session
}

func NewManager(registry *accounts.Registry, store kv.Store, latency time.Duration) *Manager {
	return &Manager{
		registry: registry,
		store:    store,
		latency:  latency,
	}
}

// Login resolves the credentials after the simulated latency. On a
// match the secret is stripped, the session is set and persisted.
// On no match the manager returns to Unauthenticated.
func (m *Manager) Login(ctx context.Context, email, secret string) Result {
	m.setState(Authenticating)

	if err := m.wait(ctx); err != nil {
		m.rollbackState()
		return Result{Message: "login cancelled"}
	}

	account, ok := m.registry.FindByEmailAndSecret(email, secret)
	if !ok {
		m.rollbackState()
		slog.WarnContext(ctx, "Login failed", "email", email)
		return Result{Message: "invalid email or password"}
	}

	sess := core.SessionFromAccount(account)
	m.adopt(ctx, sess)
	slog.InfoContext(ctx, "Login succeeded", "user_id", sess.ID, "email", sess.Email)
	return Result{OK: true, Message: "logged in"}
}

// Register creates the account and signs it in, unless the email is
// already taken. The existence check runs before Create; the registry
// itself does not reject duplicates.
func (m *Manager) Register(ctx context.Context, name, email, secret string) Result {
	m.setState(Authenticating)

	if err := m.wait(ctx); err != nil {
		m.rollbackState()
		return Result{Message: "registration cancelled"}
	}

	if err := core.ValidateRegistration(name, email, secret); err != nil {
		m.rollbackState()
		return Result{Message: err.Error()}
	}
	if m.registry.ExistsByEmail(email) {
		m.rollbackState()
		slog.WarnContext(ctx, "Registration rejected, email taken", "email", email)
		return Result{Message: "an account with this email already exists"}
	}

	account := m.registry.Create(name, email, secret)
	sess := core.SessionFromAccount(account)
	m.adopt(ctx, sess)
	slog.InfoContext(ctx, "Account registered", "user_id", sess.ID, "email", sess.Email)
	return Result{OK: true, Message: "account created"}
}

// Restore adopts a persisted session at startup without re-validating
// credentials. Trust-on-read: no expiry, no signature check.
func (m *Manager) Restore(ctx context.Context) error {
	data, ok, err := m.store.Get(ctx, kv.KeySession)
	if err != nil {
		return fmt.Errorf("read persisted session: %w", err)
	}
	if !ok {
		return nil
	}

	var sess core.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("decode persisted session: %w", err)
	}

	m.mu.Lock()
	m.current = &sess
	m.state = Authenticated
	m.mu.Unlock()

	slog.InfoContext(ctx, "Session restored", "user_id", sess.ID, "email", sess.Email)
	return nil
}

// Logout clears the session and its persisted copy. Always succeeds;
// a persistence error is logged, not surfaced.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.current = nil
	m.state = Unauthenticated
	m.mu.Unlock()

	if err := m.store.Remove(ctx, kv.KeySession); err != nil {
		slog.ErrorContext(ctx, "Failed to clear persisted session", "error", err)
	}
	slog.InfoContext(ctx, "Logged out")
}

// Current returns the active session, if any.
func (m *Manager) Current() (core.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return core.Session{}, false
	}
	return *m.current, true
}

// State returns the manager's current auth state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// adopt sets the in-memory session, then mirrors it to the store. A
// failed write keeps the in-memory session; the next successful write
// re-converges the persisted copy.
func (m *Manager) adopt(ctx context.Context, sess core.Session) {
	m.mu.Lock()
	m.current = &sess
	m.state = Authenticated
	m.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode session", "error", err)
		return
	}
	if err := m.store.Set(ctx, kv.KeySession, data); err != nil {
		slog.ErrorContext(ctx, "Failed to persist session", "error", err, "user_id", sess.ID)
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// rollbackState leaves Authenticating without touching an already
// established session (a failed login must not log the user out).
func (m *Manager) rollbackState() {
	m.mu.Lock()
	if m.current != nil {
		m.state = Authenticated
	} else {
		m.state = Unauthenticated
	}
	m.mu.Unlock()
}

// wait models the credential lookup as a suspend point.
func (m *Manager) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
