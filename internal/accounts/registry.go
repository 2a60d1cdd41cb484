package accounts

import (
	"strconv"
	"sync"

	"fintrack/internal/core"
)

// Registry is the credential store: the in-memory collection of account
// records and its sole writer. It is handed to the session manager by
// reference instead of living in package-global state, so tests and
// multiple processes can hold independent registries.
//
// Accounts are not persisted; only the session survives a restart.
type Registry struct {
	mu       sync.Mutex
	accounts []core.Account
}

// NewRegistry builds a registry pre-populated with seed accounts.
func NewRegistry(seed ...core.Account) *Registry {
	r := &Registry{}
	r.accounts = append(r.accounts, seed...)
	return r
}

// FindByEmailAndSecret returns the account matching both fields
// exactly, or ok=false when there is no match.
func (r *Registry) FindByEmailAndSecret(email, secret string) (core.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email && a.Secret == secret {
			return a, true
		}
	}
	return core.Account{}, false
}

func (r *Registry) ExistsByEmail(email string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return true
		}
	}
	return false
}

// Create appends a new non-admin account. The id is one greater than
// the current registry size, rendered as a string. Callers must check
// ExistsByEmail first; Create itself does not reject duplicates.
func (r *Registry) Create(name, email, secret string) core.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := core.Account{
		ID:      strconv.Itoa(len(r.accounts) + 1),
		Name:    name,
		Email:   email,
		Secret:  secret,
		IsAdmin: false,
	}
	r.accounts = append(r.accounts, a)
	return a
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// DefaultSeed returns the demo account the seed ledger belongs to.
func DefaultSeed() []core.Account {
	return []core.Account{
		{ID: "1", Name: "Demo User", Email: "demo@fintrack.local", Secret: "demo123", IsAdmin: false},
	}
}
