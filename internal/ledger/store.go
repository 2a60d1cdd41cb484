package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

// DefaultRecentLimit is how many entries Recent returns when the
// caller does not ask for a specific count.
const DefaultRecentLimit = 5

var ErrNotAuthorized = errors.New("owner does not match the active session")

type (
	// SessionSource exposes the active session to the store for
	// ownership checks.
	SessionSource interface {
		Current() (core.Session, bool)
	}

	// EventPublisher receives a notification after a transaction is
	// durably added. Optional; a nil publisher disables events.
	EventPublisher interface {
		PublishTransactionAdded(ctx context.Context, tx core.Transaction) error
	}
)

// Store owns the full transaction ledger. Every mutation rewrites the
// serialized ledger under the "transactions" key before it becomes
// visible, so reads never observe an entry the durable copy lacks.
type Store struct {
	sessions  SessionSource
	store     kv.Store
	publisher EventPublisher

	mu      sync.Mutex
	entries []core.Transaction // insertion order
	lastID  int64
}

// Open loads the persisted ledger. When no ledger has ever been
// persisted, the fixed seed ledger is installed and written out.
func Open(ctx context.Context, store kv.Store, sessions SessionSource, publisher EventPublisher) (*Store, error) {
	s := &Store{
		sessions:  sessions,
		store:     store,
		publisher: publisher,
	}

	data, ok, err := store.Get(ctx, kv.KeyTransactions)
	if err != nil {
		return nil, fmt.Errorf("read persisted ledger: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &s.entries); err != nil {
			return nil, fmt.Errorf("decode persisted ledger: %w", err)
		}
		slog.InfoContext(ctx, "Ledger loaded", "transactions", len(s.entries))
	} else {
		s.entries = SeedTransactions()
		if err := s.persist(ctx); err != nil {
			return nil, fmt.Errorf("install seed ledger: %w", err)
		}
		slog.InfoContext(ctx, "Seed ledger installed", "transactions", len(s.entries))
	}

	for _, tx := range s.entries {
		if id, err := strconv.ParseInt(tx.ID, 10, 64); err == nil && id > s.lastID {
			s.lastID = id
		}
	}
	return s, nil
}

// Add appends a transaction owned by ownerID. The owner must match the
// active session; a zero date defaults to now. The full ledger is
// persisted before the entry becomes visible, and the in-memory append
// is rolled back if that write fails.
func (s *Store) Add(ctx context.Context, ownerID string, amount float64, txType core.TxType, category, description string, date time.Time) (core.Transaction, error) {
	sess, ok := s.sessions.Current()
	if !ok || sess.ID != ownerID {
		return core.Transaction{}, ErrNotAuthorized
	}

	if date.IsZero() {
		date = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := core.Transaction{
		ID:          s.nextID(),
		UserID:      ownerID,
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Description: description,
		Date:        date,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.entries = append(s.entries, tx)
	if err := s.persist(ctx); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		return core.Transaction{}, fmt.Errorf("persist ledger: %w", err)
	}

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"user_id", tx.UserID,
		"type", tx.Type.String(),
		"category", tx.Category,
		"amount", tx.Amount)

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionAdded(ctx, tx); err != nil {
			// The entry is already durable; events are best effort.
			slog.ErrorContext(ctx, "Failed to publish transaction event", "error", err, "id", tx.ID)
		}
	}

	return tx, nil
}

// All returns the full ledger sorted by date descending, ties broken
// by insertion order descending.
func (s *Store) All() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedView(s.entries)
}

// ForOwner returns All filtered to the given owner.
func (s *Store) ForOwner(ownerID string) []core.Transaction {
	all := s.All()
	out := make([]core.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.UserID == ownerID {
			out = append(out, tx)
		}
	}
	return out
}

// Recent returns the first limit entries of ForOwner. Without an
// active session it returns an empty sequence rather than failing.
func (s *Store) Recent(ownerID string, limit int) []core.Transaction {
	if _, ok := s.sessions.Current(); !ok {
		return []core.Transaction{}
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	owned := s.ForOwner(ownerID)
	if len(owned) > limit {
		owned = owned[:limit]
	}
	return owned
}

// Reset replaces the ledger with the seed data and persists it.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.entries
	s.entries = SeedTransactions()
	if err := s.persist(ctx); err != nil {
		s.entries = previous
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// nextID derives a strictly increasing wall-clock token. Callers hold
// the store lock.
func (s *Store) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// persist rewrites the whole serialized ledger. Callers hold the lock.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	return s.store.Set(ctx, kv.KeyTransactions, data)
}

// sortedView copies entries newest-insertion-first, then stable-sorts
// by date descending so ties keep descending insertion order.
func sortedView(entries []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(entries))
	for i, tx := range entries {
		out[len(entries)-1-i] = tx
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
