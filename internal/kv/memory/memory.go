package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a mutex-guarded in-memory key-value store. When constructed
// with a data directory it snapshots every key to <dir>/<key>.json and
// reloads the snapshots at startup, so restores survive a restart even
// without a database backend.
type Store struct {
	mu    sync.Mutex
	items map[string][]byte
	dir   string
}

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

// NewFromDir loads existing snapshots from base and persists future
// writes there. Unreadable snapshot files are skipped.
func NewFromDir(base string) *Store {
	s := &Store{items: make(map[string][]byte), dir: base}
	entries, err := os.ReadDir(base)
	if err != nil {
		return s
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(base, e.Name()))
		if err != nil {
			continue
		}
		s.items[strings.TrimSuffix(e.Name(), ".json")] = data
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	out := append([]byte(nil), data...)
	return out, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != "" {
		if err := s.writeSnapshot(key, value); err != nil {
			return err
		}
	}
	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != "" {
		if err := os.Remove(s.snapshotPath(key)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove snapshot %s: %w", key, err)
		}
	}
	delete(s.items, key)
	return nil
}

// writeSnapshot writes to a temp file and renames it over the snapshot
// so a crash mid-write never corrupts the previous copy.
func (s *Store) writeSnapshot(key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	path := s.snapshotPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Store) snapshotPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}
