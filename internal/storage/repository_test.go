package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fintrack.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer repo.Close()

	if _, ok, err := repo.Get(ctx, "transactions"); err != nil || ok {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}

	if err := repo.Set(ctx, "transactions", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := repo.Get(ctx, "transactions")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(data) != `[{"id":"1"}]` {
		t.Fatalf("unexpected value: %s", data)
	}

	// Upsert replaces the value in place.
	if err := repo.Set(ctx, "transactions", []byte(`[]`)); err != nil {
		t.Fatalf("second set: %v", err)
	}
	data, _, _ = repo.Get(ctx, "transactions")
	if string(data) != `[]` {
		t.Fatalf("upsert did not replace value: %s", data)
	}

	if err := repo.Remove(ctx, "transactions"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "transactions"); ok {
		t.Fatalf("expected key removed")
	}
	// Removing an absent key is not an error.
	if err := repo.Remove(ctx, "transactions"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestSQLiteRepositoryReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fintrack.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	if err := repo.Set(ctx, "session", []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("reopen repository: %v", err)
	}
	defer reopened.Close()

	data, ok, err := reopened.Get(ctx, "session")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(data) != `{"id":"1"}` {
		t.Fatalf("unexpected value after reopen: %s", data)
	}
}
