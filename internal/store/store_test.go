package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKey_Deterministic(t *testing.T) {
	a := Key("snippet", "groq", "model-a", "code")
	b := Key("snippet", "groq", "model-a", "code")
	if a != b {
		t.Error("Expected identical inputs to produce identical keys")
	}
	if len(a) != 64 {
		t.Errorf("Expected hex sha256 key, got length %d", len(a))
	}

	if Key("snippet", "groq", "model-b", "code") == a {
		t.Error("Expected model change to change the key")
	}
	if Key("readme", "groq", "model-a", "code") == a {
		t.Error("Expected kind change to change the key")
	}
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)

	key := Key("snippet", "groq", "m", "input")
	if err := s.Put("snippet", key, "groq", "m", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	payload, ok, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if string(payload) != `{"x":1}` {
		t.Errorf("Unexpected payload: %s", payload)
	}
}

func TestStore_Miss(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get(Key("snippet", "groq", "m", "never stored"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected cache miss")
	}
}

func TestStore_PurgeAndStats(t *testing.T) {
	s := openTestStore(t)

	for i, kind := range []string{"snippet", "snippet", "readme"} {
		key := Key(kind, "groq", "m", string(rune('a'+i)))
		if err := s.Put(kind, key, "groq", "m", []byte("{}")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	stats, err := s.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Expected 3 runs, got %d", stats.Total)
	}
	if stats.ByKind["snippet"] != 2 || stats.ByKind["readme"] != 1 {
		t.Errorf("Unexpected per-kind counts: %v", stats.ByKind)
	}

	n, err := s.Purge()
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 deleted, got %d", n)
	}

	stats, err = s.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("Expected empty cache after purge, got %d", stats.Total)
	}
}

func TestOpen_DBError(t *testing.T) {
	orig := openDB
	openDB = func(driverName, dataSourceName string) (*sql.DB, error) {
		return nil, errors.New("injected failure")
	}
	t.Cleanup(func() { openDB = orig })

	_, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err == nil {
		t.Error("Expected error when the database cannot be opened")
	}
}
