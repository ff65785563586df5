package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		s.Close()
	}
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	_, err := OpenSQLite("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestSQLite_PutGetRoundTrip(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	if err := s.Put(ctx, "org/acme/responses", []byte(`{"AC-1":{}}`)); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	got, err := s.Get(ctx, "org/acme/responses")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != `{"AC-1":{}}` {
		t.Errorf("Get() = %q, want %q", got, `{"AC-1":{}}`)
	}
}

func TestSQLite_PutReplacesValue(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("first Put() failed: %v", err)
	}
	if err := s.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("second Put() failed: %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get() = %q, want v2", got)
	}
}

func TestSQLite_GetMissingKey(t *testing.T) {
	s := openTestSQLite(t)

	_, err := s.Get(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSQLite_DeleteIsIdempotent(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.Delete(ctx, "k"); err != nil {
			t.Fatalf("Delete() iteration %d failed: %v", i, err)
		}
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}

func TestSQLite_KeysPrefixFilter(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	for _, k := range []string{"org/a/responses", "org/a/evidence", "org/b/responses", "ui/state"} {
		if err := s.Put(ctx, k, []byte("x")); err != nil {
			t.Fatalf("Put(%q) failed: %v", k, err)
		}
	}

	keys, err := s.Keys(ctx, "org/a/")
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	want := []string{"org/a/evidence", "org/a/responses"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestSQLite_KeysWithUnderscorePrefix(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	// Underscore is a LIKE metacharacter; the prefix filter must treat
	// it literally.
	if err := s.Put(ctx, "custom_controls", []byte("x")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.Put(ctx, "customXcontrols", []byte("x")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	keys, err := s.Keys(ctx, "custom_")
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "custom_controls" {
		t.Errorf("Keys() = %v, want [custom_controls]", keys)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	if err := s1.Put(ctx, "k", []byte("durable")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	s1.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() after reopen failed: %v", err)
	}
	if string(got) != "durable" {
		t.Errorf("Get() = %q, want durable", got)
	}
}

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
