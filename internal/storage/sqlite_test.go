package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scamshield/scamshield/internal/config"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.sqlite")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("expected database file to be created")
	}

	var mode string
	if err := s.Conn().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("failed to query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected journal_mode=wal, got %q", mode)
	}
}

func TestOpenIdempotentMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.Close()

	// Re-opening must not re-apply migrations.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer s2.Close()
}

func TestGetMissingKey(t *testing.T) {
	s := setupTestStore(t)

	val, err := s.Get(config.SettingWalletAddress)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "" {
		t.Errorf("Get() on missing key = %q, want empty", val)
	}
}

func TestSetAndGet(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Set(config.SettingWalletAddress, "0xabc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	val, err := s.Get(config.SettingWalletAddress)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "0xabc" {
		t.Errorf("Get() = %q, want %q", val, "0xabc")
	}

	// Upsert overwrites.
	if err := s.Set(config.SettingWalletAddress, "0xdef"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, _ = s.Get(config.SettingWalletAddress)
	if val != "0xdef" {
		t.Errorf("Get() after upsert = %q, want %q", val, "0xdef")
	}
}

func TestDelete(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Set("dark_mode", "true"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("dark_mode"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	val, err := s.Get("dark_mode")
	if err != nil {
		t.Fatal(err)
	}
	if val != "" {
		t.Errorf("Get() after Delete() = %q, want empty", val)
	}

	// Deleting a missing key is fine.
	if err := s.Delete("dark_mode"); err != nil {
		t.Errorf("Delete() on missing key error = %v", err)
	}
}

func TestGetAll(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Set("wallet_address", "0xabc"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("dark_mode", "true"); err != nil {
		t.Fatal(err)
	}

	all, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("GetAll() returned %d entries, want 2", len(all))
	}
	if all["wallet_address"] != "0xabc" || all["dark_mode"] != "true" {
		t.Errorf("GetAll() = %v, unexpected values", all)
	}
}
