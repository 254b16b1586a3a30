// Package session holds the single source of truth for "is a wallet
// connected and what is its address", surviving restarts via durable storage.
package session

import (
	"log/slog"
	"sync"

	"github.com/scamshield/scamshield/internal/config"
)

// Storage is the durable persistence layer consumed by the store.
// *storage.Store satisfies it; tests use an in-memory map.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Subscriber is notified after every session mutation.
type Subscriber func(address string, connected bool)

// Store owns the wallet session. It is injectable rather than a package-level
// singleton so the core stays testable without global state. All pages read
// it; only the wallet collaborator and the API client's 401 handler write.
type Store struct {
	mu       sync.RWMutex
	address  string
	hydrated bool
	storage  Storage
	subs     []Subscriber
}

// NewStore creates an empty, not-yet-hydrated session store.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Hydrate loads the persisted wallet address. Until this has run, readers see
// "not connected" — the hydration race is resolved by treating unhydrated the
// same as disconnected. Calling Hydrate more than once is harmless.
func (s *Store) Hydrate() error {
	addr, err := s.storage.Get(config.SettingWalletAddress)
	if err != nil {
		// Mark hydrated anyway: a broken storage read must not leave every
		// reader stuck in the pre-hydration state forever.
		s.mu.Lock()
		s.hydrated = true
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if s.address == "" {
		s.address = addr
	}
	s.hydrated = true
	address, connected := s.address, s.address != ""
	s.mu.Unlock()

	slog.Debug("session hydrated", "connected", connected)
	s.notify(address, connected)
	return nil
}

// Hydrated reports whether the persisted value has been loaded.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// SetAddress sets the current wallet address. Non-empty addresses are
// persisted; empty input removes the persisted value. The operation itself
// never fails — persistence errors are logged and the in-memory state wins.
func (s *Store) SetAddress(address string) {
	s.mu.Lock()
	s.address = address
	s.hydrated = true
	s.mu.Unlock()

	if address != "" {
		if err := s.storage.Set(config.SettingWalletAddress, address); err != nil {
			slog.Warn("failed to persist wallet address", "error", err)
		}
	} else {
		if err := s.storage.Delete(config.SettingWalletAddress); err != nil {
			slog.Warn("failed to remove persisted wallet address", "error", err)
		}
	}

	slog.Info("wallet session updated", "connected", address != "")
	s.notify(address, address != "")
}

// Clear disconnects the wallet, removing the persisted address. Used on
// explicit disconnect and on authentication failure from the remote API.
func (s *Store) Clear() {
	s.SetAddress("")
}

// Address returns the current wallet address, or "" when disconnected or not
// yet hydrated.
func (s *Store) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hydrated {
		return ""
	}
	return s.address
}

// Connected is exactly Address() != "" — never tracked independently.
func (s *Store) Connected() bool {
	return s.Address() != ""
}

// WalletAddress implements the API client's identity interface.
func (s *Store) WalletAddress() string {
	return s.Address()
}

// Subscribe registers a callback invoked after every mutation. Callbacks run
// on the mutating goroutine; keep them cheap.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify(address string, connected bool) {
	s.mu.RLock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(address, connected)
	}
}
