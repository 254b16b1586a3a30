package session

import (
	"errors"
	"testing"

	"github.com/scamshield/scamshield/internal/config"
)

// memStorage is an in-memory Storage for tests.
type memStorage struct {
	values map[string]string
	getErr error
}

func newMemStorage() *memStorage {
	return &memStorage{values: make(map[string]string)}
}

func (m *memStorage) Get(key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *memStorage) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memStorage) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func TestSetAddressConnects(t *testing.T) {
	st := NewStore(newMemStorage())

	st.SetAddress("0xabc")

	if !st.Connected() {
		t.Error("Connected() = false after SetAddress")
	}
	if got := st.Address(); got != "0xabc" {
		t.Errorf("Address() = %q, want %q", got, "0xabc")
	}
}

func TestSetAddressPersists(t *testing.T) {
	mem := newMemStorage()
	st := NewStore(mem)

	st.SetAddress("0xabc")

	if got := mem.values[config.SettingWalletAddress]; got != "0xabc" {
		t.Errorf("persisted address = %q, want %q", got, "0xabc")
	}
}

func TestClearRemovesPersistedValue(t *testing.T) {
	mem := newMemStorage()
	st := NewStore(mem)

	st.SetAddress("0xabc")
	st.Clear()

	if st.Connected() {
		t.Error("Connected() = true after Clear")
	}
	if _, ok := mem.values[config.SettingWalletAddress]; ok {
		t.Error("expected persisted address to be removed after Clear")
	}
	// A fresh read of durable storage yields no address.
	if v, _ := mem.Get(config.SettingWalletAddress); v != "" {
		t.Errorf("durable storage still holds %q after Clear", v)
	}
}

func TestNotHydratedReadsAsDisconnected(t *testing.T) {
	mem := newMemStorage()
	mem.values[config.SettingWalletAddress] = "0xpersisted"
	st := NewStore(mem)

	// Persisted value exists but hydration has not run yet.
	if st.Connected() {
		t.Error("Connected() = true before hydration")
	}
	if st.Address() != "" {
		t.Errorf("Address() = %q before hydration, want empty", st.Address())
	}
}

func TestHydrateLoadsPersistedAddress(t *testing.T) {
	mem := newMemStorage()
	mem.values[config.SettingWalletAddress] = "0xpersisted"
	st := NewStore(mem)

	if err := st.Hydrate(); err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}

	if !st.Connected() {
		t.Error("Connected() = false after hydration with persisted address")
	}
	if got := st.Address(); got != "0xpersisted" {
		t.Errorf("Address() = %q, want %q", got, "0xpersisted")
	}
}

func TestHydrateDoesNotOverwriteLiveAddress(t *testing.T) {
	mem := newMemStorage()
	mem.values[config.SettingWalletAddress] = "0xstale"
	st := NewStore(mem)

	// Wallet collaborator connected before hydration finished.
	st.SetAddress("0xlive")
	if err := st.Hydrate(); err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}

	if got := st.Address(); got != "0xlive" {
		t.Errorf("Address() = %q after hydration, want live value %q", got, "0xlive")
	}
}

func TestHydrateStorageErrorStillMarksHydrated(t *testing.T) {
	mem := newMemStorage()
	mem.getErr = errors.New("disk gone")
	st := NewStore(mem)

	if err := st.Hydrate(); err == nil {
		t.Fatal("expected Hydrate() to surface the storage error")
	}
	if !st.Hydrated() {
		t.Error("store must be marked hydrated even when the read fails")
	}
	if st.Connected() {
		t.Error("Connected() = true after failed hydration")
	}
}

func TestSubscribersNotified(t *testing.T) {
	st := NewStore(newMemStorage())

	var gotAddr string
	var gotConnected bool
	calls := 0
	st.Subscribe(func(address string, connected bool) {
		gotAddr, gotConnected = address, connected
		calls++
	})

	st.SetAddress("0xabc")
	if calls != 1 || gotAddr != "0xabc" || !gotConnected {
		t.Errorf("after SetAddress: calls=%d addr=%q connected=%v", calls, gotAddr, gotConnected)
	}

	st.Clear()
	if calls != 2 || gotAddr != "" || gotConnected {
		t.Errorf("after Clear: calls=%d addr=%q connected=%v", calls, gotAddr, gotConnected)
	}
}
