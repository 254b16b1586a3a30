package api

import (
	"log/slog"

	"github.com/scamshield/scamshield/internal/config"
)

// Identity supplies the wallet address attached to outgoing requests.
// The session store is the primary implementation.
type Identity interface {
	WalletAddress() string
}

// IdentityFunc adapts a plain function to the Identity interface.
type IdentityFunc func() string

func (f IdentityFunc) WalletAddress() string { return f() }

// StorageReader is the slice of durable storage the fallback identity needs.
type StorageReader interface {
	Get(key string) (string, error)
}

// FallbackIdentity reads the primary identity first and falls back to durable
// storage when the primary has nothing — which covers the window before the
// session store has hydrated its persisted value.
type FallbackIdentity struct {
	Primary Identity
	Storage StorageReader
}

// WalletAddress returns the primary address, or the persisted one when the
// primary is empty.
func (f FallbackIdentity) WalletAddress() string {
	if f.Primary != nil {
		if addr := f.Primary.WalletAddress(); addr != "" {
			return addr
		}
	}
	if f.Storage == nil {
		return ""
	}
	addr, err := f.Storage.Get(config.SettingWalletAddress)
	if err != nil {
		slog.Warn("identity fallback storage read failed", "error", err)
		return ""
	}
	return addr
}
