// Package wallet manages the local Sui identity: a BIP-39 mnemonic stored in
// a keystore file, SLIP-10 ed25519 key derivation, and the blake2b address
// scheme Sui wallets use.
package wallet

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// GenerateMnemonic creates a fresh 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic validates a BIP-39 mnemonic phrase (must be 24 words).
func ValidateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return fmt.Errorf("validate mnemonic: %w", ErrInvalidMnemonic)
	}

	words := strings.Fields(mnemonic)
	if len(words) != 24 {
		return fmt.Errorf("expected 24-word mnemonic, got %d words: %w", len(words), ErrInvalidMnemonic)
	}
	return nil
}

// MnemonicToSeed converts a BIP-39 mnemonic to a 64-byte seed (empty passphrase).
func MnemonicToSeed(mnemonic string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("mnemonic to seed: %w", err)
	}
	return seed, nil
}

// ReadKeystore reads the mnemonic from the keystore file, trims whitespace,
// and validates it.
func ReadKeystore(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("keystore %q: %w", path, ErrNoKeystore)
		}
		return "", fmt.Errorf("read keystore %q: %w", path, err)
	}

	mnemonic := strings.TrimSpace(string(data))
	if mnemonic == "" {
		return "", fmt.Errorf("keystore %q is empty: %w", path, ErrInvalidMnemonic)
	}

	if err := ValidateMnemonic(mnemonic); err != nil {
		return "", fmt.Errorf("keystore %q: %w", path, err)
	}
	return mnemonic, nil
}

// WriteKeystore writes the mnemonic to path with owner-only permissions.
// It refuses to overwrite an existing keystore.
func WriteKeystore(path, mnemonic string) error {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("keystore %q already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create keystore dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(mnemonic+"\n"), 0o600); err != nil {
		return fmt.Errorf("write keystore %q: %w", path, err)
	}
	slog.Info("keystore written", "path", path)
	return nil
}
