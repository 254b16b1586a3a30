package wallet

import (
	"crypto/ed25519"
	"fmt"
	"log/slog"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// Signer is a local Sui identity: one derived key pair and its address.
type Signer struct {
	priv    ed25519.PrivateKey
	address string
}

// NewSigner derives the signer at the given account index from a BIP-39 seed.
func NewSigner(seed []byte, index uint32) (*Signer, error) {
	priv, err := DeriveKey(seed, index)
	if err != nil {
		return nil, err
	}
	pub := priv.Public().(ed25519.PublicKey)
	addr := AddressFromPublicKey(pub)

	slog.Debug("signer derived", "path", formatDerivationPath(index), "address", addr)
	return &Signer{priv: priv, address: addr}, nil
}

// Open loads the keystore file and derives the signer at the given index.
func Open(keystorePath string, index uint32) (*Signer, error) {
	mnemonic, err := ReadKeystore(keystorePath)
	if err != nil {
		return nil, err
	}
	seed, err := MnemonicToSeed(mnemonic)
	if err != nil {
		return nil, err
	}
	return NewSigner(seed, index)
}

// Address returns the signer's Sui address (0x + 64 hex characters).
func (s *Signer) Address() string {
	return s.address
}

// PublicKey returns the raw ed25519 public key.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.priv.Public().(ed25519.PublicKey)
}

// Sign signs the message and returns the signature plus the base58 digest of
// the message. The digest is what the platform records as transaction_hash.
func (s *Signer) Sign(message []byte) (signature []byte, digest string, err error) {
	if len(message) == 0 {
		return nil, "", fmt.Errorf("empty message")
	}
	sum := blake2b.Sum256(message)
	sig := ed25519.Sign(s.priv, sum[:])
	return sig, base58.Encode(sum[:]), nil
}

// Verify checks a signature produced by Sign against the message.
func Verify(pub ed25519.PublicKey, message, signature []byte) bool {
	sum := blake2b.Sum256(message)
	return ed25519.Verify(pub, sum[:], signature)
}
