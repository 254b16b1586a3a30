package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	slip10Curve    = "ed25519 seed"
	hardenedOffset = uint32(0x80000000)

	// Sui flags ed25519 public keys with 0x00 before hashing.
	ed25519SchemeFlag = 0x00

	suiCoinType = uint32(784)
)

// slip10Key holds a SLIP-10 ed25519 key pair (private key seed + chain code).
type slip10Key struct {
	key       []byte // 32 bytes — raw ed25519 seed
	chainCode []byte // 32 bytes
}

// DeriveKey derives the ed25519 private key for the given account index.
// Path: m/44'/784'/N'/0'/0' (all hardened, Sui wallet standard).
func DeriveKey(seed []byte, index uint32) (ed25519.PrivateKey, error) {
	if len(seed) != 64 {
		return nil, fmt.Errorf("expected 64-byte seed, got %d: %w", len(seed), ErrDerivation)
	}

	// SLIP-10 master key: HMAC-SHA512(Key="ed25519 seed", Data=BIP39 seed)
	mac := hmac.New(sha512.New, []byte(slip10Curve))
	mac.Write(seed)
	I := mac.Sum(nil)

	current := slip10Key{
		key:       I[:32],
		chainCode: I[32:],
	}

	segments := []uint32{
		44 + hardenedOffset,
		suiCoinType + hardenedOffset,
		index + hardenedOffset,
		0 + hardenedOffset,
		0 + hardenedOffset,
	}
	for _, seg := range segments {
		current = slip10DeriveChild(current, seg)
	}

	return ed25519.NewKeyFromSeed(current.key), nil
}

// DeriveAddress derives the Sui address for the given account index:
// 0x followed by the hex blake2b-256 of the flagged public key.
func DeriveAddress(seed []byte, index uint32) (string, error) {
	priv, err := DeriveKey(seed, index)
	if err != nil {
		return "", err
	}
	pub := priv.Public().(ed25519.PublicKey)
	return AddressFromPublicKey(pub), nil
}

// AddressFromPublicKey computes the Sui address of an ed25519 public key:
// blake2b-256 over the scheme flag byte followed by the key bytes.
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	data := make([]byte, 0, 1+ed25519.PublicKeySize)
	data = append(data, ed25519SchemeFlag)
	data = append(data, pub...)
	sum := blake2b.Sum256(data)
	return "0x" + hex.EncodeToString(sum[:])
}

// slip10DeriveChild performs SLIP-10 hardened child key derivation for ed25519.
// data = 0x00 || parent_key (32 bytes) || index (4 bytes big-endian)
func slip10DeriveChild(parent slip10Key, index uint32) slip10Key {
	data := make([]byte, 0, 37) // 1 + 32 + 4
	data = append(data, 0x00)
	data = append(data, parent.key...)

	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], index)
	data = append(data, indexBytes[:]...)

	mac := hmac.New(sha512.New, parent.chainCode)
	mac.Write(data)
	I := mac.Sum(nil)

	return slip10Key{
		key:       I[:32],
		chainCode: I[32:],
	}
}

// formatDerivationPath returns the derivation path string for logging.
func formatDerivationPath(index uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/0'/0'", suiCoinType, index)
}
