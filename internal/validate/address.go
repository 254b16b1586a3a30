package validate

import (
	"fmt"
	"regexp"

	"github.com/mr-tron/base58"

	"github.com/scamshield/scamshield/internal/config"
)

// suiAddressRegex matches a full-length Sui account address (0x + 64 hex chars).
var suiAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Address validates that addr is a well-formed Sui account address.
// Same format on mainnet and testnet.
func Address(addr string) error {
	if !suiAddressRegex.MatchString(addr) {
		return fmt.Errorf("%w: %q must match 0x + 64 hex characters", config.ErrInvalidAddress, addr)
	}
	return nil
}

// TransactionDigest decodes a base58 transaction digest and verifies it is
// exactly 32 bytes.
func TransactionDigest(digest string) error {
	decoded, err := base58.Decode(digest)
	if err != nil {
		return fmt.Errorf("%w: %q: base58 decode failed: %v", config.ErrInvalidDigest, digest, err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("%w: %q decoded to %d bytes, expected 32", config.ErrInvalidDigest, digest, len(decoded))
	}
	return nil
}

// ObjectID validates an on-chain object identifier, which shares the account
// address format.
func ObjectID(id string) error {
	if !suiAddressRegex.MatchString(id) {
		return fmt.Errorf("%w: object id %q must match 0x + 64 hex characters", config.ErrInvalidAddress, id)
	}
	return nil
}
