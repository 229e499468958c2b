package sol

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// LoadPrivateKey parses a base58-encoded 64-byte ed25519 keypair, the format
// most wallets export. Only the demo entry point uses this; the SDK itself
// never touches key material.
func LoadPrivateKey(encoded string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("private key is not valid base58: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("private key must be 64 bytes, got %d", len(raw))
	}
	return solana.PrivateKey(raw), nil
}
