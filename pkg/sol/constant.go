package sol

import "github.com/gagliardetto/solana-go"

var (
	WSOL      = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	NativeSOL = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")

	TokenAccountSize = uint64(165)
)

const (
	// Rent-exemption minimum for a 165-byte SPL token account, in lamports.
	TokenAccountRentExemptLamports = uint64(2_039_280)

	// Compute budget applied to every assembled swap transaction.
	ComputeUnitLimit = uint32(120_000)
	ComputeUnitPrice = uint64(1_000) // micro lamports per CU
)
