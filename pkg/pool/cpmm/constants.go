package cpmm

import (
	"github.com/gagliardetto/solana-go"
)

// Program IDs
var (
	TOKEN_2022_PROGRAM_ID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

	RAYDIUM_CPMM_PROGRAM_ID = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")

	// PDA of the vault/LP-mint authority, derived from AUTH_SEED under the
	// CPMM program. Every swap instruction references it at slot 1.
	RAYDIUM_CPMM_AUTHORITY = solana.MustPublicKeyFromBase58("GpMZbSM2GgvTKHJirzeGfMFoaZ8UR2X7F4v8vHTvxFbL")
)

// Seeds and Discriminators
var (
	AUTH_SEED                  = "vault_and_lp_mint_auth_seed"
	SwapBaseInputDiscriminator = []byte{143, 190, 90, 218, 196, 30, 51, 222}
)

// Fee and slippage policy
const (
	// The pool's configured fee tier (25-400 bps) lives in the amm config
	// account, which is not fetched. Quotes assume a conservative 1%; the
	// slippage floor absorbs the gap to the actual tier.
	DefaultFeeBps = uint64(100)

	DefaultSlippageBps = uint64(100)

	// Slippage floors in basis points. Thin pools move more per unit trade,
	// so the floor widens when the input-side reserve is below
	// LowLiquidityThreshold (0.1 SOL in lamports).
	SlippageFloorBps             = uint64(500)
	LowLiquiditySlippageFloorBps = uint64(1500)
	LowLiquidityThreshold        = uint64(100_000_000)
)
