package sol

import (
	"crypto/rand"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/mr-tron/base58"
)

// SeedSource produces a fresh seed string for ephemeral account derivation.
// It must never return the same seed twice for the same payer: a reused
// seed derives a colliding account address across concurrent builds.
type SeedSource func() (string, error)

// RandomSeedSource returns 16 random bytes base58-encoded (well under the
// 32-character seed limit).
func RandomSeedSource() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate account seed: %w", err)
	}
	return base58.Encode(buf), nil
}

// EphemeralWSOLAccount is a throwaway wrapped-SOL holding account that lives
// for exactly one transaction: created and initialized before the swap,
// closed after it so principal and rent return to the payer.
type EphemeralWSOLAccount struct {
	Address  solana.PublicKey
	Seed     string
	CreateIx solana.Instruction
	InitIx   solana.Instruction
}

// OpenEphemeralWSOLAccount derives a seed-based account for payer and builds
// the create+initialize instruction pair. The account is funded with the
// rent-exemption minimum plus amount: pass the trade amount when wrapped SOL
// is the swap input, zero when it only receives swap proceeds.
func OpenEphemeralWSOLAccount(payer solana.PublicKey, amount uint64, seedSource SeedSource) (*EphemeralWSOLAccount, error) {
	if seedSource == nil {
		seedSource = RandomSeedSource
	}
	seed, err := seedSource()
	if err != nil {
		return nil, err
	}

	addr, err := solana.CreateWithSeed(payer, seed, solana.TokenProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive seed account address: %w", err)
	}

	createIx, err := system.NewCreateAccountWithSeedInstruction(
		payer,
		seed,
		TokenAccountRentExemptLamports+amount,
		TokenAccountSize,
		solana.TokenProgramID,
		payer,
		addr,
		payer,
	).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build create account instruction: %w", err)
	}

	initIx, err := token.NewInitializeAccountInstruction(
		addr,
		WSOL,
		payer,
		solana.SysVarRentPubkey,
	).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize account instruction: %w", err)
	}

	return &EphemeralWSOLAccount{
		Address:  addr,
		Seed:     seed,
		CreateIx: createIx,
		InitIx:   initIx,
	}, nil
}

// CloseInstruction returns the remaining lamports (principal plus the rent
// reservation) to payer and deallocates the account. Must run after the swap
// instruction so swap proceeds are included.
func (e *EphemeralWSOLAccount) CloseInstruction(payer solana.PublicKey) (solana.Instruction, error) {
	closeIx, err := token.NewCloseAccountInstruction(
		e.Address,
		payer,
		payer,
		[]solana.PublicKey{},
	).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build close account instruction: %w", err)
	}
	return closeIx, nil
}
