package sol

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// FindAssociatedTokenAddressWithProgram derives the ATA PDA for (owner, mint)
// under a specific token program. The stock helper assumes the legacy token
// program; token-2022 mints need their own program in the seeds.
func FindAssociatedTokenAddressWithProgram(
	owner solana.PublicKey,
	mint solana.PublicKey,
	tokenProgram solana.PublicKey,
) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		owner[:],
		tokenProgram[:],
		mint[:],
	},
		solana.SPLAssociatedTokenAccountProgramID,
	)
}

// NewCreateIdempotentATAInstruction builds an associated-token-account
// CreateIdempotent instruction: a no-op when the ATA already exists, so it
// can be included unconditionally.
//
// Account order (ATA program):
// 0. payer (signer, writable)
// 1. ata (writable)
// 2. owner
// 3. mint
// 4. system_program
// 5. token_program
func NewCreateIdempotentATAInstruction(
	payer solana.PublicKey,
	owner solana.PublicKey,
	mint solana.PublicKey,
	tokenProgram solana.PublicKey,
) (solana.Instruction, solana.PublicKey, error) {
	ata, _, err := FindAssociatedTokenAddressWithProgram(owner, mint, tokenProgram)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("failed to derive associated token address: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: ata, IsSigner: false, IsWritable: true},
		{PublicKey: owner, IsSigner: false, IsWritable: false},
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: tokenProgram, IsSigner: false, IsWritable: false},
	}

	// Instruction discriminator 1 = CreateIdempotent
	return solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, accounts, []byte{1}), ata, nil
}
