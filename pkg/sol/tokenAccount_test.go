package sol

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestFindAssociatedTokenAddressWithProgram(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	// Matches the stock derivation when the legacy token program is used
	got, _, err := FindAssociatedTokenAddressWithProgram(owner, mint, solana.TokenProgramID)
	require.NoError(t, err)
	want, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// A different token program derives a different address
	other, _, err := FindAssociatedTokenAddressWithProgram(owner, mint, solana.Token2022ProgramID)
	require.NoError(t, err)
	require.NotEqual(t, want, other)
}

func TestNewCreateIdempotentATAInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix, ata, err := NewCreateIdempotentATAInstruction(payer, owner, mint, solana.TokenProgramID)
	require.NoError(t, err)

	want, _, err := FindAssociatedTokenAddressWithProgram(owner, mint, solana.TokenProgramID)
	require.NoError(t, err)
	require.Equal(t, want, ata)

	require.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Equal(t, []byte{1}, data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 6)
	require.Equal(t, payer, accounts[0].PublicKey)
	require.True(t, accounts[0].IsSigner)
	require.True(t, accounts[0].IsWritable)
	require.Equal(t, ata, accounts[1].PublicKey)
	require.True(t, accounts[1].IsWritable)
	require.False(t, accounts[1].IsSigner)
	require.Equal(t, owner, accounts[2].PublicKey)
	require.Equal(t, mint, accounts[3].PublicKey)
	require.Equal(t, solana.SystemProgramID, accounts[4].PublicKey)
	require.Equal(t, solana.TokenProgramID, accounts[5].PublicKey)
}
