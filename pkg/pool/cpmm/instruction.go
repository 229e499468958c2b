package cpmm

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	cosmath "cosmossdk.io/math"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// BuildSwapInstructions constructs the single swap_base_input instruction.
// The caller supplies the token accounts the trade settles through; vault
// and token-program sides come from the pool's stored ordering.
func (p *CPMMPool) BuildSwapInstructions(
	ctx context.Context,
	solClient *rpc.Client,
	user solana.PublicKey,
	inputMint string,
	amountIn cosmath.Int,
	minOut cosmath.Int,
	userInputAccount solana.PublicKey,
	userOutputAccount solana.PublicKey,
) ([]solana.Instruction, error) {
	inputMintKey, err := solana.PublicKeyFromBase58(inputMint)
	if err != nil {
		return nil, fmt.Errorf("invalid input mint: %w", err)
	}
	sides, err := p.ResolveVaults(inputMintKey)
	if err != nil {
		return nil, err
	}

	inst := p.NewSwapBaseInputInstruction(user, sides, userInputAccount, userOutputAccount, amountIn.Uint64(), minOut.Uint64())
	return []solana.Instruction{inst}, nil
}

// NewSwapBaseInputInstruction assembles the instruction with the exact
// 13-entry account list the CPMM program expects.
func (p *CPMMPool) NewSwapBaseInputInstruction(
	payer solana.PublicKey,
	sides SwapSides,
	userInputAccount solana.PublicKey,
	userOutputAccount solana.PublicKey,
	amountIn uint64,
	minimumAmountOut uint64,
) *SwapBaseInputInstruction {
	inst := &SwapBaseInputInstruction{
		AmountIn:         amountIn,
		MinimumAmountOut: minimumAmountOut,
		AccountMetaSlice: make(solana.AccountMetaSlice, 0, 13),
	}
	inst.BaseVariant = bin.BaseVariant{
		Impl: inst,
	}

	inst.AccountMetaSlice = append(inst.AccountMetaSlice,
		solana.NewAccountMeta(payer, true, true),                   // payer (signer, writable)
		solana.NewAccountMeta(RAYDIUM_CPMM_AUTHORITY, false, false), // pool authority PDA
		solana.NewAccountMeta(p.AmmConfig, false, false),           // amm config
		solana.NewAccountMeta(p.PoolId, true, false),               // pool state (writable)
		solana.NewAccountMeta(userInputAccount, true, false),       // user input token account (writable)
		solana.NewAccountMeta(userOutputAccount, true, false),      // user output token account (writable)
		solana.NewAccountMeta(sides.InputVault, true, false),       // input vault (writable)
		solana.NewAccountMeta(sides.OutputVault, true, false),      // output vault (writable)
		solana.NewAccountMeta(sides.InputProgram, false, false),    // input token program
		solana.NewAccountMeta(sides.OutputProgram, false, false),   // output token program
		solana.NewAccountMeta(sides.InputMint, false, false),       // input mint
		solana.NewAccountMeta(sides.OutputMint, false, false),      // output mint
		solana.NewAccountMeta(p.ObservationKey, true, false),       // observation state (writable)
	)
	return inst
}

// SwapBaseInputInstruction represents an exact-input swap against a Raydium
// CPMM pool.
type SwapBaseInputInstruction struct {
	bin.BaseVariant
	AmountIn                uint64
	MinimumAmountOut        uint64
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

// ProgramID returns the program ID for the Raydium CPMM program
func (inst *SwapBaseInputInstruction) ProgramID() solana.PublicKey {
	return RAYDIUM_CPMM_PROGRAM_ID
}

// Accounts returns the account metas for the instruction
func (inst *SwapBaseInputInstruction) Accounts() (out []*solana.AccountMeta) {
	return inst.AccountMetaSlice
}

// Data serializes the 24-byte instruction payload: 8-byte discriminator
// followed by amount_in and minimum_amount_out as little-endian u64.
func (inst *SwapBaseInputInstruction) Data() ([]byte, error) {
	buf := new(bytes.Buffer)

	if _, err := buf.Write(SwapBaseInputDiscriminator); err != nil {
		return nil, fmt.Errorf("failed to write discriminator: %w", err)
	}

	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint64(inst.AmountIn, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("failed to encode amount in: %w", err)
	}
	if err := enc.WriteUint64(inst.MinimumAmountOut, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("failed to encode minimum amount out: %w", err)
	}

	return buf.Bytes(), nil
}
