package sol

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// BuildTransaction compiles the given instructions into an unsigned
// transaction paid for by payer. Signing and submission stay with the caller.
func BuildTransaction(payer solana.PublicKey, blockhash solana.Hash, instrs ...solana.Instruction) (*solana.Transaction, error) {
	if len(instrs) == 0 {
		return nil, fmt.Errorf("at least one instruction is required")
	}
	tx, err := solana.NewTransaction(
		instrs,
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

// SignTransaction signs an assembled transaction in place with whichever of
// the provided signers the message requires.
func SignTransaction(tx *solana.Transaction, signers []solana.PrivateKey) error {
	if len(signers) == 0 {
		return fmt.Errorf("at least one signer is required")
	}
	_, err := tx.Sign(
		func(key solana.PublicKey) *solana.PrivateKey {
			for _, payer := range signers {
				if payer.PublicKey().Equals(key) {
					return &payer
				}
			}
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// SignAndSend signs an already-assembled transaction and submits it, or
// simulates it when isSimulate is set.
func (c *Client) SignAndSend(ctx context.Context, tx *solana.Transaction, signers []solana.PrivateKey, isSimulate bool) (solana.Signature, error) {
	if err := SignTransaction(tx, signers); err != nil {
		return solana.Signature{}, err
	}

	if isSimulate {
		if _, err := c.RpcClient.SimulateTransaction(ctx, tx); err != nil {
			return solana.Signature{}, fmt.Errorf("failed to simulate transaction: %w", err)
		}
		// Return empty signature for simulation
		return solana.Signature{}, nil
	}

	sig, err := c.RpcClient.SendTransactionWithOpts(
		ctx, tx,
		rpc.TransactionOpts{
			SkipPreflight:       true,
			PreflightCommitment: rpc.CommitmentProcessed,
		},
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}
