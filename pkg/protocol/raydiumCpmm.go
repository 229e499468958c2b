package protocol

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solswap/pkg"
	"solswap/pkg/pool/cpmm"
	"solswap/pkg/sol"
)

// RaydiumCpmmProtocol implements the Protocol interface for the Raydium
// CPMM (constant product) swap program.
//
// Program ID: CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C
type RaydiumCpmmProtocol struct {
	SolClient *sol.Client
	logger    *zap.Logger
}

// NewRaydiumCpmm creates a new Raydium CPMM protocol instance
func NewRaydiumCpmm(solClient *sol.Client, logger *zap.Logger) *RaydiumCpmmProtocol {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RaydiumCpmmProtocol{
		SolClient: solClient,
		logger:    logger,
	}
}

func (p *RaydiumCpmmProtocol) ProtocolName() pkg.ProtocolName {
	return pkg.ProtocolNameRaydiumCpmm
}

// FetchPoolsByPair gets CPMM pools holding the given token pair. Pools may
// be created with either mint in either slot, so both orderings are
// searched; the two filtered queries run in parallel and are merged after
// both complete. Candidates that fail to decode or whose status disables
// swapping are logged and skipped, never fatal. No active pool at all is
// pkg.ErrPoolNotFound.
func (p *RaydiumCpmmProtocol) FetchPoolsByPair(ctx context.Context, baseMint string, quoteMint string) ([]pkg.Pool, error) {
	var forward, reverse rpc.GetProgramAccountsResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		forward, err = p.getCpmmPoolAccountsByTokenPair(gctx, baseMint, quoteMint)
		if err != nil {
			return fmt.Errorf("failed to fetch pools with first mint %s: %w", baseMint, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reverse, err = p.getCpmmPoolAccountsByTokenPair(gctx, quoteMint, baseMint)
		if err != nil {
			return fmt.Errorf("failed to fetch pools with first mint %s: %w", quoteMint, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accounts := make([]*rpc.KeyedAccount, 0, len(forward)+len(reverse))
	accounts = append(accounts, forward...)
	accounts = append(accounts, reverse...)

	return p.selectActivePools(accounts, baseMint, quoteMint)
}

// selectActivePools decodes pool candidates and keeps the active ones.
// Candidates that fail to decode or whose status disables swapping are
// logged and dropped; no active candidate at all is pkg.ErrPoolNotFound.
func (p *RaydiumCpmmProtocol) selectActivePools(accounts []*rpc.KeyedAccount, baseMint, quoteMint string) ([]pkg.Pool, error) {
	res := make([]pkg.Pool, 0, len(accounts))
	for _, v := range accounts {
		layout, err := cpmm.DecodePool(v.Pubkey, v.Account.Data.GetBinary())
		if err != nil {
			p.logger.Warn("skipping undecodable pool candidate",
				zap.String("pool", v.Pubkey.String()),
				zap.Error(err))
			continue
		}
		if !layout.IsSwapEnabled() {
			p.logger.Info("skipping pool with swap disabled",
				zap.String("pool", layout.PoolId.String()),
				zap.Uint8("status", layout.Status))
			continue
		}
		res = append(res, layout)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: no active cpmm pool for pair %s/%s", pkg.ErrPoolNotFound, baseMint, quoteMint)
	}
	return res, nil
}

// getCpmmPoolAccountsByTokenPair queries CPMM pool accounts with the given
// mint assignment, filtered server-side on account size and the two fixed
// mint offsets.
func (p *RaydiumCpmmProtocol) getCpmmPoolAccountsByTokenPair(ctx context.Context, firstMint string, secondMint string) (rpc.GetProgramAccountsResult, error) {
	firstKey, err := solana.PublicKeyFromBase58(firstMint)
	if err != nil {
		return nil, fmt.Errorf("invalid first mint address: %w", err)
	}
	secondKey, err := solana.PublicKeyFromBase58(secondMint)
	if err != nil {
		return nil, fmt.Errorf("invalid second mint address: %w", err)
	}

	var knownPoolLayout cpmm.CPMMPool
	result, err := p.SolClient.RpcClient.GetProgramAccountsWithOpts(ctx, cpmm.RAYDIUM_CPMM_PROGRAM_ID, &rpc.GetProgramAccountsOpts{
		Filters: []rpc.RPCFilter{
			{
				DataSize: knownPoolLayout.Span(),
			},
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: knownPoolLayout.Offset("Token0Mint"),
					Bytes:  firstKey.Bytes(),
				},
			},
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: knownPoolLayout.Offset("Token1Mint"),
					Bytes:  secondKey.Bytes(),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get pools: %w", err)
	}

	return result, nil
}

// FetchPoolByID gets a single CPMM pool by its address. A missing account
// is pkg.ErrPoolNotFound; an account owned by a different program is
// pkg.ErrOwnershipMismatch.
func (p *RaydiumCpmmProtocol) FetchPoolByID(ctx context.Context, poolID string) (pkg.Pool, error) {
	poolKey, err := solana.PublicKeyFromBase58(poolID)
	if err != nil {
		return nil, fmt.Errorf("invalid pool id: %w", err)
	}

	account, err := p.SolClient.RpcClient.GetAccountInfo(ctx, poolKey)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", pkg.ErrPoolNotFound, poolID)
		}
		return nil, fmt.Errorf("failed to get pool account %s: %w", poolID, err)
	}
	if account.Value == nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrPoolNotFound, poolID)
	}
	if !account.Value.Owner.Equals(cpmm.RAYDIUM_CPMM_PROGRAM_ID) {
		return nil, fmt.Errorf("%w: %s is owned by %s", pkg.ErrOwnershipMismatch, poolID, account.Value.Owner)
	}

	layout, err := cpmm.DecodePool(poolKey, account.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to decode pool data for %s: %w", poolID, err)
	}
	return layout, nil
}
