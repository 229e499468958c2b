package sol

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"golang.org/x/sync/errgroup"

	"solswap/pkg"
)

// Config carries the endpoints a Client talks to. Values are resolved by
// the caller at composition time; this package never reads the environment.
type Config struct {
	RPCEndpoint string
	WSEndpoint  string // optional
}

// Client represents a Solana client that handles both RPC and WebSocket connections
type Client struct {
	RpcClient *rpc.Client
	WsClient  *ws.Client
}

// NewClient creates a new Solana client with both RPC and WebSocket connections
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.RPCEndpoint == "" {
		return nil, fmt.Errorf("rpc endpoint is required")
	}
	c := &Client{
		RpcClient: rpc.New(cfg.RPCEndpoint),
	}
	if cfg.WSEndpoint != "" {
		wsClient, err := ws.Connect(ctx, cfg.WSEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to establish WebSocket connection: %w", err)
		}
		c.WsClient = wsClient
	}
	return c, nil
}

// Close terminates all client connections
func (c *Client) Close() error {
	if c.WsClient != nil {
		c.WsClient.Close()
	}
	return nil
}

// FetchVaultBalances reads the token balances of a pool's two vaults. The
// two reads are issued concurrently and joined; each goroutine writes its
// own result slot, so no locking is needed. Any failure surfaces as
// pkg.ErrVaultUnavailable.
func FetchVaultBalances(ctx context.Context, rpcClient *rpc.Client, vault0, vault1 solana.PublicKey) (uint64, uint64, error) {
	var balance0, balance1 uint64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance0, err = FetchTokenAccountBalance(ctx, rpcClient, vault0)
		return err
	})
	g.Go(func() error {
		var err error
		balance1, err = FetchTokenAccountBalance(ctx, rpcClient, vault1)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", pkg.ErrVaultUnavailable, err)
	}
	return balance0, balance1, nil
}

// FetchTokenAccountBalance reads a single token account balance in atomic units.
func FetchTokenAccountBalance(ctx context.Context, rpcClient *rpc.Client, account solana.PublicKey) (uint64, error) {
	res, err := rpcClient.GetTokenAccountBalance(ctx, account, rpc.CommitmentProcessed)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance of %s: %w", account, err)
	}
	if res.Value == nil {
		return 0, fmt.Errorf("empty balance response for %s", account)
	}
	amount, err := strconv.ParseUint(res.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid balance amount %q: %w", res.Value.Amount, err)
	}
	return amount, nil
}

// GetMintOwner returns the token program that owns a mint account. Needed to
// derive associated token accounts for token-2022 mints.
func (c *Client) GetMintOwner(ctx context.Context, mint solana.PublicKey) (solana.PublicKey, error) {
	res, err := c.RpcClient.GetAccountInfo(ctx, mint)
	if err != nil {
		if err == rpc.ErrNotFound {
			return solana.PublicKey{}, fmt.Errorf("%w: %s", pkg.ErrMintAccountMissing, mint)
		}
		return solana.PublicKey{}, fmt.Errorf("failed to get mint account %s: %w", mint, err)
	}
	if res.Value == nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", pkg.ErrMintAccountMissing, mint)
	}
	return res.Value.Owner, nil
}

// GetUserTokenBalance returns the balance of the user's associated token
// account for the given mint. A missing account reads as zero; any other
// failure propagates so an RPC outage is not mistaken for an empty wallet.
func (c *Client) GetUserTokenBalance(ctx context.Context, user, mint solana.PublicKey) (uint64, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(user, mint)
	if err != nil {
		return 0, fmt.Errorf("failed to derive associated token address: %w", err)
	}
	if _, err := c.RpcClient.GetAccountInfo(ctx, ata); err != nil {
		if err == rpc.ErrNotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get token account %s: %w", ata, err)
	}
	return FetchTokenAccountBalance(ctx, c.RpcClient, ata)
}
