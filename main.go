package main

import (
	"context"
	"log"
	"os"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"solswap/pkg/protocol"
	"solswap/pkg/router"
	"solswap/pkg/sol"
	"solswap/utils"
)

const (
	// Token addresses
	usdcTokenAddr = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	// Swap parameters
	defaultAmountIn = 100000000 // 0.1 sol (9 decimals)
	slippageBps     = 100       // 1% slippage
)

func main() {
	// Load .env if present
	utils.LoadEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize private key from environment
	privateKeyStr := os.Getenv("SOLANA_PRIVATE_KEY")
	if privateKeyStr == "" {
		logger.Fatal("SOLANA_PRIVATE_KEY is required")
	}
	privateKey, err := sol.LoadPrivateKey(privateKeyStr)
	if err != nil {
		logger.Fatal("Failed to load private key", zap.Error(err))
	}
	logger.Info("loaded wallet", zap.String("public_key", privateKey.PublicKey().String()))

	ctx := context.Background()
	solClient, err := sol.NewClient(ctx, sol.Config{
		RPCEndpoint: utils.GetEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		WSEndpoint:  utils.GetEnv("SOLANA_WS_RPC_URL", "wss://api.mainnet-beta.solana.com"),
	})
	if err != nil {
		logger.Fatal("Failed to create solana client", zap.Error(err))
	}
	defer solClient.Close()

	// Check SOL-side balance before quoting
	balance, err := solClient.GetUserTokenBalance(ctx, privateKey.PublicKey(), sol.WSOL)
	if err != nil {
		logger.Fatal("Failed to get user token balance", zap.Error(err))
	}
	logger.Info("user wsol balance", zap.Uint64("balance", balance))

	swapRouter := router.NewSwapRouter(
		solClient,
		protocol.NewRaydiumCpmm(solClient, logger),
		logger,
	)

	// Find a pool for the pair
	pool, err := swapRouter.FindPool(ctx, sol.WSOL.String(), usdcTokenAddr)
	if err != nil {
		logger.Fatal("Failed to find pool", zap.Error(err))
	}
	logger.Info("found pool", zap.String("pool", pool.GetID()))

	// Price the swap
	amountIn := math.NewInt(defaultAmountIn)
	quote, err := swapRouter.GetQuote(ctx, pool, sol.WSOL.String(), amountIn, slippageBps)
	if err != nil {
		logger.Fatal("Failed to get quote", zap.Error(err))
	}
	logger.Info("quote",
		zap.String("amount_out", quote.AmountOut.String()),
		zap.String("min_amount_out", quote.MinAmountOut.String()),
		zap.Uint64("slippage_bps", quote.SlippageBps),
		zap.Float64("price_impact_pct", quote.PriceImpactPct))

	// Assemble the unsigned transaction
	tx, _, err := swapRouter.BuildSwapTransaction(ctx, router.SwapRequest{
		User:        privateKey.PublicKey(),
		InputMint:   sol.WSOL.String(),
		OutputMint:  usdcTokenAddr,
		AmountIn:    amountIn,
		SlippageBps: slippageBps,
		PoolID:      pool.GetID(),
	})
	if err != nil {
		logger.Fatal("Failed to build swap transaction", zap.Error(err))
	}
	logger.Info("assembled transaction", zap.Int("instructions", len(tx.Message.Instructions)))

	// Simulate by default; set SOLANA_SEND_TX=1 to broadcast
	isSimulate := os.Getenv("SOLANA_SEND_TX") != "1"
	sig, err := solClient.SignAndSend(ctx, tx, []solana.PrivateKey{privateKey}, isSimulate)
	if err != nil {
		logger.Fatal("Failed to send transaction", zap.Error(err))
	}
	if !isSimulate {
		logger.Info("transaction sent", zap.String("explorer", "https://solscan.io/tx/"+sig.String()))
	}
}
