package router

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"solswap/pkg"
	"solswap/pkg/pool/cpmm"
	"solswap/pkg/sol"
)

// Quote is the priced view of a prospective swap: the raw output, the
// slippage tolerance actually applied, and the resulting execution floor.
type Quote struct {
	PoolID         string
	InputMint      string
	OutputMint     string
	AmountIn       math.Int
	AmountOut      math.Int
	MinAmountOut   math.Int
	FeeBps         uint64
	SlippageBps    uint64
	PriceImpactPct float64
}

// SwapRequest describes one exact-input swap to price and assemble.
// PoolID is optional; when empty the router discovers a pool for the pair.
// SlippageBps zero means the default tolerance.
type SwapRequest struct {
	User        solana.PublicKey
	InputMint   string
	OutputMint  string
	AmountIn    math.Int
	SlippageBps uint64
	PoolID      string
}

// SwapRouter routes exact-input swaps through a single protocol: it finds
// pools, prices trades, and assembles ready-to-sign transactions. Wrapped
// SOL on either side is handled with ephemeral accounts so the caller never
// manages a WSOL balance.
type SwapRouter struct {
	solClient  *sol.Client
	protocol   pkg.Protocol
	logger     *zap.Logger
	seedSource sol.SeedSource
}

type Option func(*SwapRouter)

// WithSeedSource overrides the ephemeral account seed generator.
func WithSeedSource(s sol.SeedSource) Option {
	return func(r *SwapRouter) {
		r.seedSource = s
	}
}

func NewSwapRouter(solClient *sol.Client, protocol pkg.Protocol, logger *zap.Logger, opts ...Option) *SwapRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &SwapRouter{
		solClient: solClient,
		protocol:  protocol,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// normalizeMint maps the native SOL notation onto the wrapped mint that
// pools actually store. Callers may pass either for the SOL side.
func normalizeMint(mint string) string {
	if mint == sol.NativeSOL.String() {
		return sol.WSOL.String()
	}
	return mint
}

// FindPool returns the first active pool holding the given pair.
func (r *SwapRouter) FindPool(ctx context.Context, baseMint, quoteMint string) (pkg.Pool, error) {
	baseMint = normalizeMint(baseMint)
	quoteMint = normalizeMint(quoteMint)
	pools, err := r.protocol.FetchPoolsByPair(ctx, baseMint, quoteMint)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("pool discovery finished",
		zap.String("base_mint", baseMint),
		zap.String("quote_mint", quoteMint),
		zap.Int("candidates", len(pools)))
	return pools[0], nil
}

// GetQuote prices an exact-input swap against live reserves. The requested
// slippage tolerance is widened to the pool's liquidity-dependent floor
// before the execution minimum is derived, so MinAmountOut always reflects
// the tolerance that will actually protect the trade.
func (r *SwapRouter) GetQuote(ctx context.Context, pool pkg.Pool, inputMint string, amountIn math.Int, slippageBps uint64) (*Quote, error) {
	cpmmPool, ok := pool.(*cpmm.CPMMPool)
	if !ok {
		return nil, fmt.Errorf("unsupported pool type %T", pool)
	}
	if slippageBps == 0 {
		slippageBps = cpmm.DefaultSlippageBps
	}

	inputMintKey, err := solana.PublicKeyFromBase58(normalizeMint(inputMint))
	if err != nil {
		return nil, fmt.Errorf("invalid input mint: %w", err)
	}
	sides, err := cpmmPool.ResolveVaults(inputMintKey)
	if err != nil {
		return nil, err
	}

	reserveIn, reserveOut, err := cpmmPool.FetchReserves(ctx, r.solClient.RpcClient, sides)
	if err != nil {
		return nil, err
	}

	amountOut, err := cpmm.ComputeAmountOut(amountIn.Uint64(), reserveIn, reserveOut, cpmm.DefaultFeeBps)
	if err != nil {
		return nil, err
	}

	appliedBps := cpmm.ResolveSlippageBps(slippageBps, reserveIn)
	minOut := cpmm.ApplySlippage(amountOut, appliedBps)

	quote := &Quote{
		PoolID:         cpmmPool.GetID(),
		InputMint:      sides.InputMint.String(),
		OutputMint:     sides.OutputMint.String(),
		AmountIn:       amountIn,
		AmountOut:      math.NewIntFromUint64(amountOut),
		MinAmountOut:   math.NewIntFromUint64(minOut),
		FeeBps:         cpmm.DefaultFeeBps,
		SlippageBps:    appliedBps,
		PriceImpactPct: cpmm.PriceImpactPct(amountIn.Uint64(), amountOut, reserveIn, reserveOut, cpmm.DefaultFeeBps),
	}
	r.logger.Info("quote computed",
		zap.String("pool", quote.PoolID),
		zap.String("amount_in", quote.AmountIn.String()),
		zap.String("amount_out", quote.AmountOut.String()),
		zap.String("min_amount_out", quote.MinAmountOut.String()),
		zap.Uint64("slippage_bps", quote.SlippageBps),
		zap.Float64("price_impact_pct", quote.PriceImpactPct))
	return quote, nil
}

// BuildSwapTransaction prices the request and assembles an unsigned
// transaction around the swap. Wrapped SOL legs run through ephemeral
// accounts opened and closed inside the same transaction; any other output
// mint gets an idempotent associated-token-account create so first-time
// recipients work without a prior setup step.
func (r *SwapRouter) BuildSwapTransaction(ctx context.Context, req SwapRequest) (*solana.Transaction, *Quote, error) {
	req.InputMint = normalizeMint(req.InputMint)
	req.OutputMint = normalizeMint(req.OutputMint)

	var pool pkg.Pool
	var err error
	if req.PoolID != "" {
		pool, err = r.protocol.FetchPoolByID(ctx, req.PoolID)
	} else {
		pool, err = r.FindPool(ctx, req.InputMint, req.OutputMint)
	}
	if err != nil {
		return nil, nil, err
	}

	quote, err := r.GetQuote(ctx, pool, req.InputMint, req.AmountIn, req.SlippageBps)
	if err != nil {
		return nil, nil, err
	}

	plan := &instructionPlan{payer: req.User}

	userInputAccount, err := r.resolveInputAccount(ctx, plan, req)
	if err != nil {
		return nil, nil, err
	}
	userOutputAccount, err := r.resolveOutputAccount(ctx, plan, req)
	if err != nil {
		return nil, nil, err
	}

	plan.swap, err = pool.BuildSwapInstructions(
		ctx,
		r.solClient.RpcClient,
		req.User,
		req.InputMint,
		req.AmountIn,
		quote.MinAmountOut,
		userInputAccount,
		userOutputAccount,
	)
	if err != nil {
		return nil, nil, err
	}

	instrs, err := plan.assemble()
	if err != nil {
		return nil, nil, err
	}

	blockhash, err := r.solClient.RpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := sol.BuildTransaction(req.User, blockhash.Value.Blockhash, instrs...)
	if err != nil {
		return nil, nil, err
	}
	r.logger.Info("swap transaction assembled",
		zap.String("pool", quote.PoolID),
		zap.Int("instructions", len(instrs)))
	return tx, quote, nil
}

// resolveInputAccount picks the token account the swap spends from. Wrapped
// SOL input opens an ephemeral account funded with the trade amount; any
// other mint spends from the user's existing associated token account.
func (r *SwapRouter) resolveInputAccount(ctx context.Context, plan *instructionPlan, req SwapRequest) (solana.PublicKey, error) {
	inputMintKey, err := solana.PublicKeyFromBase58(req.InputMint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid input mint: %w", err)
	}

	if inputMintKey.Equals(sol.WSOL) {
		acc, err := sol.OpenEphemeralWSOLAccount(req.User, req.AmountIn.Uint64(), r.seedSource)
		if err != nil {
			return solana.PublicKey{}, err
		}
		plan.inputWSOL = acc
		return acc.Address, nil
	}

	tokenProgram, err := r.solClient.GetMintOwner(ctx, inputMintKey)
	if err != nil {
		return solana.PublicKey{}, err
	}
	ata, _, err := sol.FindAssociatedTokenAddressWithProgram(req.User, inputMintKey, tokenProgram)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive input token account: %w", err)
	}
	return ata, nil
}

// resolveOutputAccount picks the account the swap settles into. Wrapped SOL
// output opens an unfunded ephemeral account that is closed after the swap,
// unwrapping the proceeds; any other mint settles into the user's associated
// token account, created idempotently in the same transaction.
func (r *SwapRouter) resolveOutputAccount(ctx context.Context, plan *instructionPlan, req SwapRequest) (solana.PublicKey, error) {
	outputMintKey, err := solana.PublicKeyFromBase58(req.OutputMint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid output mint: %w", err)
	}

	if outputMintKey.Equals(sol.WSOL) {
		acc, err := sol.OpenEphemeralWSOLAccount(req.User, 0, r.seedSource)
		if err != nil {
			return solana.PublicKey{}, err
		}
		plan.outputWSOL = acc
		return acc.Address, nil
	}

	tokenProgram, err := r.solClient.GetMintOwner(ctx, outputMintKey)
	if err != nil {
		return solana.PublicKey{}, err
	}
	createIx, ata, err := sol.NewCreateIdempotentATAInstruction(req.User, req.User, outputMintKey, tokenProgram)
	if err != nil {
		return solana.PublicKey{}, err
	}
	plan.createOutputATA = createIx
	return ata, nil
}

// instructionPlan collects the pieces of one swap transaction and fixes
// their ordering: compute budget first, account setup before the swap,
// closes after it. The output-side close runs before the input-side close
// so proceeds are unwrapped before the input account's refund.
type instructionPlan struct {
	payer           solana.PublicKey
	inputWSOL       *sol.EphemeralWSOLAccount
	outputWSOL      *sol.EphemeralWSOLAccount
	createOutputATA solana.Instruction
	swap            []solana.Instruction
}

func (p *instructionPlan) assemble() ([]solana.Instruction, error) {
	limitIx, err := computebudget.NewSetComputeUnitLimitInstruction(sol.ComputeUnitLimit).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build compute unit limit instruction: %w", err)
	}
	priceIx, err := computebudget.NewSetComputeUnitPriceInstruction(sol.ComputeUnitPrice).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build compute unit price instruction: %w", err)
	}

	instrs := []solana.Instruction{limitIx, priceIx}

	if p.inputWSOL != nil {
		instrs = append(instrs, p.inputWSOL.CreateIx, p.inputWSOL.InitIx)
	}
	if p.outputWSOL != nil {
		instrs = append(instrs, p.outputWSOL.CreateIx, p.outputWSOL.InitIx)
	}
	if p.createOutputATA != nil {
		instrs = append(instrs, p.createOutputATA)
	}

	instrs = append(instrs, p.swap...)

	if p.outputWSOL != nil {
		closeIx, err := p.outputWSOL.CloseInstruction(p.payer)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, closeIx)
	}
	if p.inputWSOL != nil {
		closeIx, err := p.inputWSOL.CloseInstruction(p.payer)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, closeIx)
	}
	return instrs, nil
}
