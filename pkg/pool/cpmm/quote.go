package cpmm

import (
	"context"
	"fmt"

	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"lukechampine.com/uint128"

	"solswap/pkg/sol"
)

const bpsDenominator = 10000

// priceScale is the fixed-point factor used for the spot price projection
// in the price-impact calculation.
const priceScale = 1_000_000_000

// EffectiveAmountIn deducts the fee from the input before pricing:
// amountIn * (10000 - feeBps) / 10000, truncating.
func EffectiveAmountIn(amountIn, feeBps uint64) uint64 {
	if feeBps >= bpsDenominator {
		return 0
	}
	// amountIn * (10000-feeBps) always fits in 128 bits.
	return uint128.From64(amountIn).
		Mul64(bpsDenominator - feeBps).
		Div64(bpsDenominator).
		Lo
}

// ComputeAmountOut prices an exact-input swap against the constant product
// invariant: out = effectiveIn * reserveOut / (reserveIn + effectiveIn).
// All intermediates are exact in 128 bits; no floating point.
func ComputeAmountOut(amountIn, reserveIn, reserveOut, feeBps uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, fmt.Errorf("input amount cannot be zero")
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, fmt.Errorf("pool reserves cannot be zero")
	}

	effectiveIn := EffectiveAmountIn(amountIn, feeBps)
	if effectiveIn == 0 {
		return 0, nil
	}

	numerator := uint128.From64(effectiveIn).Mul64(reserveOut)
	denominator := uint128.From64(reserveIn).Add64(effectiveIn)
	return numerator.Div(denominator).Lo, nil
}

// ResolveSlippageBps widens the requested slippage tolerance to a
// conservative floor: 1500 bps when the input-side reserve is below the
// low-liquidity threshold, 500 bps otherwise. Thin pools move more per unit
// trade, so a fixed tolerance is not enough protection.
func ResolveSlippageBps(requestedBps, reserveIn uint64) uint64 {
	floor := SlippageFloorBps
	if reserveIn < LowLiquidityThreshold {
		floor = LowLiquiditySlippageFloorBps
	}
	if requestedBps > floor {
		return requestedBps
	}
	return floor
}

// ApplySlippage returns the worst acceptable output:
// amountOut * (10000 - slippageBps) / 10000, truncating.
func ApplySlippage(amountOut, slippageBps uint64) uint64 {
	if slippageBps >= bpsDenominator {
		return 0
	}
	return uint128.From64(amountOut).
		Mul64(bpsDenominator - slippageBps).
		Div64(bpsDenominator).
		Lo
}

// PriceImpactPct compares amountOut against a fee-adjusted spot-price
// projection of the trade and reports the shortfall as a percentage,
// floored at zero. Display-only; the integer pricing path never uses it.
func PriceImpactPct(amountIn, amountOut, reserveIn, reserveOut, feeBps uint64) float64 {
	if reserveIn == 0 {
		return 0
	}
	effectiveIn := EffectiveAmountIn(amountIn, feeBps)

	spotPrice := cosmath.NewIntFromUint64(reserveOut).
		Mul(cosmath.NewInt(priceScale)).
		Quo(cosmath.NewIntFromUint64(reserveIn))
	expected := cosmath.NewIntFromUint64(effectiveIn).
		Mul(spotPrice).
		Quo(cosmath.NewInt(priceScale))
	if !expected.IsPositive() {
		return 0
	}

	shortfall := expected.Sub(cosmath.NewIntFromUint64(amountOut))
	if !shortfall.IsPositive() {
		return 0
	}

	impact, err := cosmath.LegacyNewDecFromInt(shortfall).
		Quo(cosmath.LegacyNewDecFromInt(expected)).
		MulInt64(100).
		Float64()
	if err != nil {
		return 0
	}
	return impact
}

// Quote prices an exact-input swap against live vault balances, using the
// conservative default fee assumption. Reserves may be stale by the time a
// transaction lands; slippage protection is the safety net for that.
func (pool *CPMMPool) Quote(ctx context.Context, solClient *rpc.Client, inputMint string, inputAmount cosmath.Int) (cosmath.Int, error) {
	inputMintKey, err := solana.PublicKeyFromBase58(inputMint)
	if err != nil {
		return cosmath.Int{}, fmt.Errorf("invalid input mint: %w", err)
	}
	sides, err := pool.ResolveVaults(inputMintKey)
	if err != nil {
		return cosmath.Int{}, err
	}

	reserveIn, reserveOut, err := pool.FetchReserves(ctx, solClient, sides)
	if err != nil {
		return cosmath.Int{}, err
	}

	amountOut, err := ComputeAmountOut(inputAmount.Uint64(), reserveIn, reserveOut, DefaultFeeBps)
	if err != nil {
		return cosmath.Int{}, err
	}
	return quoteInt(amountOut), nil
}

// FetchReserves reads the two vault balances for a resolved direction,
// returning them as (reserveIn, reserveOut).
func (pool *CPMMPool) FetchReserves(ctx context.Context, solClient *rpc.Client, sides SwapSides) (uint64, uint64, error) {
	reserveIn, reserveOut, err := sol.FetchVaultBalances(ctx, solClient, sides.InputVault, sides.OutputVault)
	if err != nil {
		return 0, 0, err
	}
	return reserveIn, reserveOut, nil
}
