package cpmm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectiveAmountIn(t *testing.T) {
	require.Equal(t, uint64(9_900), EffectiveAmountIn(10_000, 100))
	require.Equal(t, uint64(10_000), EffectiveAmountIn(10_000, 0))
	require.Equal(t, uint64(0), EffectiveAmountIn(10_000, 10_000))

	// Truncation, not rounding
	require.Equal(t, uint64(98), EffectiveAmountIn(99, 100))
}

func TestComputeAmountOut(t *testing.T) {
	// effectiveIn = 9_900, out = 9_900 * 2_000_000 / (1_000_000 + 9_900)
	out, err := ComputeAmountOut(10_000, 1_000_000, 2_000_000, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(19_605), out)

	// Zero fee prices pure constant product
	out, err = ComputeAmountOut(10_000, 1_000_000, 2_000_000, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(19_801), out)

	// Output never reaches the full reserve even for huge inputs
	out, err = ComputeAmountOut(1<<60, 1_000_000, 2_000_000, 0)
	require.NoError(t, err)
	require.Less(t, out, uint64(2_000_000))
}

func TestComputeAmountOutRejectsDegenerateInputs(t *testing.T) {
	_, err := ComputeAmountOut(0, 1_000_000, 2_000_000, 100)
	require.Error(t, err)

	_, err = ComputeAmountOut(10_000, 0, 2_000_000, 100)
	require.Error(t, err)

	_, err = ComputeAmountOut(10_000, 1_000_000, 0, 100)
	require.Error(t, err)
}

func TestComputeAmountOutNoOverflow(t *testing.T) {
	// Max-size operands stay exact in 128-bit intermediates
	maxU64 := ^uint64(0)
	out, err := ComputeAmountOut(maxU64, maxU64, maxU64, 0)
	require.NoError(t, err)
	require.Equal(t, maxU64/2, out)
}

func TestApplySlippage(t *testing.T) {
	require.Equal(t, uint64(19_408), ApplySlippage(19_605, 100))
	require.Equal(t, uint64(19_605), ApplySlippage(19_605, 0))
	require.Equal(t, uint64(0), ApplySlippage(19_605, 10_000))
}

func TestResolveSlippageBps(t *testing.T) {
	// Thin pool widens to the low-liquidity floor
	require.Equal(t, uint64(1_500), ResolveSlippageBps(100, 1_000_000))
	// Deep pool widens to the standard floor
	require.Equal(t, uint64(500), ResolveSlippageBps(100, 10_000_000_000))
	// A wider request than the floor is honored as-is
	require.Equal(t, uint64(2_000), ResolveSlippageBps(2_000, 1_000_000))
	require.Equal(t, uint64(700), ResolveSlippageBps(700, 10_000_000_000))
	// Threshold boundary
	require.Equal(t, uint64(1_500), ResolveSlippageBps(100, LowLiquidityThreshold-1))
	require.Equal(t, uint64(500), ResolveSlippageBps(100, LowLiquidityThreshold))
}

func TestMinOutNeverExceedsAmountOut(t *testing.T) {
	reserves := []struct{ in, out uint64 }{
		{1_000_000, 2_000_000},
		{50_000_000, 7},
		{1, 1_000_000_000_000},
	}
	for _, r := range reserves {
		for _, feeBps := range []uint64{0, 25, 100, 400, 9_999} {
			for _, slippageBps := range []uint64{0, 1, 100, 1_500, 9_999} {
				amountOut, err := ComputeAmountOut(10_000, r.in, r.out, feeBps)
				require.NoError(t, err)
				minOut := ApplySlippage(amountOut, slippageBps)
				require.LessOrEqual(t, minOut, amountOut,
					"reserves=%v fee=%d slippage=%d", r, feeBps, slippageBps)
			}
		}
	}
}

func TestPriceImpactPct(t *testing.T) {
	// A trade that is tiny relative to reserves moves the price barely at all
	out, err := ComputeAmountOut(10_000, 1_000_000_000_000, 2_000_000_000_000, 100)
	require.NoError(t, err)
	small := PriceImpactPct(10_000, out, 1_000_000_000_000, 2_000_000_000_000, 100)
	require.Less(t, small, 0.01)

	// A trade consuming a large share of the pool shows meaningful impact
	out, err = ComputeAmountOut(500_000, 1_000_000, 2_000_000, 100)
	require.NoError(t, err)
	large := PriceImpactPct(500_000, out, 1_000_000, 2_000_000, 100)
	require.Greater(t, large, 10.0)
	require.Greater(t, large, small)

	// Never negative
	require.GreaterOrEqual(t, PriceImpactPct(0, 0, 1_000_000, 2_000_000, 100), 0.0)
}
