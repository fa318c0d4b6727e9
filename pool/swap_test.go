package pool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spoolfi/spool-go/pool"
)

func TestSwapExactInParNoFees(t *testing.T) {
	e := newEnv(t, feeConfig{})
	e.seed(e.idxA, 1_000_000_000)
	e.seed(e.idxB, 1_000_000_000)
	require.Equal(t, uint64(2_000_000_000), e.pool.TotalSolValue())

	quote, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             500_000_000,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.NoError(t, err)

	// At par with no fees the swap is exactly 1:1.
	require.Equal(t, uint64(500_000_000), quote.InAmount)
	require.Equal(t, uint64(500_000_000), quote.OutAmount)
	require.Zero(t, quote.ProtocolFeeLst)

	require.Equal(t, uint64(1_500_000_000), e.reserves(e.idxA))
	require.Equal(t, uint64(500_000_000), e.reserves(e.idxB))
	require.Equal(t, uint64(2_000_000_000), e.pool.TotalSolValue())
}

func TestSwapExactInCollectsSpreadFee(t *testing.T) {
	// Pricing keeps 10 bps of the notional; the protocol takes 10% of that
	// spread, the rest stays in the pool for LP holders.
	e := newEnv(t, feeConfig{tradingFeeBps: 1_000, swapSpreadBps: 10})
	e.seed(e.idxA, 2_000_000_000)
	e.seed(e.idxB, 2_000_000_000)

	quote, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             1_000_000_000,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(1_000_000_000), quote.InSolValue)
	require.Equal(t, uint64(999_000_000), quote.OutSolValue)
	require.Equal(t, uint64(999_000_000), quote.OutAmount)
	require.Equal(t, uint64(100_000), quote.ProtocolFeeLst)

	require.Equal(t, uint64(100_000), e.fees(e.idxB))
	require.Equal(t, uint64(3_000_000_000), e.reserves(e.idxA))
	require.Equal(t, uint64(2_000_000_000)-999_000_000-100_000, e.reserves(e.idxB))

	// The spread minus the protocol cut accrues to the pool total.
	require.Equal(t, uint64(4_000_900_000), e.pool.TotalSolValue())
}

func TestSwapExactInSlippage(t *testing.T) {
	e := newEnv(t, feeConfig{swapSpreadBps: 10})
	e.seed(e.idxA, 1_000_000_000)
	e.seed(e.idxB, 1_000_000_000)

	_, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             1_000_000,
		MinAmountOut:       1_000_000,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.ErrorIs(t, err, pool.ErrSlippageToleranceExceeded)
}

func TestSwapExactOut(t *testing.T) {
	e := newEnv(t, feeConfig{tradingFeeBps: 1_000, swapSpreadBps: 10})
	e.seed(e.idxA, 2_000_000_000)
	e.seed(e.idxB, 2_000_000_000)

	quote, err := e.pool.SwapExactOut(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             999_000_000,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.NoError(t, err)

	// Inverting the 10 bps spread on 999_000_000 charges the full 1 SOL.
	require.Equal(t, uint64(1_000_000_000), quote.InAmount)
	require.Equal(t, uint64(999_000_000), quote.OutAmount)
	require.Equal(t, uint64(100_000), quote.ProtocolFeeLst)
}

func TestSwapExactOutSlippage(t *testing.T) {
	e := newEnv(t, feeConfig{swapSpreadBps: 10})
	e.seed(e.idxA, 1_000_000_000)
	e.seed(e.idxB, 1_000_000_000)

	_, err := e.pool.SwapExactOut(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             999_000_000,
		MaxAmountIn:        999_999_999,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.ErrorIs(t, err, pool.ErrSlippageToleranceExceeded)
}

func TestSwapSameLst(t *testing.T) {
	e := newEnv(t, feeConfig{})
	e.seed(e.idxA, 1_000_000_000)

	_, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxA,
		Amount:             1,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderA,
	})
	require.ErrorIs(t, err, pool.ErrSwapSameLst)
}

func TestSwapZeroAmount(t *testing.T) {
	e := newEnv(t, feeConfig{})
	e.seed(e.idxA, 1_000_000_000)
	e.seed(e.idxB, 1_000_000_000)

	_, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.ErrorIs(t, err, pool.ErrZeroValue)
}

func TestSwapInputDisabledLeavesBalancesUntouched(t *testing.T) {
	e := newEnv(t, feeConfig{})
	e.seed(e.idxA, 1_000_000_000)
	e.seed(e.idxB, 1_000_000_000)
	require.NoError(t, e.pool.SetLstInputDisabled(e.admin, e.idxA, true))

	balA := e.balance(e.traderA)
	balB := e.balance(e.traderB)

	_, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             100,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.ErrorIs(t, err, pool.ErrLstInputDisabled)

	require.Equal(t, balA, e.balance(e.traderA))
	require.Equal(t, balB, e.balance(e.traderB))
	require.Equal(t, uint64(1_000_000_000), e.reserves(e.idxA))
	require.Equal(t, uint64(1_000_000_000), e.reserves(e.idxB))

	// Output into a disabled entry is still allowed.
	_, err = e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxB,
		DstLstIndex:        e.idxA,
		Amount:             100,
		SourceAccount:      e.traderB,
		DestinationAccount: e.traderA,
	})
	require.NoError(t, err)
}

func TestSwapNotEnoughLiquidity(t *testing.T) {
	e := newEnv(t, feeConfig{})
	e.seed(e.idxA, 1_000_000_000)
	// No destination liquidity at all.

	_, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             500_000_000,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.ErrorIs(t, err, pool.ErrNotEnoughLiquidity)
}

func TestSwapDisabledPool(t *testing.T) {
	e := newEnv(t, feeConfig{})
	e.seed(e.idxA, 1_000_000_000)
	e.seed(e.idxB, 1_000_000_000)
	require.NoError(t, e.pool.SetPoolDisabled(e.admin, true))

	_, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             100,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.ErrorIs(t, err, pool.ErrPoolDisabled)
}

func TestSwapRejectsGreedyPricing(t *testing.T) {
	e := newEnv(t, feeConfig{})
	e.seed(e.idxA, 1_000_000_000)
	e.seed(e.idxB, 1_000_000_000)

	greedy := &greedyPricing{program: newKey()}
	e.prices.Register(greedy)
	require.NoError(t, e.pool.SetPricingProgram(e.admin, greedy.Program()))

	_, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             100_000,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.ErrorIs(t, err, pool.ErrPoolWouldLoseSolValue)

	_, err = e.pool.SwapExactOut(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             100_000,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.ErrorIs(t, err, pool.ErrPoolWouldLoseSolValue)
}
