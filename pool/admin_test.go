package pool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spoolfi/spool-go/pool"
	"github.com/spoolfi/spool-go/svc"
)

func TestAdminGating(t *testing.T) {
	e := newEnv(t, feeConfig{})
	stranger := newKey()

	_, err := e.pool.AddLst(stranger, newKey(), e.parCalc.Program())
	require.ErrorIs(t, err, pool.ErrUnauthorized)
	require.ErrorIs(t, e.pool.SetFees(stranger, 1, 1), pool.ErrUnauthorized)
	require.ErrorIs(t, e.pool.SetPoolDisabled(stranger, true), pool.ErrUnauthorized)
	require.ErrorIs(t, e.pool.SetAdmin(stranger, stranger), pool.ErrUnauthorized)
}

func TestSetAdminHandsOver(t *testing.T) {
	e := newEnv(t, feeConfig{})
	next := newKey()

	require.NoError(t, e.pool.SetAdmin(e.admin, next))
	require.ErrorIs(t, e.pool.SetPoolDisabled(e.admin, true), pool.ErrUnauthorized)
	require.NoError(t, e.pool.SetPoolDisabled(next, true))
}

func TestAddLstRejectsDuplicateAndUnknownCalculator(t *testing.T) {
	e := newEnv(t, feeConfig{})

	_, err := e.pool.AddLst(e.admin, e.mintA, e.parCalc.Program())
	require.ErrorIs(t, err, pool.ErrDuplicateLst)

	mintC := newKey()
	require.NoError(t, e.bank.CreateMint(mintC))
	_, err = e.pool.AddLst(e.admin, mintC, newKey())
	require.ErrorIs(t, err, pool.ErrFaultyValueCalculator)
}

func TestRemoveLst(t *testing.T) {
	e := newEnv(t, feeConfig{})
	e.seed(e.idxA, 1_000_000_000)

	require.ErrorIs(t, e.pool.RemoveLst(e.admin, e.idxA), pool.ErrLstNotEmpty)

	// B never held anything; removing it shifts nothing A depends on.
	require.NoError(t, e.pool.RemoveLst(e.admin, e.idxB))
	require.Equal(t, 1, e.pool.EntryCount())
	_, ok := e.pool.FindLst(e.mintB)
	require.False(t, ok)

	idx, ok := e.pool.FindLst(e.mintA)
	require.True(t, ok)
	require.Equal(t, e.idxA, idx)
}

func TestSetFeesValidation(t *testing.T) {
	e := newEnv(t, feeConfig{})
	require.ErrorIs(t, e.pool.SetFees(e.admin, 10_001, 0), pool.ErrInvalidFee)
	require.ErrorIs(t, e.pool.SetFees(e.admin, 0, 10_001), pool.ErrInvalidFee)
	require.NoError(t, e.pool.SetFees(e.admin, 50, 100))

	state := e.pool.State()
	require.Equal(t, uint16(50), state.TradingFeeBps)
	require.Equal(t, uint16(100), state.LiquidityFeeBps)
}

func TestSetPricingProgramMustResolve(t *testing.T) {
	e := newEnv(t, feeConfig{})
	require.ErrorIs(t, e.pool.SetPricingProgram(e.admin, newKey()), pool.ErrFaultyPricingProgram)
}

func TestSetSolValueCalculatorResyncs(t *testing.T) {
	e := newEnv(t, feeConfig{})
	e.seed(e.idxA, 1_000_000_000)
	require.Equal(t, uint64(1_000_000_000), e.pool.TotalSolValue())

	rate, err := svc.NewRateCalculator(newKey(), 11, 10)
	require.NoError(t, err)
	e.calcs.Register(rate)

	require.NoError(t, e.pool.SetSolValueCalculator(e.admin, e.idxA, rate.Program()))

	// The entry was revalued through the new plugin immediately.
	entry, err := e.pool.Entry(e.idxA)
	require.NoError(t, err)
	require.Equal(t, uint64(1_100_000_000), entry.SolValue)
	require.Equal(t, uint64(1_100_000_000), e.pool.TotalSolValue())

	require.ErrorIs(t, e.pool.SetSolValueCalculator(e.admin, e.idxA, newKey()), pool.ErrFaultyValueCalculator)
}

func TestWithdrawProtocolFees(t *testing.T) {
	e := newEnv(t, feeConfig{tradingFeeBps: 1_000, swapSpreadBps: 10})
	e.seed(e.idxA, 2_000_000_000)
	e.seed(e.idxB, 2_000_000_000)

	_, err := e.pool.SwapExactIn(pool.SwapArgs{
		SrcLstIndex:        e.idxA,
		DstLstIndex:        e.idxB,
		Amount:             1_000_000_000,
		SourceAccount:      e.traderA,
		DestinationAccount: e.traderB,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(100_000), e.fees(e.idxB))

	dest, err := e.bank.CreateAccount(e.mintB, e.beneficiary)
	require.NoError(t, err)

	_, err = e.pool.WithdrawProtocolFees(e.admin, e.idxB, dest, 0)
	require.ErrorIs(t, err, pool.ErrUnauthorized)

	got, err := e.pool.WithdrawProtocolFees(e.beneficiary, e.idxB, dest, 40_000)
	require.NoError(t, err)
	require.Equal(t, uint64(40_000), got)

	// Zero amount drains the rest.
	got, err = e.pool.WithdrawProtocolFees(e.beneficiary, e.idxB, dest, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(60_000), got)
	require.Equal(t, uint64(100_000), e.balance(dest))
	require.Zero(t, e.fees(e.idxB))
}
