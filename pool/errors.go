package pool

import "errors"

// Every operation fails with one of these kinds (wrapped with context) so
// callers can react per kind: retry with wider slippage bounds, hard-fail on
// a faulty plugin, and so on. All failures are terminal for the enclosing
// transaction.
var (
	// Value errors.
	ErrZeroValue             = errors.New("amount resolves to zero sol value")
	ErrMath                  = errors.New("math overflow")
	ErrPoolWouldLoseSolValue = errors.New("pool would lose sol value")

	// Liquidity errors.
	ErrNotEnoughLiquidity        = errors.New("not enough liquidity")
	ErrSlippageToleranceExceeded = errors.New("slippage tolerance exceeded")

	// Plugin-integrity errors.
	ErrFaultyValueCalculator = errors.New("faulty value calculator")
	ErrFaultyPricingProgram  = errors.New("faulty pricing program")

	// Protocol-state errors.
	ErrNoSucceedingEndRebalance = errors.New("no succeeding end-rebalance instruction")
	ErrPoolDisabled             = errors.New("pool is disabled")
	ErrPoolRebalancing          = errors.New("pool is rebalancing")
	ErrNotRebalancing           = errors.New("pool is not rebalancing")
	ErrLstInputDisabled         = errors.New("lst input is disabled")
	ErrNotLpAccount             = errors.New("account does not hold the lp mint")
	ErrSwapSameLst              = errors.New("swap source and destination are the same lst")
	ErrUnknownLst               = errors.New("unknown lst")
	ErrDuplicateLst             = errors.New("lst already in pool")
	ErrLstNotEmpty              = errors.New("lst still holds value")
	ErrInvalidFee               = errors.New("fee above 10000 bps")

	// Authorization errors.
	ErrUnauthorized = errors.New("signer not authorized")
)
