// Package curve implements the constant-product pool math. Inputs and outputs are u64 token
// amounts; intermediates are 256-bit integers. Pool-token amounts round half up, fees and
// swap outputs round down.
package curve

import (
	"cosmossdk.io/math"

	"poolExchange/internal/model"
)

// Fee returns floor(amount * numerator / denominator).
func Fee(amount, numerator, denominator uint64) (uint64, error) {
	if denominator == 0 {
		return 0, model.ErrInvalidFeeSchedule.Wrap("fee denominator is zero")
	}
	fee, err := mulDiv(newInt(amount), newInt(numerator), newInt(denominator))
	if err != nil {
		return 0, err
	}
	return toUint64(fee, "fee")
}

// SwapAmounts is the result of a constant-product swap.
type SwapAmounts struct {
	AmountIn              uint64
	AmountInAfterFee      uint64
	AmountOut             uint64
	TradingFee            uint64
	OwnerFee              uint64
	NewSourceReserve      uint64
	NewDestinationReserve uint64
}

// Swap prices amountIn against the pool: (A + a') * (B - b') = A * B with a' the input net
// of fees. The full amountIn is added to the source reserve. A swap whose output rounds to
// zero fails with ErrZeroAmount.
func Swap(amountIn, reserveIn, reserveOut uint64, fees model.FeeSchedule) (SwapAmounts, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return SwapAmounts{}, model.ErrZeroReserve.Wrapf("reserves %d/%d", reserveIn, reserveOut)
	}

	tradingFee, err := Fee(amountIn, fees.TradeFeeNumerator, fees.TradeFeeDenominator)
	if err != nil {
		return SwapAmounts{}, err
	}
	ownerFee, err := Fee(amountIn, fees.OwnerTradeFeeNumerator, fees.OwnerTradeFeeDenominator)
	if err != nil {
		return SwapAmounts{}, err
	}

	in := newInt(amountIn)
	totalFee, err := safeAdd(newInt(tradingFee), newInt(ownerFee))
	if err != nil {
		return SwapAmounts{}, err
	}
	afterFee, err := safeSub(in, totalFee)
	if err != nil {
		return SwapAmounts{}, err
	}

	source := newInt(reserveIn)
	destination := newInt(reserveOut)
	invariant, err := safeMul(source, destination)
	if err != nil {
		return SwapAmounts{}, err
	}
	denominator, err := safeAdd(source, afterFee)
	if err != nil {
		return SwapAmounts{}, err
	}
	if denominator.IsZero() {
		return SwapAmounts{}, model.ErrZeroReserve.Wrap("swap denominator is zero")
	}

	// Rounding the remaining reserve up rounds the output down.
	remaining, err := ceilQuo(invariant, denominator)
	if err != nil {
		return SwapAmounts{}, err
	}
	out, err := safeSub(destination, remaining)
	if err != nil {
		return SwapAmounts{}, err
	}
	if out.GTE(destination) {
		return SwapAmounts{}, model.ErrReserveExhausted.Wrapf("swap output %s drains reserve %d", out, reserveOut)
	}
	if out.IsZero() {
		return SwapAmounts{}, model.ErrZeroAmount.Wrapf("swap of %d returns nothing from reserve %d", amountIn, reserveOut)
	}

	newSource, err := safeAdd(source, in)
	if err != nil {
		return SwapAmounts{}, err
	}

	res := SwapAmounts{
		AmountIn:   amountIn,
		TradingFee: tradingFee,
		OwnerFee:   ownerFee,
	}
	if res.AmountInAfterFee, err = toUint64(afterFee, "amount after fee"); err != nil {
		return SwapAmounts{}, err
	}
	if res.AmountOut, err = toUint64(out, "amount out"); err != nil {
		return SwapAmounts{}, err
	}
	if res.NewSourceReserve, err = toUint64(newSource, "source reserve"); err != nil {
		return SwapAmounts{}, err
	}
	if res.NewDestinationReserve, err = toUint64(remaining, "destination reserve"); err != nil {
		return SwapAmounts{}, err
	}
	return res, nil
}

// DepositAllAmounts is the result of a proportional deposit.
type DepositAllAmounts struct {
	PoolTokens uint64
	TokenA     uint64
	TokenB     uint64
}

// DepositAll mints the largest pool-token amount both caps allow and returns the token amounts
// it consumes, which keep the reserve ratio and never exceed the caps.
func DepositAll(maxTokenA, maxTokenB, reserveA, reserveB, supply uint64) (DepositAllAmounts, error) {
	if reserveA == 0 || reserveB == 0 {
		return DepositAllAmounts{}, model.ErrZeroReserve.Wrapf("reserves %d/%d", reserveA, reserveB)
	}
	if supply == 0 {
		return DepositAllAmounts{}, model.ErrZeroReserve.Wrap("pool token supply is zero")
	}

	s := newInt(supply)
	fromA, err := mulDiv(newInt(maxTokenA), s, newInt(reserveA))
	if err != nil {
		return DepositAllAmounts{}, err
	}
	fromB, err := mulDiv(newInt(maxTokenB), s, newInt(reserveB))
	if err != nil {
		return DepositAllAmounts{}, err
	}
	poolTokens, err := toUint64(math.MinInt(fromA, fromB), "pool tokens")
	if err != nil {
		return DepositAllAmounts{}, err
	}

	tokenA, tokenB, err := TokensForPoolTokens(poolTokens, supply, reserveA, reserveB)
	if err != nil {
		return DepositAllAmounts{}, err
	}
	return DepositAllAmounts{PoolTokens: poolTokens, TokenA: tokenA, TokenB: tokenB}, nil
}

// TokensForPoolTokens returns floor(poolTokens * reserve / supply) for both reserves.
func TokensForPoolTokens(poolTokens, supply, reserveA, reserveB uint64) (uint64, uint64, error) {
	if supply == 0 {
		return 0, 0, model.ErrZeroReserve.Wrap("pool token supply is zero")
	}
	p := newInt(poolTokens)
	s := newInt(supply)

	a, err := mulDiv(p, newInt(reserveA), s)
	if err != nil {
		return 0, 0, err
	}
	b, err := mulDiv(p, newInt(reserveB), s)
	if err != nil {
		return 0, 0, err
	}
	tokenA, err := toUint64(a, "token a")
	if err != nil {
		return 0, 0, err
	}
	tokenB, err := toUint64(b, "token b")
	if err != nil {
		return 0, 0, err
	}
	return tokenA, tokenB, nil
}
