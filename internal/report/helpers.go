package report

import (
	"github.com/shopspring/decimal"
)

const ratioScale = 18

// FormatTokenAmount renders a raw amount in whole tokens.
func FormatTokenAmount(value decimal.Decimal, decimals uint8) string {
	if decimals == 0 {
		return value.String()
	}
	return value.Shift(-int32(decimals)).StringFixed(int32(decimals))
}

// SpotPrice returns the price of one whole token A in token B implied by the reserves.
func SpotPrice(reserveA, reserveB uint64, decimalsA, decimalsB uint8) (string, bool) {
	if reserveA == 0 {
		return "", false
	}
	a := decimal.NewFromUint64(reserveA).Shift(-int32(decimalsA))
	b := decimal.NewFromUint64(reserveB).Shift(-int32(decimalsB))
	return b.DivRound(a, ratioScale).StringFixed(ratioScale), true
}
