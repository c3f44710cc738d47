package model

// FeeSchedule holds the three fee fractions charged by a pool.
type FeeSchedule struct {
	TradeFeeNumerator           uint64 `json:"trade_fee_numerator"`
	TradeFeeDenominator         uint64 `json:"trade_fee_denominator"`
	OwnerTradeFeeNumerator      uint64 `json:"owner_trade_fee_numerator"`
	OwnerTradeFeeDenominator    uint64 `json:"owner_trade_fee_denominator"`
	OwnerWithdrawFeeNumerator   uint64 `json:"owner_withdraw_fee_numerator"`
	OwnerWithdrawFeeDenominator uint64 `json:"owner_withdraw_fee_denominator"`
}

// Validate checks that every pair is a fraction in [0, 1].
func (f FeeSchedule) Validate() error {
	pairs := []struct {
		name        string
		numerator   uint64
		denominator uint64
	}{
		{"trade fee", f.TradeFeeNumerator, f.TradeFeeDenominator},
		{"owner trade fee", f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator},
		{"owner withdraw fee", f.OwnerWithdrawFeeNumerator, f.OwnerWithdrawFeeDenominator},
	}
	for _, p := range pairs {
		if p.denominator == 0 {
			return ErrInvalidFeeSchedule.Wrapf("%s denominator is zero", p.name)
		}
		if p.numerator > p.denominator {
			return ErrInvalidFeeSchedule.Wrapf("%s %d/%d exceeds one", p.name, p.numerator, p.denominator)
		}
	}
	return nil
}
