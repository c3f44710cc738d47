package curve

import (
	"errors"
	"math/big"
	"testing"

	"pgregory.net/rapid"

	"poolExchange/internal/model"
)

func drawFees(t *rapid.T) model.FeeSchedule {
	den := rapid.Uint64Range(1, 10_000).Draw(t, "den")
	trade := rapid.Uint64Range(0, den/2).Draw(t, "trade")
	owner := rapid.Uint64Range(0, den/2-trade/2).Draw(t, "owner")
	return model.FeeSchedule{
		TradeFeeNumerator:           trade,
		TradeFeeDenominator:         den,
		OwnerTradeFeeNumerator:      owner,
		OwnerTradeFeeDenominator:    den,
		OwnerWithdrawFeeNumerator:   0,
		OwnerWithdrawFeeDenominator: den,
	}
}

func TestSwapInvariantProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveIn := rapid.Uint64Range(1, 1<<50).Draw(t, "reserveIn")
		reserveOut := rapid.Uint64Range(2, 1<<50).Draw(t, "reserveOut")
		amountIn := rapid.Uint64Range(1, 1<<50).Draw(t, "amountIn")
		fees := drawFees(t)

		res, err := Swap(amountIn, reserveIn, reserveOut, fees)
		if errors.Is(err, model.ErrZeroAmount) {
			// Rejected only when the exact output reserveOut*a'/(reserveIn+a') is below one.
			afterFee := swapAfterFee(t, amountIn, fees)
			lhs := new(big.Int).Mul(new(big.Int).SetUint64(reserveOut), afterFee)
			rhs := new(big.Int).Add(new(big.Int).SetUint64(reserveIn), afterFee)
			if lhs.Cmp(rhs) >= 0 {
				t.Fatalf("swap of %d rejected but exact output is at least one", amountIn)
			}
			return
		}
		if err != nil {
			t.Fatalf("swap failed: %v", err)
		}
		if res.AmountOut == 0 {
			t.Fatalf("swap succeeded with zero output")
		}
		if res.NewDestinationReserve >= reserveOut {
			t.Fatalf("destination reserve %d did not shrink from %d", res.NewDestinationReserve, reserveOut)
		}
		if res.NewSourceReserve != reserveIn+amountIn {
			t.Fatalf("source reserve %d, want %d", res.NewSourceReserve, reserveIn+amountIn)
		}
		if res.NewDestinationReserve+res.AmountOut != reserveOut {
			t.Fatalf("destination reserve does not balance")
		}
		if res.AmountOut >= reserveOut {
			t.Fatalf("swap drained reserve")
		}

		before := new(big.Int).Mul(new(big.Int).SetUint64(reserveIn), new(big.Int).SetUint64(reserveOut))
		after := new(big.Int).Mul(new(big.Int).SetUint64(res.NewSourceReserve), new(big.Int).SetUint64(res.NewDestinationReserve))
		if after.Cmp(before) < 0 {
			t.Fatalf("invariant decreased: %s < %s", after, before)
		}

		bigger, err := Swap(amountIn+1, reserveIn, reserveOut, fees)
		if errors.Is(err, model.ErrZeroAmount) {
			// Fees can round up by one each, so a larger input may net less.
			if swapAfterFee(t, amountIn+1, fees).Uint64() >= res.AmountInAfterFee {
				t.Fatalf("larger input rejected with no smaller after-fee amount")
			}
			return
		}
		if err != nil {
			t.Fatalf("swap failed: %v", err)
		}
		if bigger.AmountInAfterFee >= res.AmountInAfterFee && bigger.AmountOut < res.AmountOut {
			t.Fatalf("output not monotonic in after-fee input")
		}
	})
}

func swapAfterFee(t *rapid.T, amountIn uint64, fees model.FeeSchedule) *big.Int {
	trade, err := Fee(amountIn, fees.TradeFeeNumerator, fees.TradeFeeDenominator)
	if err != nil {
		t.Fatalf("trade fee: %v", err)
	}
	owner, err := Fee(amountIn, fees.OwnerTradeFeeNumerator, fees.OwnerTradeFeeDenominator)
	if err != nil {
		t.Fatalf("owner fee: %v", err)
	}
	return new(big.Int).SetUint64(amountIn - trade - owner)
}

func TestDepositAllProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveA := rapid.Uint64Range(1<<16, 1<<48).Draw(t, "reserveA")
		reserveB := rapid.Uint64Range(1<<16, 1<<48).Draw(t, "reserveB")
		supply := rapid.Uint64Range(1, 1<<30).Draw(t, "supply")
		limit := rapid.Uint64Range(0, 1<<48).Draw(t, "max")

		res, err := DepositAll(limit, limit, reserveA, reserveB, supply)
		if err != nil {
			t.Fatalf("deposit failed: %v", err)
		}

		s := new(big.Int).SetUint64(supply)
		m := new(big.Int).SetUint64(limit)
		fromA := new(big.Int).Quo(new(big.Int).Mul(m, s), new(big.Int).SetUint64(reserveA))
		fromB := new(big.Int).Quo(new(big.Int).Mul(m, s), new(big.Int).SetUint64(reserveB))
		want := fromA
		if fromB.Cmp(fromA) < 0 {
			want = fromB
		}
		if want.Uint64() != res.PoolTokens {
			t.Fatalf("pool tokens %d, want %s", res.PoolTokens, want)
		}
		if res.TokenA > limit || res.TokenB > limit {
			t.Fatalf("consumed %d/%d above cap %d", res.TokenA, res.TokenB, limit)
		}

		// a'/b' stays within one unit of a/b: |a'*b - b'*a| <= max(a, b).
		newA := new(big.Int).SetUint64(reserveA + res.TokenA)
		newB := new(big.Int).SetUint64(reserveB + res.TokenB)
		cross := new(big.Int).Sub(
			new(big.Int).Mul(newA, new(big.Int).SetUint64(reserveB)),
			new(big.Int).Mul(newB, new(big.Int).SetUint64(reserveA)),
		)
		bound := reserveA
		if reserveB > bound {
			bound = reserveB
		}
		if cross.CmpAbs(new(big.Int).SetUint64(bound)) > 0 {
			t.Fatalf("reserve ratio drifted: cross term %s", cross)
		}
	})
}

func TestSingleSidedRoundTripProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserve := rapid.Uint64Range(1, 1<<58).Draw(t, "reserve")
		supply := rapid.Uint64Range(1, 1<<50).Draw(t, "supply")
		amount := rapid.Uint64Range(1, 3*reserve).Draw(t, "amount")

		minted, err := DepositSingle(amount, reserve, supply)
		if err != nil {
			t.Fatalf("deposit failed: %v", err)
		}
		burned, err := WithdrawSingle(amount, reserve+amount, supply+minted)
		if err != nil {
			t.Fatalf("withdraw failed: %v", err)
		}

		diff := int64(burned) - int64(minted)
		if diff < -1 || diff > 1 {
			t.Fatalf("deposit minted %d but withdraw burns %d", minted, burned)
		}
	})
}

func TestSingleSidedMatchesRealFormula(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserve := rapid.Uint64Range(1_000, 1<<40).Draw(t, "reserve")
		supply := rapid.Uint64Range(1_000, 1<<32).Draw(t, "supply")
		amount := rapid.Uint64Range(1, reserve-1).Draw(t, "amount")

		burned, err := WithdrawSingle(amount, reserve, supply)
		if err != nil {
			t.Fatalf("withdraw failed: %v", err)
		}

		// Compare against a 200-bit float evaluation of the same expression.
		prec := uint(200)
		ratio := new(big.Float).SetPrec(prec).Quo(
			new(big.Float).SetPrec(prec).SetUint64(reserve-amount),
			new(big.Float).SetPrec(prec).SetUint64(reserve),
		)
		root := new(big.Float).SetPrec(prec).Sqrt(ratio)
		exact := new(big.Float).SetPrec(prec).Mul(
			new(big.Float).SetPrec(prec).SetUint64(supply),
			new(big.Float).SetPrec(prec).Sub(big.NewFloat(1).SetPrec(prec), root),
		)
		exact.Add(exact, big.NewFloat(0.5))
		want, _ := exact.Uint64()
		if burned != want {
			t.Fatalf("burned %d, real formula rounds to %d", burned, want)
		}
	})
}
