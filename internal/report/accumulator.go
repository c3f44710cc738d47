package report

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"poolExchange/internal/model"
)

// Accumulator holds activity totals for one pool. Token amounts are raw base units.
type Accumulator struct {
	Pool               solana.PublicKey
	Swaps              uint64
	Deposits           uint64
	Withdrawals        uint64
	Volume             [2]decimal.Decimal
	TradingFee         [2]decimal.Decimal
	OwnerFee           [2]decimal.Decimal
	PoolTokensMinted   decimal.Decimal
	PoolTokensBurned   decimal.Decimal
	OwnerFeePoolTokens decimal.Decimal
	WithdrawFees       decimal.Decimal
}

func NewAccumulator(pool solana.PublicKey) *Accumulator {
	return &Accumulator{Pool: pool}
}

// AddEvent folds one executed instruction into the totals. Initialize carries no activity.
func (a *Accumulator) AddEvent(ev model.Event) error {
	if !ev.Pool.Equals(a.Pool) {
		return fmt.Errorf("event for pool %s added to %s", ev.Pool, a.Pool)
	}

	switch data := ev.Data.(type) {
	case model.InitializeResult:
		return nil
	case model.DepositAllResult:
		a.Deposits++
		a.PoolTokensMinted = add(a.PoolTokensMinted, data.PoolTokensOut)
	case model.DepositSingleResult:
		a.Deposits++
		a.PoolTokensMinted = add(a.PoolTokensMinted, data.PoolTokensOut)
	case model.WithdrawSingleResult:
		a.Withdrawals++
		a.PoolTokensBurned = add(a.PoolTokensBurned, data.PoolTokensBurned)
		a.WithdrawFees = add(a.WithdrawFees, data.WithdrawFee)
	case model.SwapResult:
		in, out := data.Side, data.Side.Other()
		a.Swaps++
		a.Volume[in] = add(a.Volume[in], data.AmountIn)
		a.Volume[out] = add(a.Volume[out], data.AmountOut)
		a.TradingFee[in] = add(a.TradingFee[in], data.TradingFee)
		a.OwnerFee[in] = add(a.OwnerFee[in], data.OwnerFee)
		a.PoolTokensMinted = add(a.PoolTokensMinted, data.OwnerFeePoolTokens)
		a.OwnerFeePoolTokens = add(a.OwnerFeePoolTokens, data.OwnerFeePoolTokens)
	default:
		return fmt.Errorf("unknown event %s", ev.Kind)
	}
	return nil
}

func add(total decimal.Decimal, amount uint64) decimal.Decimal {
	return total.Add(decimal.NewFromUint64(amount))
}
