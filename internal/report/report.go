// Package report summarizes executed pool instructions per pool.
package report

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
)

// PoolReader reads stored pools.
type PoolReader interface {
	Get(ctx context.Context, addr solana.PublicKey) (model.PoolState, error)
}

// Report accumulates pool activity in the order pools are first seen.
type Report struct {
	pools        PoolReader
	mints        ledger.Reader
	logger       *zap.Logger
	decimals     *DecimalsCache
	accumulators map[solana.PublicKey]*Accumulator
	order        []solana.PublicKey
}

func New(pools PoolReader, mints ledger.Reader, logger *zap.Logger) *Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Report{
		pools:        pools,
		mints:        mints,
		logger:       logger,
		decimals:     NewDecimalsCache(),
		accumulators: make(map[solana.PublicKey]*Accumulator),
	}
}

func (r *Report) Add(ev model.Event) error {
	acc := r.accumulators[ev.Pool]
	if acc == nil {
		acc = NewAccumulator(ev.Pool)
		r.accumulators[ev.Pool] = acc
		r.order = append(r.order, ev.Pool)
	}
	return acc.AddEvent(ev)
}

// Activities renders every accumulator. Amounts of a mint whose decimals cannot be read are
// left in base units.
func (r *Report) Activities(ctx context.Context) ([]model.PoolActivity, error) {
	out := make([]model.PoolActivity, 0, len(r.order))
	for _, pool := range r.order {
		state, err := r.pools.Get(ctx, pool)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", pool, err)
		}
		decA := r.lookupDecimals(ctx, state.TokenAMint)
		decB := r.lookupDecimals(ctx, state.TokenBMint)
		decPool := r.lookupDecimals(ctx, state.Mint)

		acc := r.accumulators[pool]
		out = append(out, model.PoolActivity{
			Pool:               pool.String(),
			Swaps:              acc.Swaps,
			Deposits:           acc.Deposits,
			Withdrawals:        acc.Withdrawals,
			VolumeA:            FormatTokenAmount(acc.Volume[model.SideA], decA),
			VolumeB:            FormatTokenAmount(acc.Volume[model.SideB], decB),
			TradingFeeA:        FormatTokenAmount(acc.TradingFee[model.SideA], decA),
			TradingFeeB:        FormatTokenAmount(acc.TradingFee[model.SideB], decB),
			OwnerFeeA:          FormatTokenAmount(acc.OwnerFee[model.SideA], decA),
			OwnerFeeB:          FormatTokenAmount(acc.OwnerFee[model.SideB], decB),
			PoolTokensMinted:   FormatTokenAmount(acc.PoolTokensMinted, decPool),
			PoolTokensBurned:   FormatTokenAmount(acc.PoolTokensBurned, decPool),
			OwnerFeePoolTokens: FormatTokenAmount(acc.OwnerFeePoolTokens, decPool),
			WithdrawFees:       FormatTokenAmount(acc.WithdrawFees, decPool),
		})
	}
	return out, nil
}

// Totals returns the number of swaps, deposits and withdrawals across all pools.
func (r *Report) Totals() (swaps, deposits, withdrawals uint64) {
	accs := lo.Values(r.accumulators)
	swaps = lo.SumBy(accs, func(a *Accumulator) uint64 { return a.Swaps })
	deposits = lo.SumBy(accs, func(a *Accumulator) uint64 { return a.Deposits })
	withdrawals = lo.SumBy(accs, func(a *Accumulator) uint64 { return a.Withdrawals })
	return swaps, deposits, withdrawals
}

func (r *Report) lookupDecimals(ctx context.Context, mint solana.PublicKey) uint8 {
	decimals, err := r.decimals.Lookup(ctx, r.mints, mint)
	if err != nil {
		r.logger.Warn("mint decimals", zap.String("mint", mint.String()), zap.Error(err))
		return 0
	}
	return decimals
}
