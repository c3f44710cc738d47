package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"poolExchange/internal/address"
	"poolExchange/internal/config"
	"poolExchange/internal/exchange"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
	"poolExchange/internal/storage"
)

const e9 = 1_000_000_000

type fixture struct {
	minter, mintA, mintB, creator solana.PublicKey
	reserveA, reserveB            solana.PublicKey
	receiver, feeAccount          solana.PublicKey
	user, userA, userB, userPool  solana.PublicKey
	keys                          address.PoolKeys
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	key := func() solana.PublicKey { return solana.NewWallet().PublicKey() }
	f := fixture{
		minter: key(), mintA: key(), mintB: key(), creator: key(),
		reserveA: key(), reserveB: key(), receiver: key(), feeAccount: key(),
		user: key(), userA: key(), userB: key(), userPool: key(),
	}
	keys, err := address.Derive(address.DefaultProgramID, f.mintA, f.mintB, f.creator)
	require.NoError(t, err)
	f.keys = keys
	return f
}

// records builds a setup, initialization and trading sequence for one pool.
func (f fixture) records() []model.InstructionRecord {
	accts := func(kv ...string) map[string]string {
		m := make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[kv[i]] = kv[i+1]
		}
		return m
	}
	fees := model.FeeSchedule{
		TradeFeeNumerator: 5, TradeFeeDenominator: 100,
		OwnerTradeFeeNumerator: 2, OwnerTradeFeeDenominator: 100,
		OwnerWithdrawFeeNumerator: 1, OwnerWithdrawFeeDenominator: 100,
	}
	pool := f.keys.Pool.String()
	return []model.InstructionRecord{
		{Seq: 1, Op: model.OpCreateMint, Decimals: 9, Accounts: accts("mint", f.mintA.String(), "authority", f.minter.String())},
		{Seq: 2, Op: model.OpCreateMint, Decimals: 9, Accounts: accts("mint", f.mintB.String(), "authority", f.minter.String())},
		{Seq: 3, Op: model.OpCreateAccount, Accounts: accts("account", f.reserveA.String(), "mint", f.mintA.String(), "owner", f.keys.Authority.String())},
		{Seq: 4, Op: model.OpCreateAccount, Accounts: accts("account", f.reserveB.String(), "mint", f.mintB.String(), "owner", f.keys.Authority.String())},
		{Seq: 5, Op: model.OpCreateAccount, Accounts: accts("account", f.userA.String(), "mint", f.mintA.String(), "owner", f.user.String())},
		{Seq: 6, Op: model.OpCreateAccount, Accounts: accts("account", f.userB.String(), "mint", f.mintB.String(), "owner", f.user.String())},
		{Seq: 7, Op: model.OpMintTo, Signer: f.minter.String(), Amount: 1000 * e9, Accounts: accts("mint", f.mintA.String(), "to", f.reserveA.String())},
		{Seq: 8, Op: model.OpMintTo, Signer: f.minter.String(), Amount: 1000 * e9, Accounts: accts("mint", f.mintB.String(), "to", f.reserveB.String())},
		{Seq: 9, Op: model.OpMintTo, Signer: f.minter.String(), Amount: 1000 * e9, Accounts: accts("mint", f.mintA.String(), "to", f.userA.String())},
		{Seq: 10, Op: model.OpMintTo, Signer: f.minter.String(), Amount: 1000 * e9, Accounts: accts("mint", f.mintB.String(), "to", f.userB.String())},
		{Seq: 11, Op: model.KindInitialize, Signer: f.creator.String(), Fees: &fees,
			Accounts: accts("token_a", f.reserveA.String(), "token_b", f.reserveB.String(), "receiver", f.receiver.String(), "fee_account", f.feeAccount.String())},
		{Seq: 12, Op: model.OpCreateAccount, Accounts: accts("account", f.userPool.String(), "mint", f.keys.Mint.String(), "owner", f.user.String())},
		{Seq: 13, Op: model.KindDepositAll, Signer: f.user.String(), MinPoolTokensOut: 1, MaxTokenA: 100 * e9, MaxTokenB: 100 * e9,
			Accounts: accts("pool", pool, "user_a", f.userA.String(), "user_b", f.userB.String(), "recipient", f.userPool.String())},
		{Seq: 14, Op: model.KindWithdrawSingle, Signer: f.user.String(), Amount: 50 * e9,
			Accounts: accts("pool", pool, "destination", f.userA.String(), "pool_token", f.userPool.String())},
		{Seq: 15, Op: model.KindSwap, Signer: f.user.String(), Amount: 20 * e9,
			Accounts: accts("pool", pool, "source", f.userA.String(), "destination", f.userB.String())},
		{Seq: 16, Op: model.KindDepositSingle, Signer: f.user.String(), Amount: 40 * e9,
			Accounts: accts("pool", pool, "source", f.userB.String(), "recipient", f.userPool.String())},
	}
}

func newExecutor() (*executor, *ledger.Memory) {
	l := ledger.NewMemory()
	engine := exchange.New(address.DefaultProgramID, storage.NewMemoryStore(), l, nil)
	return &executor{engine: engine, ledger: l}, l
}

func TestExecutorRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	x, l := newExecutor()

	var events []*model.Event
	for _, rec := range f.records() {
		ev, err := x.Execute(ctx, rec)
		require.NoError(t, err, "record %d (%s)", rec.Seq, rec.Op)
		if ev != nil {
			events = append(events, ev)
		}
	}
	require.Len(t, events, 5)

	initResult := events[0].Data.(model.InitializeResult)
	require.Equal(t, f.keys.Pool, initResult.Pool)
	require.Equal(t, f.keys.Mint, initResult.Mint)
	require.Equal(t, uint64(100_000_000), events[1].Data.(model.DepositAllResult).PoolTokensOut)
	require.Equal(t, uint64(25_290_737), events[2].Data.(model.WithdrawSingleResult).PoolTokensBurned)
	require.Equal(t, uint64(19_146_546_883), events[3].Data.(model.SwapResult).AmountOut)
	require.Equal(t, uint64(19_709_333), events[4].Data.(model.DepositSingleResult).PoolTokensOut)

	mint, err := l.GetMint(ctx, f.keys.Mint)
	require.NoError(t, err)
	require.Equal(t, uint64(1_094_619_495), mint.Supply)

	fee, err := l.GetAccount(ctx, f.feeAccount)
	require.NoError(t, err)
	require.Equal(t, uint64(453_806), fee.Amount)
}

func TestExecutorRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	records := f.records()

	tests := []struct {
		name   string
		mutate func(rec *model.InstructionRecord)
		seq    uint64
		code   uint32
	}{
		{
			name:   "unknown op",
			seq:    1,
			mutate: func(rec *model.InstructionRecord) { rec.Op = "close_pool" },
		},
		{
			name:   "missing role",
			seq:    13,
			mutate: func(rec *model.InstructionRecord) { delete(rec.Accounts, "recipient") },
		},
		{
			name:   "missing signer",
			seq:    15,
			mutate: func(rec *model.InstructionRecord) { rec.Signer = "" },
		},
		{
			name:   "signer does not own source",
			seq:    15,
			mutate: func(rec *model.InstructionRecord) { rec.Signer = f.creator.String() },
			code:   model.ErrAccountMismatch.ABCICode(),
		},
		{
			name: "unknown pool",
			seq:  15,
			mutate: func(rec *model.InstructionRecord) {
				rec.Accounts["pool"] = solana.NewWallet().PublicKey().String()
			},
			code: model.ErrPoolNotFound.ABCICode(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, _ := newExecutor()
			for _, rec := range f.records() {
				if rec.Seq == tt.seq {
					break
				}
				_, err := x.Execute(ctx, rec)
				require.NoError(t, err)
			}

			rec := records[tt.seq-1]
			rec.Accounts = copyAccounts(rec.Accounts)
			tt.mutate(&rec)
			_, err := x.Execute(ctx, rec)
			require.Error(t, err)
			require.Equal(t, tt.code, model.ErrorCode(err))
		})
	}
}

func copyAccounts(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func TestJSONLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jsonl")

	w, err := newJSONLWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Write(model.ExecError{Seq: 1, Op: model.KindSwap, Error: "first"}))
	require.NoError(t, w.Close())

	w, err = newJSONLWriter(path, true)
	require.NoError(t, err)
	require.NoError(t, w.Write(model.ExecError{Seq: 2, Op: model.KindSwap, Error: "second"}))
	require.NoError(t, w.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var got []model.ExecError
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec model.ExecError
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		got = append(got, rec)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].Error)
	require.Equal(t, "second", got[1].Error)
}

func TestEnvironmentKeepsLedgerWithPoolRecords(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := config.Config{
		Store:          config.StoreFile,
		StorePath:      filepath.Join(dir, "pools.jsonl"),
		LedgerSnapshot: filepath.Join(dir, "ledger.json"),
	}
	f := newFixture(t)
	records := f.records()

	env, err := openEnvironment(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	for _, rec := range records[:11] {
		_, err := env.execute(ctx, rec)
		require.NoError(t, err, "record %d (%s)", rec.Seq, rec.Op)
	}
	// Stop without Close: only what execute persisted survives.
	require.NoError(t, env.pools.Close())

	env, err = openEnvironment(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close(ctx) })

	unbacked, err := env.engine.UnbackedPools(ctx)
	require.NoError(t, err)
	require.Empty(t, unbacked)

	view, err := env.engine.Pool(ctx, f.keys.Pool)
	require.NoError(t, err)
	require.Equal(t, uint64(model.InitialPoolTokenSupply), view.Supply)
	require.Equal(t, uint64(1000*e9), view.ReserveA)

	for _, rec := range records[11:13] {
		_, err := env.execute(ctx, rec)
		require.NoError(t, err, "record %d (%s)", rec.Seq, rec.Op)
	}
}
