package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poolExchange/internal/address"
	"poolExchange/internal/config"
	"poolExchange/internal/exchange"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
	"poolExchange/internal/storage"
	"poolExchange/internal/storage/pebble"
	"poolExchange/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "exchange",
		Short:        "Constant-product pool exchange",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("program-id", "", "program id pools are derived under (default "+address.DefaultProgramID.String()+")")
	root.PersistentFlags().String("store", config.StoreFile, "pool store (memory, file, pebble, postgres)")
	root.PersistentFlags().String("store-path", "./data/pools.jsonl", "pool store file or directory")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN for the postgres store")
	root.PersistentFlags().String("ledger-snapshot", "./data/ledger.json", "token ledger snapshot path, empty keeps the ledger in memory")
	root.PersistentFlags().Bool("cache", true, "cache pool records in memory")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Execute a JSONL file of ledger and pool instructions",
		RunE:  runReplay,
	}

	replayCmd.Flags().String("in", "", "input instruction records JSONL")
	replayCmd.Flags().String("out", "./data/executions.jsonl", "output execution records JSONL")
	replayCmd.Flags().String("errors", "./data/exec_errors.jsonl", "failed records JSONL")
	replayCmd.Flags().String("summary", "./data/activity.jsonl", "per-pool activity JSONL")
	replayCmd.Flags().Bool("append", false, "append to output files instead of truncating")

	root.AddCommand(replayCmd)

	for _, cmd := range opCommands() {
		root.AddCommand(cmd)
	}
	root.AddCommand(showCommand(), deriveCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// environment is the engine with the stores it was opened on.
type environment struct {
	engine   *exchange.Engine
	ledger   *ledger.Memory
	pools    storage.PoolStore
	snapshot *ledger.SnapshotFile
	logger   *zap.Logger
}

func openEnvironment(ctx context.Context, cfg config.Config, logger *zap.Logger) (*environment, error) {
	programID := address.DefaultProgramID
	if cfg.ProgramID != "" {
		parsed, err := solana.PublicKeyFromBase58(cfg.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("program id: %w", err)
		}
		programID = parsed
	}

	pools, err := openPoolStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Cache {
		cached, err := storage.NewCachedStore(pools, logger)
		if err != nil {
			pools.Close()
			return nil, err
		}
		pools = cached
	}

	snapshot := &ledger.SnapshotFile{Path: cfg.LedgerSnapshot}
	l, found, err := snapshot.Load(ctx)
	if err != nil {
		pools.Close()
		return nil, err
	}

	engine := exchange.New(programID, pools, l, logger)
	unbacked, err := engine.UnbackedPools(ctx)
	if err != nil {
		pools.Close()
		return nil, err
	}
	for _, pool := range unbacked {
		logger.Warn("pool has no ledger state, run initialize again with the same accounts and fees",
			zap.String("pool", pool.String()),
		)
	}

	logger.Info("environment open",
		zap.String("program_id", programID.String()),
		zap.String("store", cfg.Store),
		zap.String("store_path", cfg.StorePath),
		zap.Bool("cache", cfg.Cache),
		zap.String("ledger_snapshot", cfg.LedgerSnapshot),
		zap.Bool("ledger_restored", found),
	)

	return &environment{
		engine:   engine,
		ledger:   l,
		pools:    pools,
		snapshot: snapshot,
		logger:   logger,
	}, nil
}

func openPoolStore(ctx context.Context, cfg config.Config) (storage.PoolStore, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil
	case config.StoreFile:
		return storage.OpenJsonlStore(cfg.StorePath)
	case config.StorePebble:
		return pebble.Open(cfg.StorePath)
	case config.StorePostgres:
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// execute runs rec. An initialize makes its pool record durable before returning, so the
// ledger is saved right after it to keep the two stores in step.
func (e *environment) execute(ctx context.Context, rec model.InstructionRecord) (*model.Event, error) {
	x := &executor{engine: e.engine, ledger: e.ledger}
	ev, err := x.Execute(ctx, rec)
	if err != nil {
		return nil, err
	}
	if ev != nil && ev.Kind == model.KindInitialize {
		if err := e.snapshot.Save(ctx, e.ledger); err != nil {
			return ev, fmt.Errorf("save ledger after initialize: %w", err)
		}
	}
	return ev, nil
}

// Close persists the ledger and closes the pool store.
func (e *environment) Close(ctx context.Context) error {
	saveErr := e.snapshot.Save(ctx, e.ledger)
	closeErr := e.pools.Close()
	if saveErr != nil {
		return saveErr
	}
	return closeErr
}
