package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, StoreFile, cfg.Store)
	require.Equal(t, "./data/pools.jsonl", cfg.StorePath)
	require.Equal(t, "./data/ledger.json", cfg.LedgerSnapshot)
	require.True(t, cfg.Cache)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: pebble\nstore-path: /from/file\nlog-level: warn\n"), 0o644))
	t.Setenv("EXCHANGE_LOG_LEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("store-path", "", "")
	require.NoError(t, flags.Parse([]string{"--store-path=/from/flag"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	require.Equal(t, StorePebble, cfg.Store)
	require.Equal(t, "/from/flag", cfg.StorePath)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejects(t *testing.T) {
	t.Setenv("EXCHANGE_STORE", "redis")
	_, err := Load("", nil)
	require.Error(t, err)

	t.Setenv("EXCHANGE_STORE", "postgres")
	_, err = Load("", nil)
	require.ErrorContains(t, err, "pg-dsn")
}

func TestLoadReplay(t *testing.T) {
	flags := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	flags.String("in", "", "")
	flags.Bool("append", false, "")
	require.NoError(t, flags.Parse([]string{"--in=ops.jsonl", "--append"}))

	cfg, err := LoadReplay("", flags)
	require.NoError(t, err)
	require.Equal(t, "ops.jsonl", cfg.In)
	require.True(t, cfg.Append)
	require.Equal(t, "./data/executions.jsonl", cfg.Out)
	require.Equal(t, StoreFile, cfg.Store)
}
