package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Pool store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePebble   = "pebble"
	StorePostgres = "postgres"
)

// Config holds the settings shared by every command, loaded from flags, env, or config file.
type Config struct {
	ProgramID      string
	Store          string
	StorePath      string
	PGDSN          string
	LedgerSnapshot string
	Cache          bool
	LogLevel       string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}
	return fromViper(v)
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("EXCHANGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("store", StoreFile)
	v.SetDefault("store-path", "./data/pools.jsonl")
	v.SetDefault("ledger-snapshot", "./data/ledger.json")
	v.SetDefault("cache", true)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		ProgramID:      v.GetString("program-id"),
		Store:          strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		StorePath:      v.GetString("store-path"),
		PGDSN:          v.GetString("pg-dsn"),
		LedgerSnapshot: v.GetString("ledger-snapshot"),
		Cache:          v.GetBool("cache"),
		LogLevel:       v.GetString("log-level"),
	}

	switch cfg.Store {
	case StoreMemory:
	case StoreFile, StorePebble:
		if cfg.StorePath == "" {
			return Config{}, fmt.Errorf("store-path is required for %s store", cfg.Store)
		}
	case StorePostgres:
		if cfg.PGDSN == "" {
			return Config{}, fmt.Errorf("pg-dsn is required for postgres store")
		}
	default:
		return Config{}, fmt.Errorf("unknown store %q", cfg.Store)
	}
	return cfg, nil
}
