package main

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"poolExchange/internal/address"
	"poolExchange/internal/config"
	"poolExchange/internal/exchange"
	"poolExchange/internal/report"
)

// poolSummary is a pool view with its balances rendered in whole tokens.
type poolSummary struct {
	exchange.PoolView
	ReserveAUI string `json:"reserve_a_ui"`
	ReserveBUI string `json:"reserve_b_ui"`
	SupplyUI   string `json:"supply_ui"`
	SpotPrice  string `json:"spot_price,omitempty"`
}

func showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print stored pools with live reserves, supply and spot price",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
	cmd.Flags().String("pool", "", "pool address (default all pools)")
	return cmd
}

func runShow(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := openEnvironment(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer env.Close(context.Background())

	var views []exchange.PoolView
	if raw, _ := cmd.Flags().GetString("pool"); raw != "" {
		addr, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return fmt.Errorf("pool: %w", err)
		}
		v, err := env.engine.Pool(ctx, addr)
		if err != nil {
			return err
		}
		views = []exchange.PoolView{v}
	} else if views, err = env.engine.Pools(ctx); err != nil {
		return err
	}

	decimals := report.NewDecimalsCache()
	summaries := make([]poolSummary, 0, len(views))
	for _, v := range views {
		decA, err := decimals.Lookup(ctx, env.ledger, v.State.TokenAMint)
		if err != nil {
			return fmt.Errorf("pool %s mint a: %w", v.Address, err)
		}
		decB, err := decimals.Lookup(ctx, env.ledger, v.State.TokenBMint)
		if err != nil {
			return fmt.Errorf("pool %s mint b: %w", v.Address, err)
		}
		decPool, err := decimals.Lookup(ctx, env.ledger, v.State.Mint)
		if err != nil {
			return fmt.Errorf("pool %s pool mint: %w", v.Address, err)
		}
		price, _ := report.SpotPrice(v.ReserveA, v.ReserveB, decA, decB)
		summaries = append(summaries, poolSummary{
			PoolView:   v,
			ReserveAUI: report.FormatTokenAmount(decimal.NewFromUint64(v.ReserveA), decA),
			ReserveBUI: report.FormatTokenAmount(decimal.NewFromUint64(v.ReserveB), decB),
			SupplyUI:   report.FormatTokenAmount(decimal.NewFromUint64(v.Supply), decPool),
			SpotPrice:  price,
		})
	}

	if len(summaries) == 1 {
		return printJSON(cmd, summaries[0])
	}
	return printJSON(cmd, summaries)
}

func deriveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the pool, authority and pool-mint addresses of a pool identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			programID := address.DefaultProgramID
			if cfg.ProgramID != "" {
				if programID, err = solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
					return fmt.Errorf("program id: %w", err)
				}
			}

			keys := make([]solana.PublicKey, 0, 3)
			for _, name := range []string{"mint-a", "mint-b", "creator"} {
				raw, _ := cmd.Flags().GetString(name)
				if raw == "" {
					return fmt.Errorf("--%s is required", name)
				}
				key, err := solana.PublicKeyFromBase58(raw)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				keys = append(keys, key)
			}

			derived, err := address.Derive(programID, keys[0], keys[1], keys[2])
			if err != nil {
				return err
			}
			return printJSON(cmd, derived)
		},
	}
	cmd.Flags().String("mint-a", "", "token A mint")
	cmd.Flags().String("mint-b", "", "token B mint")
	cmd.Flags().String("creator", "", "pool creator")
	return cmd
}
