package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"poolExchange/internal/config"
	"poolExchange/internal/model"
)

// opDef describes a single-record command.
type opDef struct {
	use   string
	short string
	op    string
	flags func(fs *pflag.FlagSet)
	fill  func(fs *pflag.FlagSet, rec *model.InstructionRecord) error
}

func opCommands() []*cobra.Command {
	defs := []opDef{
		{
			use:   "create-mint",
			short: "Create a token mint (accounts: mint, authority)",
			op:    model.OpCreateMint,
			flags: func(fs *pflag.FlagSet) {
				fs.Uint8("decimals", 9, "mint decimals")
			},
			fill: func(fs *pflag.FlagSet, rec *model.InstructionRecord) (err error) {
				rec.Decimals, err = fs.GetUint8("decimals")
				return err
			},
		},
		{
			use:   "create-account",
			short: "Create a token account (accounts: account, mint, owner)",
			op:    model.OpCreateAccount,
		},
		{
			use:   "mint-to",
			short: "Mint tokens as the mint authority (accounts: mint, to)",
			op:    model.OpMintTo,
			flags: amountFlag("amount to mint"),
			fill:  fillAmount,
		},
		{
			use:   "init",
			short: "Initialize a pool (accounts: token_a, token_b, receiver, fee_account)",
			op:    model.KindInitialize,
			flags: func(fs *pflag.FlagSet) {
				fs.Uint64("trade-fee-num", 25, "trade fee numerator")
				fs.Uint64("trade-fee-den", 10000, "trade fee denominator")
				fs.Uint64("owner-trade-fee-num", 5, "owner trade fee numerator")
				fs.Uint64("owner-trade-fee-den", 10000, "owner trade fee denominator")
				fs.Uint64("owner-withdraw-fee-num", 0, "owner withdraw fee numerator")
				fs.Uint64("owner-withdraw-fee-den", 1, "owner withdraw fee denominator")
			},
			fill: fillFees,
		},
		{
			use:   "deposit-all",
			short: "Deposit both tokens for pool tokens (accounts: pool, user_a, user_b, recipient)",
			op:    model.KindDepositAll,
			flags: func(fs *pflag.FlagSet) {
				fs.Uint64("min-pool-tokens", 0, "minimum pool tokens to receive")
				fs.Uint64("max-a", 0, "maximum token A to deposit")
				fs.Uint64("max-b", 0, "maximum token B to deposit")
			},
			fill: func(fs *pflag.FlagSet, rec *model.InstructionRecord) error {
				var err error
				if rec.MinPoolTokensOut, err = fs.GetUint64("min-pool-tokens"); err != nil {
					return err
				}
				if rec.MaxTokenA, err = fs.GetUint64("max-a"); err != nil {
					return err
				}
				rec.MaxTokenB, err = fs.GetUint64("max-b")
				return err
			},
		},
		{
			use:   "deposit-single",
			short: "Deposit one token for pool tokens (accounts: pool, source, recipient)",
			op:    model.KindDepositSingle,
			flags: amountFlag("amount to deposit"),
			fill:  fillAmount,
		},
		{
			use:   "withdraw-single",
			short: "Withdraw an exact amount of one token (accounts: pool, destination, pool_token)",
			op:    model.KindWithdrawSingle,
			flags: amountFlag("amount to withdraw"),
			fill:  fillAmount,
		},
		{
			use:   "swap",
			short: "Swap one token for the other (accounts: pool, source, destination)",
			op:    model.KindSwap,
			flags: amountFlag("amount to swap in"),
			fill:  fillAmount,
		},
	}

	cmds := make([]*cobra.Command, 0, len(defs))
	for _, def := range defs {
		cmds = append(cmds, newOpCommand(def))
	}
	return cmds
}

func newOpCommand(def opDef) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.use,
		Short: def.short,
		Args:  cobra.NoArgs,
	}
	cmd.Flags().String("signer", "", "signing wallet (creator, user, or mint authority)")
	cmd.Flags().StringToString("account", nil, "account bindings as role=address, repeatable")
	if def.flags != nil {
		def.flags(cmd.Flags())
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		rec := model.InstructionRecord{Op: def.op}
		var err error
		if rec.Signer, err = cmd.Flags().GetString("signer"); err != nil {
			return err
		}
		if rec.Accounts, err = cmd.Flags().GetStringToString("account"); err != nil {
			return err
		}
		if def.fill != nil {
			if err := def.fill(cmd.Flags(), &rec); err != nil {
				return err
			}
		}
		return runOp(cmd, rec)
	}
	return cmd
}

func runOp(cmd *cobra.Command, rec model.InstructionRecord) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := openEnvironment(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ev, execErr := env.execute(ctx, rec)
	if execErr != nil {
		logger.Warn("instruction failed",
			zap.String("op", rec.Op),
			zap.Uint32("code", model.ErrorCode(execErr)),
			zap.Error(execErr),
		)
	}

	// Failed instructions leave the ledger untouched, so saving is safe either way.
	if err := env.Close(context.Background()); err != nil {
		return fmt.Errorf("close environment: %w", err)
	}
	if execErr != nil {
		return execErr
	}
	if ev == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", rec.Op)
		return nil
	}
	return printJSON(cmd, ev)
}

func printJSON(cmd *cobra.Command, value interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func amountFlag(usage string) func(fs *pflag.FlagSet) {
	return func(fs *pflag.FlagSet) {
		fs.Uint64("amount", 0, usage)
	}
}

func fillAmount(fs *pflag.FlagSet, rec *model.InstructionRecord) (err error) {
	rec.Amount, err = fs.GetUint64("amount")
	return err
}

func fillFees(fs *pflag.FlagSet, rec *model.InstructionRecord) error {
	var fees model.FeeSchedule
	for _, f := range []struct {
		name string
		dst  *uint64
	}{
		{"trade-fee-num", &fees.TradeFeeNumerator},
		{"trade-fee-den", &fees.TradeFeeDenominator},
		{"owner-trade-fee-num", &fees.OwnerTradeFeeNumerator},
		{"owner-trade-fee-den", &fees.OwnerTradeFeeDenominator},
		{"owner-withdraw-fee-num", &fees.OwnerWithdrawFeeNumerator},
		{"owner-withdraw-fee-den", &fees.OwnerWithdrawFeeDenominator},
	} {
		v, err := fs.GetUint64(f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	rec.Fees = &fees
	return nil
}
