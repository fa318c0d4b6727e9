// spoolsim boots a pool from config and drives a scripted scenario against
// it: seed liquidity, swap, rebalance, then persist a snapshot and journal.
// It exists to exercise the full stack end to end, not to manage real funds.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spoolfi/spool-go/bank"
	"github.com/spoolfi/spool-go/config"
	"github.com/spoolfi/spool-go/pool"
	"github.com/spoolfi/spool-go/pricing"
	"github.com/spoolfi/spool-go/store"
	"github.com/spoolfi/spool-go/svc"
	"github.com/spoolfi/spool-go/txn"
)

func main() {
	root := &cobra.Command{
		Use:          "spoolsim",
		Short:        "multi-LST pool scenario driver",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo scenario",
		RunE:  runScenario,
	}
	runCmd.Flags().Uint32("trading-fee-bps", 0, "protocol cut of the swap spread")
	runCmd.Flags().Uint32("liquidity-fee-bps", 0, "protocol cut of the withdrawal spread")
	runCmd.Flags().String("journal", "./data/journal.jsonl", "transaction journal JSONL path")
	runCmd.Flags().String("snapshot", "./data/pool.snapshot", "pool snapshot path")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScenario(cmd *cobra.Command, _ []string) error {
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

	ctx := context.Background()

	admin := solana.NewWallet().PublicKey()
	operator := solana.NewWallet().PublicKey()
	trader := solana.NewWallet()

	// Two LSTs: wrapped SOL at par and a staked SOL at a 1.05 rate.
	wsolMint := solana.NewWallet().PublicKey()
	lstMint := solana.NewWallet().PublicKey()

	calculators := svc.NewRegistry()
	wsolCalc := svc.NewWsolCalculator(solana.NewWallet().PublicKey())
	calculators.Register(wsolCalc)
	rateCalc, err := svc.NewRateCalculator(solana.NewWallet().PublicKey(), 1_050_000_000, 1_000_000_000)
	if err != nil {
		return err
	}
	calculators.Register(rateCalc)

	pricings := pricing.NewRegistry()
	flat, err := pricing.NewFlatFeePricing(solana.NewWallet().PublicKey(), 10, 10)
	if err != nil {
		return err
	}
	pricings.Register(flat)

	b := bank.New()
	for _, mint := range []solana.PublicKey{wsolMint, lstMint} {
		if err := b.CreateMint(mint); err != nil {
			return err
		}
	}

	p, err := pool.New(b, calculators, pricings, pool.Params{
		Admin:              admin,
		RebalanceAuthority: operator,
		FeeBeneficiary:     admin,
		PricingProgram:     flat.Program(),
		TradingFeeBps:      cfg.TradingFeeBps,
		LiquidityFeeBps:    cfg.LiquidityFeeBps,
	})
	if err != nil {
		return err
	}

	wsolIdx, err := p.AddLst(admin, wsolMint, wsolCalc.Program())
	if err != nil {
		return err
	}
	lstIdx, err := p.AddLst(admin, lstMint, rateCalc.Program())
	if err != nil {
		return err
	}

	// Trader accounts funded with both assets plus an LP account.
	traderWsol, err := b.CreateAccount(wsolMint, trader.PublicKey())
	if err != nil {
		return err
	}
	traderLst, err := b.CreateAccount(lstMint, trader.PublicKey())
	if err != nil {
		return err
	}
	traderLp, err := b.CreateAccount(p.LpMint(), trader.PublicKey())
	if err != nil {
		return err
	}
	if err := b.MintTo(traderWsol, 10_000_000_000); err != nil {
		return err
	}
	if err := b.MintTo(traderLst, 10_000_000_000); err != nil {
		return err
	}

	runner := txn.NewRunner(p, b, logger).WithSink(store.NewJournal(cfg.JournalPath))

	// Seed both sides of the pool.
	for _, seed := range []struct {
		idx  int
		from solana.PublicKey
	}{{wsolIdx, traderWsol}, {lstIdx, traderLst}} {
		seed := seed
		err := runner.Do(ctx, txn.Instruction{Kind: pool.KindAddLiquidity, Run: func(*txn.Scope) error {
			_, err := p.AddLiquidity(pool.AddLiquidityArgs{
				LstIndex:      seed.idx,
				Amount:        5_000_000_000,
				SourceAccount: seed.from,
				LpDestination: traderLp,
			})
			return err
		}})
		if err != nil {
			return err
		}
	}

	// A swap in each direction.
	err = runner.Do(ctx, txn.Instruction{Kind: pool.KindSwapExactIn, Run: func(*txn.Scope) error {
		quote, err := p.SwapExactIn(pool.SwapArgs{
			SrcLstIndex:        wsolIdx,
			DstLstIndex:        lstIdx,
			Amount:             1_000_000_000,
			SourceAccount:      traderWsol,
			DestinationAccount: traderLst,
		})
		if err != nil {
			return err
		}
		logger.Info("swap quote",
			zap.Uint64("in", quote.InAmount),
			zap.Uint64("out", quote.OutAmount),
			zap.Uint64("protocol_fee_lst", quote.ProtocolFeeLst),
		)
		return nil
	}})
	if err != nil {
		return err
	}

	// Rebalance: pull wsol out, return equivalent staked SOL value.
	operatorWsol, err := b.CreateAccount(wsolMint, operator)
	if err != nil {
		return err
	}
	operatorLst, err := b.CreateAccount(lstMint, operator)
	if err != nil {
		return err
	}
	if err := b.MintTo(operatorLst, 2_000_000_000); err != nil {
		return err
	}

	lstReserves, err := p.Entry(lstIdx)
	if err != nil {
		return err
	}
	err = runner.Execute(ctx,
		txn.Instruction{Kind: pool.KindStartRebalance, Run: func(s *txn.Scope) error {
			return p.StartRebalance(s, pool.StartRebalanceArgs{
				Authority:   operator,
				SrcLstIndex: wsolIdx,
				DstLstIndex: lstIdx,
				Amount:      1_000_000_000,
				WithdrawTo:  operatorWsol,
			})
		}},
		txn.Instruction{Kind: "DepositStake", Run: func(*txn.Scope) error {
			// Stand-in for the external repositioning: hand back enough
			// staked SOL to cover the withdrawn value.
			return b.Transfer(operatorLst, lstReserves.Reserves, 1_000_000_000)
		}},
		txn.Instruction{Kind: pool.KindEndRebalance, Run: func(*txn.Scope) error {
			return p.EndRebalance()
		}},
	)
	if err != nil {
		return err
	}

	snap, err := store.Capture(p)
	if err != nil {
		return err
	}
	if err := store.Save(cfg.SnapshotPath, snap); err != nil {
		return err
	}

	total, ok, err := store.LastCommittedTotal(cfg.JournalPath)
	if err != nil {
		return err
	}
	if ok {
		logger.Info("journal tail", zap.Uint64("total_sol_value", total))
	}

	fmt.Printf("pool total sol value: %d across %d entries\n", p.TotalSolValue(), p.EntryCount())
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
