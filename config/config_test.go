package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "admin: pool-admin\n"), nil)
	require.NoError(t, err)

	require.Equal(t, "pool-admin", cfg.Admin)
	require.Zero(t, cfg.TradingFeeBps)
	require.Zero(t, cfg.LiquidityFeeBps)
	require.Equal(t, "./data/journal.jsonl", cfg.JournalPath)
	require.Equal(t, "./data/pool.snapshot", cfg.SnapshotPath)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.Lsts)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
admin: pool-admin
rebalance-authority: pool-operator
fee-beneficiary: treasury
pricing-program: flat-fee
trading-fee-bps: 100
liquidity-fee-bps: 200
journal: /var/lib/spool/journal.jsonl
log-level: debug
lsts:
  - mint: msol-mint
    calculator: msol-calculator
  - mint: jitosol-mint
    calculator: spl-calculator
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	require.Equal(t, "pool-operator", cfg.RebalanceAuthority)
	require.Equal(t, "treasury", cfg.FeeBeneficiary)
	require.Equal(t, "flat-fee", cfg.PricingProgram)
	require.Equal(t, uint16(100), cfg.TradingFeeBps)
	require.Equal(t, uint16(200), cfg.LiquidityFeeBps)
	require.Equal(t, "/var/lib/spool/journal.jsonl", cfg.JournalPath)
	require.Equal(t, "debug", cfg.LogLevel)

	require.Len(t, cfg.Lsts, 2)
	require.Equal(t, LstConfig{Mint: "msol-mint", Calculator: "msol-calculator"}, cfg.Lsts[0])
	require.Equal(t, LstConfig{Mint: "jitosol-mint", Calculator: "spl-calculator"}, cfg.Lsts[1])
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := writeConfig(t, "trading-fee-bps: 100\nlog-level: info\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint16("trading-fee-bps", 0, "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--trading-fee-bps=250", "--log-level=warn"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	require.Equal(t, uint16(250), cfg.TradingFeeBps)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsExcessiveFees(t *testing.T) {
	_, err := Load(writeConfig(t, "trading-fee-bps: 10001\n"), nil)
	require.Error(t, err)

	_, err = Load(writeConfig(t, "liquidity-fee-bps: 10001\n"), nil)
	require.Error(t, err)

	// Values past uint16 must not wrap into range before validation.
	_, err = Load(writeConfig(t, "trading-fee-bps: 70000\n"), nil)
	require.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}
