// Package config loads pool bootstrap configuration with the usual layering:
// flags over environment (SPOOL_*) over config file over defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// LstConfig declares one supported asset and its valuation plugin identity.
type LstConfig struct {
	Mint       string `mapstructure:"mint"`
	Calculator string `mapstructure:"calculator"`
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Admin              string
	RebalanceAuthority string
	FeeBeneficiary     string
	PricingProgram     string

	TradingFeeBps   uint16
	LiquidityFeeBps uint16

	Lsts []LstConfig

	JournalPath  string
	SnapshotPath string
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("trading-fee-bps", 0)
	v.SetDefault("liquidity-fee-bps", 0)
	v.SetDefault("journal", "./data/journal.jsonl")
	v.SetDefault("snapshot", "./data/pool.snapshot")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("spool")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var lsts []LstConfig
	if err := v.UnmarshalKey("lsts", &lsts); err != nil {
		return Config{}, fmt.Errorf("parse lsts: %w", err)
	}

	// Validate at full width before narrowing, so an oversized value cannot
	// wrap into range.
	tradingFee := v.GetUint32("trading-fee-bps")
	liquidityFee := v.GetUint32("liquidity-fee-bps")
	if tradingFee > 10_000 || liquidityFee > 10_000 {
		return Config{}, fmt.Errorf("fee above 10000 bps: trading %d, liquidity %d", tradingFee, liquidityFee)
	}

	return Config{
		Admin:              v.GetString("admin"),
		RebalanceAuthority: v.GetString("rebalance-authority"),
		FeeBeneficiary:     v.GetString("fee-beneficiary"),
		PricingProgram:     v.GetString("pricing-program"),
		TradingFeeBps:      uint16(tradingFee),
		LiquidityFeeBps:    uint16(liquidityFee),
		Lsts:               lsts,
		JournalPath:        v.GetString("journal"),
		SnapshotPath:       v.GetString("snapshot"),
		LogLevel:           v.GetString("log-level"),
	}, nil
}
