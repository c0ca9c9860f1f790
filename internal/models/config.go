package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config represents the application configuration
type Config struct {
	Network      string `env:"STACKS_NETWORK" envDefault:"devnet"`
	NetworksFile string `env:"NETWORKS_FILE"`
	Signer       SignerConfig
	Prices       PriceConfig
	Http         HttpConfig
	Watch        WatchConfig
	Log          LogConfig
	Metrics      MetricsConfig

	// Networks is filled from NETWORKS_FILE (or built-in defaults), not the environment
	Networks map[Network]NetworkConfig `env:"-"`
}

// SignerConfig holds the local development key settings
type SignerConfig struct {
	Mnemonic     string `env:"DEVNET_MNEMONIC"`
	AccountIndex uint32 `env:"DEVNET_ACCOUNT_INDEX" envDefault:"0"`
	FeeMicroStx  uint64 `env:"TX_FEE_USTX" envDefault:"1000"`
}

// PriceConfig holds a static price quote used when no live feed is wired in
type PriceConfig struct {
	NativeUsd       decimal.Decimal `env:"PRICE_STX_USD"`
	WrappedAssetUsd decimal.Decimal `env:"PRICE_SBTC_USD"`
}

// HttpConfig holds node client settings
type HttpConfig struct {
	Timeout               time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
	ResponseHeaderTimeout time.Duration `env:"HTTP_RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
}

// WatchConfig holds campaign watcher settings
type WatchConfig struct {
	PollingInterval time.Duration `env:"WATCH_POLLING_INTERVAL" envDefault:"30s"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMb  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	Addr    string `env:"METRICS_ADDR" envDefault:":9102"`
}
