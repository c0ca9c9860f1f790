package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"stacks-crowdfund-go/internal/api"
	"stacks-crowdfund-go/internal/executor"
	"stacks-crowdfund-go/internal/models"
	"stacks-crowdfund-go/internal/signer"
	"stacks-crowdfund-go/internal/stacks"
	"stacks-crowdfund-go/internal/store"
	"stacks-crowdfund-go/internal/txbuilder"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Network       models.NetworkConfig
	Client        *stacks.Client
	Ledger        *store.LedgerReader
	Prices        store.PriceSource
	Builder       *txbuilder.Builder
	Executor      *executor.Executor
	Campaign      *api.CampaignService
	LocalKey      *signer.LocalKey // nil when DEVNET_MNEMONIC is unset
	Registry      *prometheus.Registry
	FeeMicroStx   uint64
	metricsServer *http.Server
}

// InitializeLogger installs the global zap logger. When cfg.File is set, logs
// are also written to a rotating file.
func InitializeLogger(cfg models.LogConfig) (*zap.Logger, func()) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	prodCfg := zap.NewProductionConfig()
	prodCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := prodCfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if cfg.File != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(prodCfg.EncoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSizeMb, // megabytes
				MaxBackups: cfg.MaxBackups,
			}),
			level,
		)
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	network, err := models.ParseNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	netCfg, ok := cfg.Networks[network]
	if !ok {
		return nil, fmt.Errorf("no configuration for network %s", network)
	}

	zap.L().Info("Connecting to Stacks node",
		zap.String("network", string(network)),
		zap.String("node_url", netCfg.NodeUrl),
		zap.String("fundraising", netCfg.Fundraising.String()))

	client, err := stacks.NewClient(netCfg.NodeUrl, cfg.Http)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	ledger := store.NewLedgerReader(client, netCfg)
	prices := store.NewStaticPriceSource(models.PriceQuote{
		NativeUsd:       cfg.Prices.NativeUsd,
		WrappedAssetUsd: cfg.Prices.WrappedAssetUsd,
	})
	builder := txbuilder.NewBuilder(cfg.Networks)
	exec := executor.New(executor.NewMetrics(registry))

	services := &Services{
		Network:     netCfg,
		Client:      client,
		Ledger:      ledger,
		Prices:      prices,
		Builder:     builder,
		Executor:    exec,
		Campaign:    api.NewCampaignService(network, ledger, prices, builder, exec),
		Registry:    registry,
		FeeMicroStx: cfg.Signer.FeeMicroStx,
	}

	if cfg.Signer.Mnemonic != "" {
		key, err := signer.FromMnemonic(cfg.Signer.Mnemonic, cfg.Signer.AccountIndex)
		if err != nil {
			return nil, fmt.Errorf("unable to load local key: %w", err)
		}
		services.LocalKey = key
		if addr, err := key.Address(network); err == nil {
			zap.L().Info("Loaded local key", zap.String("address", addr), zap.Uint32("account_index", key.Index()))
		}
	}

	if cfg.Metrics.Enabled {
		services.startMetricsServer(cfg.Metrics.Addr)
	}

	return services, nil
}

// Address returns the local key's address on the configured network
func (cs *Services) Address() (string, error) {
	if cs.LocalKey == nil {
		return "", fmt.Errorf("%w: set DEVNET_MNEMONIC to use a local key", models.ErrAddressRequired)
	}
	return cs.LocalKey.Address(cs.Network.Name)
}

func (cs *Services) startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(cs.Registry, promhttp.HandlerOpts{}))
	cs.metricsServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Serving metrics", zap.String("addr", addr))
		if err := cs.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Metrics server failed", zap.Error(err))
		}
	}()
}

func (cs *Services) Close() {
	if cs.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cs.metricsServer.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "metrics server shutdown: %v\n", err)
		}
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
