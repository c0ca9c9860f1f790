package main

import (
	"fmt"
	"os"

	"stacks-crowdfund-go/internal/common"
	"stacks-crowdfund-go/internal/config"
	"stacks-crowdfund-go/internal/executor"
	"stacks-crowdfund-go/internal/models"

	"github.com/spf13/cobra"
)

const (
	walletLocal  = "local"
	walletPrompt = "prompt"
)

type globalFlags struct {
	Network string
	Wallet  string
}

var (
	flags         globalFlags
	cfg           *models.Config
	services      *common.Services
	loggerCleanup func()
	assumeYes     bool
)

var rootCmd = &cobra.Command{
	Use:           "campaignctl",
	Short:         "Read and act on a Stacks fundraising campaign",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flags.Network != "" {
			if err := os.Setenv("STACKS_NETWORK", flags.Network); err != nil {
				return err
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		_, loggerCleanup = common.InitializeLogger(cfg.Log)

		services, err = common.InitializeServices(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if services != nil {
			services.Close()
		}
		if loggerCleanup != nil {
			loggerCleanup()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.Network, "network", "", "network to use: devnet|testnet|mainnet (overrides STACKS_NETWORK)")
	rootCmd.PersistentFlags().StringVar(&flags.Wallet, "wallet", walletLocal, "execution context for transactions: local|prompt")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "approve prompts without asking")
}

// executionContext resolves --wallet once, before any descriptor is built
func executionContext() (executor.ExecutionContext, error) {
	if services.LocalKey == nil {
		return nil, fmt.Errorf("no signing key: set DEVNET_MNEMONIC")
	}

	switch flags.Wallet {
	case walletLocal:
		return executor.LocalKey{
			Signer: services.LocalKey,
			Node:   services.Client,
			Fee:    services.FeeMicroStx,
		}, nil
	case walletPrompt:
		return executor.InteractiveWallet{
			Wallet: &promptWallet{
				in:        os.Stdin,
				out:       os.Stdout,
				key:       services.LocalKey,
				node:      services.Client,
				fee:       services.FeeMicroStx,
				assumeYes: assumeYes,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown wallet %q, expected %s or %s", flags.Wallet, walletLocal, walletPrompt)
	}
}
