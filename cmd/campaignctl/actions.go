package main

import (
	"fmt"

	"stacks-crowdfund-go/internal/common"
	"stacks-crowdfund-go/internal/executor"
	"stacks-crowdfund-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	contributeAsset string
	contributeUsd   string
	goalUsd         string
)

var contributeCmd = &cobra.Command{
	Use:   "contribute",
	Short: "Donate a USD amount in STX or sBTC",
	RunE: func(cmd *cobra.Command, args []string) error {
		asset, err := parseAsset(contributeAsset)
		if err != nil {
			return err
		}
		usd, err := decimal.NewFromString(contributeUsd)
		if err != nil {
			return fmt.Errorf("invalid --usd %q: %w", contributeUsd, err)
		}

		exec, caller, err := actor()
		if err != nil {
			return err
		}

		result, err := services.Campaign.Contribute(cmd.Context(), exec, caller, asset, usd)
		return report("CONTRIBUTE", result, err)
	},
}

var initializeCmd = &cobra.Command{
	Use:   "initialize",
	Short: "Start the campaign with a USD goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, err := decimal.NewFromString(goalUsd)
		if err != nil {
			return fmt.Errorf("invalid --goal %q: %w", goalUsd, err)
		}

		exec, caller, err := actor()
		if err != nil {
			return err
		}

		result, err := services.Campaign.Initialize(cmd.Context(), exec, caller, goal)
		return report("INITIALIZE", result, err)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the campaign (owner only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, caller, err := actor()
		if err != nil {
			return err
		}
		result, err := services.Campaign.Cancel(cmd.Context(), exec, caller)
		return report("CANCEL", result, err)
	},
}

var refundCmd = &cobra.Command{
	Use:   "refund",
	Short: "Reclaim your donation from a cancelled or failed campaign",
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, caller, err := actor()
		if err != nil {
			return err
		}
		result, err := services.Campaign.Refund(cmd.Context(), exec, caller)
		return report("REFUND", result, err)
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw the raised funds (owner only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, caller, err := actor()
		if err != nil {
			return err
		}
		result, err := services.Campaign.Withdraw(cmd.Context(), exec, caller)
		return report("WITHDRAW", result, err)
	},
}

func parseAsset(s string) (models.Asset, error) {
	switch s {
	case "native", "stx", "STX":
		return models.AssetNative, nil
	case "wrapped", "sbtc", "sBTC":
		return models.AssetWrapped, nil
	default:
		return "", fmt.Errorf("unknown asset %q, expected native or wrapped", s)
	}
}

// actor resolves the execution context and the caller address it signs for
func actor() (ec executor.ExecutionContext, caller string, err error) {
	ec, err = executionContext()
	if err != nil {
		return nil, "", err
	}
	caller, err = services.Address()
	if err != nil {
		return nil, "", err
	}
	return ec, caller, nil
}

func report(title string, result *models.ExecutionResult, err error) error {
	if err != nil {
		return err
	}

	common.PrintHeader(title, common.DefaultWidth)
	fmt.Println(common.FormatExecutionResult(result))
	common.PrintFooter("", common.DefaultWidth)

	if result.Status == models.StatusRejected {
		return fmt.Errorf("transaction rejected: %s", result.Message)
	}
	return nil
}

func init() {
	contributeCmd.Flags().StringVar(&contributeAsset, "asset", "native", "asset to donate: native|wrapped")
	contributeCmd.Flags().StringVar(&contributeUsd, "usd", "", "USD amount to donate")
	_ = contributeCmd.MarkFlagRequired("usd")

	initializeCmd.Flags().StringVar(&goalUsd, "goal", "", "campaign goal in whole USD")
	_ = initializeCmd.MarkFlagRequired("goal")

	rootCmd.AddCommand(contributeCmd, initializeCmd, cancelCmd, refundCmd, withdrawCmd)
}
