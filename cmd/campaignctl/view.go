package main

import (
	"fmt"
	"time"

	"stacks-crowdfund-go/internal/common"
	"stacks-crowdfund-go/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the derived campaign view",
	RunE: func(cmd *cobra.Command, args []string) error {
		result := services.Campaign.GetCampaignView(cmd.Context())

		common.PrintHeader(fmt.Sprintf("CAMPAIGN (%s)", services.Campaign.Network()), common.DefaultWidth)
		fmt.Println(common.FormatCampaignView(result))
		common.PrintFooter("", common.DefaultWidth)
		return nil
	},
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the local key's address",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := services.Address()
		if err != nil {
			return err
		}
		fmt.Println(addr)
		return nil
	},
}

var donationCmd = &cobra.Command{
	Use:   "donation [principal]",
	Short: "Show a donor's record and refund eligibility",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := principalArg(args)
		if err != nil {
			return err
		}

		result, err := services.Campaign.GetDonation(cmd.Context(), principal)
		if err != nil {
			return err
		}

		common.PrintHeader("DONATION", common.DefaultWidth)
		fmt.Println(common.FormatDonation(result))
		common.PrintFooter("", common.DefaultWidth)
		return nil
	},
}

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [principal]",
	Short: "Poll the campaign and print each change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var donor string
		if len(args) == 1 {
			donor = args[0]
		}

		interval := watchInterval
		if interval <= 0 {
			interval = cfg.Watch.PollingInterval
		}

		w := watcher.NewCampaignWatcher(services.Campaign, interval, donor, func(prev *watcher.Snapshot, curr watcher.Snapshot) {
			common.PrintHeader(fmt.Sprintf("CAMPAIGN @ %s", time.Now().Format(time.RFC3339)), common.DefaultWidth)
			fmt.Println(common.FormatCampaignView(curr.View))
			if curr.Donation != nil {
				fmt.Println(common.FormatDonation(curr.Donation))
			}
		})

		ctx := cmd.Context()
		if err := services.Campaign.HealthCheck(ctx); err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		zap.L().Info("Watching campaign", zap.Duration("interval", interval))

		select {
		case <-ctx.Done():
			w.Stop()
		case <-w.Done():
		}
		return nil
	},
}

// principalArg falls back to the local key's address
func principalArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return services.Address()
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "polling interval (default WATCH_POLLING_INTERVAL)")

	rootCmd.AddCommand(viewCmd, addressCmd, donationCmd, watchCmd)
}
