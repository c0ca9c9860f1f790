package common

import (
	"fmt"
	"strings"

	"stacks-crowdfund-go/internal/convert"
	"stacks-crowdfund-go/internal/models"
)

const (
	// Default separator widths
	DefaultWidth = 80
	WideWidth    = 100
)

// ANSI color helpers for console output.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(message string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

type line struct {
	label string
	value string
}

func box(lines []line) string {
	var sb strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&sb, "%s%-18s %s\n", BoxPrefix(i == len(lines)-1), l.label+":", l.value)
	}
	return sb.String()
}

// FormatCampaignView renders a campaign read as a box-drawn list
func FormatCampaignView(result *models.ViewResult) string {
	if !result.Available || result.View == nil {
		return box([]line{
			{"Status", "unavailable"},
			{"Reason", string(result.Category)},
			{"Error", result.Error},
		})
	}

	v := result.View
	usd := "n/a (no price quote)"
	progress := "n/a"
	if v.PriceAvailable {
		usd = convert.FormatUsd(v.UsdRaised)
		progress = v.ProgressPct.StringFixed(2) + "%"
	}

	remaining := fmt.Sprintf("%d", v.BlocksRemaining)
	if v.BlocksRemaining < 0 {
		remaining = fmt.Sprintf("ended %d blocks ago", -v.BlocksRemaining)
	}

	return box([]line{
		{"State", string(v.DisplayState())},
		{"Goal", convert.FormatUsd(v.GoalUsd)},
		{"Raised", usd},
		{"Progress", progress},
		{"Raised STX", convert.FormatAsset(models.AssetNative, v.RaisedNative)},
		{"Raised sBTC", convert.FormatAsset(models.AssetWrapped, v.RaisedWrapped)},
		{"Donations", fmt.Sprintf("%d", v.DonationCount)},
		{"Blocks remaining", remaining},
		{"Block height", fmt.Sprintf("%d", result.BlockHeight)},
	})
}

// FormatDonation renders a donor's record
func FormatDonation(result *models.DonationResult) string {
	return box([]line{
		{"Principal", result.Principal},
		{"STX", convert.FormatAsset(models.AssetNative, convert.BaseUnitsToNative(result.Donation.Native))},
		{"sBTC", convert.FormatAsset(models.AssetWrapped, convert.BaseUnitsToWrappedAsset(result.Donation.Wrapped))},
		{"Refund eligible", fmt.Sprintf("%t", result.RefundEligible)},
	})
}

// FormatExecutionResult renders a dispatch outcome with a status color
func FormatExecutionResult(result *models.ExecutionResult) string {
	switch result.Status {
	case models.StatusConfirmed:
		return fmt.Sprintf("%s✓ confirmed%s txid %s", ColorGreen, ColorReset, result.TxId)
	case models.StatusCancelled:
		return fmt.Sprintf("%s~ cancelled%s", ColorYellow, ColorReset)
	default:
		return fmt.Sprintf("%s✗ rejected%s [%s] %s", ColorRed, ColorReset, result.Category, result.Message)
	}
}
