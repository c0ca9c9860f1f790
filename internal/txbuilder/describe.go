package txbuilder

import (
	"fmt"
	"strings"

	"stacks-crowdfund-go/internal/convert"
	"stacks-crowdfund-go/internal/models"
)

// Describe renders a descriptor the way a wallet prompt would show it
func Describe(desc *models.TransactionDescriptor) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Network:   %s\n", desc.Network)
	fmt.Fprintf(&sb, "Contract:  %s\n", desc.Contract)
	fmt.Fprintf(&sb, "Function:  %s\n", desc.FunctionName)
	if len(desc.Args) == 0 {
		sb.WriteString("Arguments: none\n")
	} else {
		for i, arg := range desc.Args {
			fmt.Fprintf(&sb, "Arg %d:     %s\n", i, arg.String())
		}
	}
	fmt.Fprintf(&sb, "Sender:    %s\n", desc.Sender)
	fmt.Fprintf(&sb, "Mode:      %s\n", desc.Mode)
	for _, g := range desc.Guarantees {
		sb.WriteString("Guarantee: ")
		sb.WriteString(DescribeGuarantee(g))
		sb.WriteString("\n")
	}
	return sb.String()
}

func DescribeGuarantee(g models.SpendingGuarantee) string {
	amount := convert.FormatAsset(g.Asset, convert.BaseUnitsToAsset(g.Asset, g.ExactAmount))
	return fmt.Sprintf("%s sends exactly %s (%d base units)", g.Principal, amount, g.ExactAmount)
}
