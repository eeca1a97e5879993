package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dropforge/launchpad/configs"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List supported chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry(configs.Values)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Name", "Chain ID", "Fees", "Factory", "Transfer list", "RPC")
		for _, chain := range registry.All() {
			fees := "eip-1559"
			if chain.LegacyGas {
				fees = "legacy"
			}
			if err := table.Append([]string{
				chain.Name,
				fmt.Sprint(chain.ChainID),
				fees,
				chain.FactoryAddress.Hex(),
				fmt.Sprint(chain.TransferListID),
				chain.RPCURL,
			}); err != nil {
				return fmt.Errorf("failed to render chains: %w", err)
			}
		}
		return table.Render()
	},
}
