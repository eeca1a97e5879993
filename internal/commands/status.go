package commands

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dropforge/launchpad/configs"
	"github.com/dropforge/launchpad/internal/chains"
	"github.com/dropforge/launchpad/internal/orchestrator"
	"github.com/dropforge/launchpad/internal/project"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the workflow state of one collection, or of all of them",
	RunE: func(cmd *cobra.Command, args []string) error {
		values := configs.Values
		registry, err := loadRegistry(values)
		if err != nil {
			return err
		}

		symbols := []string{values.Symbol}
		if values.Symbol == "" {
			if symbols, err = project.List(values.CollectionsDir); err != nil {
				return err
			}
		}
		if len(symbols) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no collections under %s\n", values.CollectionsDir)
			return nil
		}

		for _, symbol := range symbols {
			cfg, err := project.NewStore(values.CollectionsDir, symbol).Read()
			if err != nil {
				return err
			}
			if err := renderStatus(cmd.OutOrStdout(), registry, cfg); err != nil {
				return err
			}
		}
		return nil
	},
}

func renderStatus(out io.Writer, registry *chains.Registry, cfg *project.CollectionConfig) error {
	state := orchestrator.StateOf(cfg)
	color.New(color.FgCyan, color.Bold).Fprintf(out, "\n%s (%s): %s\n", cfg.Name, cfg.Symbol, state)

	table := tablewriter.NewWriter(out)
	table.Header("Field", "Value")

	chainName := fmt.Sprint(cfg.ChainID)
	chain, chainErr := registry.Lookup(cfg.ChainID)
	if chainErr == nil {
		chainName = fmt.Sprintf("%s (%d)", chain.Name, chain.ChainID)
	}

	rows := [][]string{
		{"Standard", string(cfg.TokenStandard)},
		{"Chain", chainName},
		{"Stages", fmt.Sprint(len(cfg.Stages))},
	}
	if cfg.Deployed() {
		record := cfg.Deployment
		progress := record.Progress
		rows = append(rows,
			[]string{"Contract", record.ContractAddress.Hex()},
			[]string{"Owner", record.InitialOwner.Hex()},
			[]string{"Creation tx", record.TransactionHash.Hex()},
			[]string{"Creator token", checked(progress.CapabilityChecked, progress.CreatorToken)},
			[]string{"Transfer validator set", fmt.Sprint(progress.TransferValidatorSet)},
			[]string{"Transfer list applied", fmt.Sprint(progress.TransferListApplied)},
			[]string{"Frozen", fmt.Sprint(progress.Frozen)},
			[]string{"Setup complete", fmt.Sprint(progress.SetupComplete)},
		)
		if progress.TransferValidator != (common.Address{}) {
			rows = append(rows, []string{"Transfer validator", progress.TransferValidator.Hex()})
		}
		if chainErr == nil {
			rows = append(rows, []string{"Explorer", chain.AddressURL(record.ContractAddress)})
		}
	}

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render status: %w", err)
		}
	}
	return table.Render()
}

func checked(known, value bool) string {
	if !known {
		return "unknown"
	}
	return fmt.Sprint(value)
}
