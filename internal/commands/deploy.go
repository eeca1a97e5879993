package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dropforge/launchpad/internal/orchestrator"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a collection and run its follow-up steps",
	Long: "Deploys the collection through the chain's factory, wires the transfer policy when the " +
		"contract supports it, optionally freezes transfers and finally runs setup. Re-running " +
		"resumes after the last completed step.",
	RunE: func(cmd *cobra.Command, args []string) error {
		freeze, _ := cmd.Flags().GetBool("freeze")
		skipSetup, _ := cmd.Flags().GetBool("skip-setup")

		return withSession(cmd, orchestrator.Options{Freeze: freeze, Setup: !skipSetup}, func(s *session) error {
			if err := s.orch.Run(cmd.Context(), s.wf, s.cfg); err != nil {
				return err
			}

			address := s.cfg.Deployment.ContractAddress
			fmt.Fprintf(cmd.OutOrStdout(), "%s deployed at %s\n%s\n", s.cfg.Symbol, address.Hex(), s.wf.Chain.AddressURL(address))
			slog.With("symbol", s.cfg.Symbol, "state", orchestrator.StateOf(s.cfg)).Info("deploy command completed")
			return nil
		})
	},
}

func init() {
	deployCmd.Flags().Bool("freeze", false, "Disable transfers after wiring the transfer policy")
	deployCmd.Flags().Bool("skip-setup", false, "Stop before the setup transaction")
}
