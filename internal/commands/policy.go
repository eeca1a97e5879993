package commands

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/dropforge/launchpad/internal/allowlist"
	"github.com/dropforge/launchpad/internal/orchestrator"
)

var setTransferValidatorCmd = &cobra.Command{
	Use:   "set-transfer-validator",
	Short: "Point the collection at a transfer validator",
	RunE: func(cmd *cobra.Command, args []string) error {
		validatorHex, _ := cmd.Flags().GetString("validator")
		var validator common.Address
		if validatorHex != "" {
			if !allowlist.IsValidAddress(validatorHex) {
				return fmt.Errorf("invalid validator address %q", validatorHex)
			}
			validator = common.HexToAddress(validatorHex)
		}

		return withSession(cmd, orchestrator.Options{}, func(s *session) error {
			return s.orch.SetTransferValidator(cmd.Context(), s.wf, s.cfg, validator)
		})
	},
}

var setTransferListCmd = &cobra.Command{
	Use:   "set-transfer-list",
	Short: "Apply a transfer validator list to the collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, orchestrator.Options{}, func(s *session) error {
			listID := s.wf.Chain.TransferListID
			if cmd.Flags().Changed("list-id") {
				listID, _ = cmd.Flags().GetUint64("list-id")
			}
			return s.orch.ApplyTransferList(cmd.Context(), s.wf, s.cfg, listID)
		})
	},
}

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Disable token transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, orchestrator.Options{}, func(s *session) error {
			return s.orch.Freeze(cmd.Context(), s.wf, s.cfg)
		})
	},
}

var thawCmd = &cobra.Command{
	Use:   "thaw",
	Short: "Re-enable token transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, orchestrator.Options{}, func(s *session) error {
			return s.orch.Thaw(cmd.Context(), s.wf, s.cfg)
		})
	},
}

var setCosignerCmd = &cobra.Command{
	Use:   "set-cosigner <address>",
	Short: "Set the address that cosigns mints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !allowlist.IsValidAddress(args[0]) {
			return fmt.Errorf("invalid cosigner address %q", args[0])
		}
		cosigner := common.HexToAddress(args[0])

		return withSession(cmd, orchestrator.Options{}, func(s *session) error {
			return s.orch.SetCosigner(cmd.Context(), s.wf, s.cfg, cosigner)
		})
	},
}

func init() {
	setTransferValidatorCmd.Flags().String("validator", "", "Validator address; defaults to the chain's validator")
	setTransferListCmd.Flags().Uint64("list-id", 0, "List id; defaults to the chain's list")
}
