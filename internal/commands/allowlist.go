package commands

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/dropforge/launchpad/internal/allowlist"
	"github.com/dropforge/launchpad/internal/infra/filesystem"
	"github.com/dropforge/launchpad/internal/infra/filesystem/json"
)

var allowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Inspect allowlist files and their Merkle commitments",
}

var allowlistRootCmd = &cobra.Command{
	Use:   "root <file>",
	Short: "Print the Merkle root of an allowlist file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commitment, report, err := compileAllowlist(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "root:       %s\n", commitment.Root.Hex())
		fmt.Fprintf(out, "leaves:     %d\n", commitment.LeafCount())
		fmt.Fprintf(out, "invalid:    %d\n", report.Invalid)
		fmt.Fprintf(out, "duplicates: %d\n", report.Duplicates)
		return nil
	},
}

var allowlistProofCmd = &cobra.Command{
	Use:   "proof <file> <address>",
	Short: "Print the Merkle proof of one address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !allowlist.IsValidAddress(args[1]) {
			return fmt.Errorf("invalid address %q", args[1])
		}
		address := common.HexToAddress(args[1])

		commitment, _, err := compileAllowlist(cmd, args[0])
		if err != nil {
			return err
		}

		proof, err := commitment.Proof(address)
		if err != nil {
			return err
		}
		leaf, _ := commitment.LeafFor(address)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "root:  %s\n", commitment.Root.Hex())
		fmt.Fprintf(out, "leaf:  %s\n", leaf.Hex())
		fmt.Fprintln(out, "proof:")
		for _, node := range proof {
			fmt.Fprintf(out, "  %s\n", node.Hex())
		}
		if !allowlist.Verify(commitment.Root, leaf, proof) {
			return fmt.Errorf("proof for %s does not verify against %s", address.Hex(), commitment.Root.Hex())
		}
		return nil
	},
}

func compileAllowlist(cmd *cobra.Command, path string) (*allowlist.Commitment, allowlist.Report, error) {
	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := allowlist.ParseMode(modeFlag)
	if err != nil {
		return nil, allowlist.Report{}, err
	}

	var writer filesystem.Writer
	if rewrite, _ := cmd.Flags().GetBool("rewrite"); rewrite {
		writer = json.NewWriter()
	}

	return allowlist.NewCompiler(writer).CompileFile(path, mode)
}

func init() {
	allowlistCmd.PersistentFlags().String("mode", string(allowlist.ModePresence), "presence-only or variable-limit")
	allowlistCmd.PersistentFlags().Bool("rewrite", false, "Replace the file with a cleaned copy when lines were dropped")
	allowlistCmd.AddCommand(allowlistRootCmd, allowlistProofCmd)
}
