// Package commands holds the cobra commands of the launchpad CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/dropforge/launchpad/internal/orchestrator"
)

// All returns every top-level command.
func All() []*cobra.Command {
	return []*cobra.Command{
		deployCmd,
		setupCmd,
		setStagesCmd,
		setTransferValidatorCmd,
		setTransferListCmd,
		freezeCmd,
		thawCmd,
		setCosignerCmd,
		statusCmd,
		allowlistCmd,
		chainsCmd,
	}
}

// withSession opens a session around fn and closes it afterwards.
func withSession(cmd *cobra.Command, opts orchestrator.Options, fn func(*session) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}
