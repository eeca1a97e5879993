package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropforge/launchpad/internal/infra/filesystem/json"
	"github.com/dropforge/launchpad/internal/orchestrator"
	"github.com/dropforge/launchpad/internal/project"
)

var setupCmd = &cobra.Command{
	Use:     "setup",
	Aliases: []string{"init-contract"},
	Short:   "Configure supply, royalties and mint stages of a deployed collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, orchestrator.Options{}, func(s *session) error {
			return s.orch.Setup(cmd.Context(), s.wf, s.cfg)
		})
	},
}

var setStagesCmd = &cobra.Command{
	Use:   "set-stages",
	Short: "Replace the mint stages of a collection that is already set up",
	RunE: func(cmd *cobra.Command, args []string) error {
		stagesFile, _ := cmd.Flags().GetString("stages-file")

		return withSession(cmd, orchestrator.Options{}, func(s *session) error {
			if stagesFile != "" {
				var stages []project.StageConfig
				if err := json.NewReader().ReadJSON(stagesFile, &stages); err != nil {
					return fmt.Errorf("failed to read stages: %w", err)
				}
				s.cfg.Stages = stages
			}
			return s.orch.SetStages(cmd.Context(), s.wf, s.cfg)
		})
	},
}

func init() {
	setStagesCmd.Flags().String("stages-file", "", "JSON file with the new stages; defaults to the stages in collection.json")
}
