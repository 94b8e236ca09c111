package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/runner"
)

var autopilotCmd = &cobra.Command{
	Use:   "autopilot [task-file]",
	Short: "Run a task unattended with auto-fix retries",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, _ := cmd.Flags().GetString("project-dir")
		strict, _ := cmd.Flags().GetBool("strict-manual-gates")
		maxIterations, _ := cmd.Flags().GetInt("max-iterations")

		root, err := resolveRoot(projectDir)
		if err != nil {
			return err
		}
		taskArg := ""
		if len(args) > 0 {
			taskArg = args[0]
		}

		outcome, err := runner.Autopilot(cmd.Context(), runner.AutopilotOptions{
			Options: runner.Options{
				Root:              root,
				TaskArg:           taskArg,
				StrictManualGates: strict,
				NoColor:           true,
				Out:               cmd.OutOrStdout(),
			},
			MaxIterations: maxIterations,
		})
		if err != nil {
			return err
		}
		if !outcome.OK {
			return errors.New("autopilot failed")
		}
		return nil
	},
}

func init() {
	autopilotCmd.Flags().String("project-dir", ".", "project root directory")
	autopilotCmd.Flags().Bool("strict-manual-gates", false, "require in-task evidence for manual gates")
	autopilotCmd.Flags().Int("max-iterations", 0, "iteration cap (0 uses the configured value)")
}
