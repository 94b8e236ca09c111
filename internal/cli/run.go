package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run [task-file]",
	Short: "Execute the quality gates for a task",
	Long: `Run resolves the task (auto-selecting the first todo task when none is
given), enforces the risk policy, executes every enabled gate check, and
records the verdict. The task ends as done on pass and blocked on fail.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, _ := cmd.Flags().GetString("project-dir")
		reviewApproved, _ := cmd.Flags().GetBool("review-approved")
		docsUpdated, _ := cmd.Flags().GetBool("docs-updated")
		strict, _ := cmd.Flags().GetBool("strict-manual-gates")
		planOnly, _ := cmd.Flags().GetBool("plan-only")
		noColor, _ := cmd.Flags().GetBool("no-color")

		root, err := resolveRoot(projectDir)
		if err != nil {
			return err
		}
		taskArg := ""
		if len(args) > 0 {
			taskArg = args[0]
		}

		outcome, err := runner.Run(cmd.Context(), runner.Options{
			Root:              root,
			TaskArg:           taskArg,
			ReviewApproved:    reviewApproved,
			DocsUpdated:       docsUpdated,
			StrictManualGates: strict,
			PlanOnly:          planOnly,
			NoColor:           noColor,
			Out:               cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}
		if outcome.Blocked {
			return errors.New("run blocked by risk policy")
		}
		if !outcome.OK {
			return errors.New("task gates failed")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().String("project-dir", ".", "project root directory")
	runCmd.Flags().Bool("review-approved", false, "attest reviewer approval (non-strict mode)")
	runCmd.Flags().Bool("docs-updated", false, "attest documentation update (non-strict mode)")
	runCmd.Flags().Bool("strict-manual-gates", false, "require in-task evidence for manual gates")
	runCmd.Flags().Bool("plan-only", false, "print planned gates without executing checks")
	runCmd.Flags().Bool("no-color", false, "disable colored output")
}
