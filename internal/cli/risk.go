package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/config"
	"github.com/rankerhq/agentic/internal/risk"
	"github.com/rankerhq/agentic/internal/task"
	"github.com/rankerhq/agentic/internal/workspace"
)

var riskCmd = &cobra.Command{
	Use:   "risk <task-file>",
	Short: "Score a task's risk and show the policy decision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, _ := cmd.Flags().GetString("project-dir")
		root, err := resolveRoot(projectDir)
		if err != nil {
			return err
		}
		taskFile, err := task.Resolve(args[0], root)
		if err != nil {
			return err
		}
		tsk, err := task.Load(taskFile)
		if err != nil {
			return err
		}

		assessment := risk.Compute(filepath.Base(taskFile), tsk.Raw)
		cfg := config.Load(workspace.At(root).ConfigPath())
		threshold := cfg.HighRiskThreshold()
		requiresStrict := cfg.RequireStrictManualGates()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task: %s\n", taskFile)
		fmt.Fprintf(out, "Risk score: %d\n", assessment.Score)
		fmt.Fprintf(out, "Risk level: %s\n", assessment.Level)
		fmt.Fprintf(out, "Policy threshold: %d\n", threshold)
		fmt.Fprintf(out, "Strict required on high risk: %t\n", requiresStrict)
		if assessment.Score >= threshold && requiresStrict {
			fmt.Fprintln(out, "Policy decision: strict-manual-gates required.")
		} else {
			fmt.Fprintln(out, "Policy decision: normal run allowed.")
		}
		return nil
	},
}

func init() {
	riskCmd.Flags().String("project-dir", ".", "project root directory")
}
