package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/doctor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [project-dir]",
	Short: "Verify the workspace installation is complete",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		root, err := resolveRoot(dir)
		if err != nil {
			return err
		}

		if findings := doctor.Check(root); len(findings) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Doctor report: FAIL")
			for _, f := range findings {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", f)
			}
			return errors.New("doctor checks failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Doctor report: PASS")
		fmt.Fprintln(cmd.OutOrStdout(), "Workflow structure, contracts, templates, tasks, skills, and quality gates are valid.")
		return nil
	},
}
