package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/task"
	"github.com/rankerhq/agentic/internal/workspace"
)

var validateCmd = &cobra.Command{
	Use:   "validate <task-file-or-dir>",
	Short: "Validate task files for required keys",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := workspace.CollectTaskFiles(args[0])
		if len(files) == 0 {
			return errors.New("no task files found to validate")
		}

		failed := 0
		for _, file := range files {
			report := task.ValidateFile(file)
			if report.OK() {
				fmt.Fprintf(cmd.OutOrStdout(), "OK   %s\n", file)
			} else {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s -> missing: %s\n",
					file, strings.Join(report.Missing, ", "))
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d task file(s) invalid", failed)
		}
		return nil
	},
}
