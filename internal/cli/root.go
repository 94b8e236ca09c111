package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "ranker",
	Short: "ranker — agentic workflow quality gates",
	Long: `ranker runs quality-gated task workflows for agent-driven development.

Tasks, skills, and gate configuration live under .ultra-workflow/ in the
project root. Each run resolves the project's stacks, executes the gate
checks, and records the verdict in run logs, metrics, and history.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// resolveRoot turns a --project-dir value into an absolute project root.
func resolveRoot(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	return filepath.Abs(dir)
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(ciCheckCmd)
	rootCmd.AddCommand(autopilotCmd)
	rootCmd.AddCommand(tuneCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(featureCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(historyCmd)
}
