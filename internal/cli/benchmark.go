package cli

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/benchmark"
	"github.com/rankerhq/agentic/internal/workspace"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark [project-dir]",
	Short: "Score the workspace's readiness for gated runs",
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
		layout := workspace.At(root)

		look := func(name string) bool {
			_, err := exec.LookPath(name)
			return err == nil
		}
		report := benchmark.Run(root, look, time.Now())

		if err := os.MkdirAll(layout.BenchmarkDir(), 0o755); err != nil {
			return fmt.Errorf("create benchmark directory: %w", err)
		}
		if err := os.WriteFile(layout.BenchmarkReportPath(), []byte(report.Render()), 0o644); err != nil {
			return fmt.Errorf("write benchmark report: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Benchmark score: %d/100 (%s)\n", report.Score, report.Grade)
		fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", layout.BenchmarkReportPath())
		return nil
	},
}
