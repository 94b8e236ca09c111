package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/config"
	"github.com/rankerhq/agentic/internal/metrics"
	"github.com/rankerhq/agentic/internal/workspace"
)

var tuneCmd = &cobra.Command{
	Use:   "tune [project-dir]",
	Short: "Analyze run metrics and write tuning recommendations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apply, _ := cmd.Flags().GetBool("apply")
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		root, err := resolveRoot(dir)
		if err != nil {
			return err
		}
		layout := workspace.At(root)
		out := cmd.OutOrStdout()

		rows, err := metrics.Load(layout.MetricsPath())
		if err != nil {
			return fmt.Errorf("no metrics found, run tasks first: %w", err)
		}
		stats := metrics.Aggregate(rows)
		rec := metrics.Recommendations(stats)

		if err := os.MkdirAll(layout.RecommendationsDir(), 0o755); err != nil {
			return fmt.Errorf("create recommendations directory: %w", err)
		}
		reportPath := filepath.Join(layout.RecommendationsDir(), "latest.md")
		report := metrics.RenderReport(stats, rec, time.Now())
		if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write recommendations: %w", err)
		}

		if apply {
			if err := applyTuning(layout.ConfigPath(), stats); err != nil {
				return err
			}
			fmt.Fprintln(out, "Tune applied to config.yml")
		}
		fmt.Fprintf(out, "Tune report: %s\n", reportPath)
		return nil
	},
}

// applyTuning patches the config in place for the two actionable
// recommendations: a lower risk threshold after high-risk failures, and
// forced strict gates when failures outnumber passes.
func applyTuning(configPath string, stats metrics.Stats) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil
	}
	content := string(data)
	if stats.HighRiskFails > 0 {
		content = config.SetIntKey(content, "high_risk_threshold", 60)
	}
	if stats.Fail > stats.Pass {
		content = config.SetBoolKey(content, "require_strict_manual_gates", true)
	}
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func init() {
	tuneCmd.Flags().Bool("apply", false, "patch config.yml with the actionable recommendations")
}
