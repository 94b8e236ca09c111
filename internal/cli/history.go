package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/history"
	"github.com/rankerhq/agentic/internal/workspace"
)

var historyCmd = &cobra.Command{
	Use:   "history [project-dir]",
	Short: "Show recent run history",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		showChecks, _ := cmd.Flags().GetBool("checks")
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		root, err := resolveRoot(dir)
		if err != nil {
			return err
		}

		store, err := history.Open(workspace.At(root).HistoryPath())
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(); err != nil {
			return err
		}

		runs, err := store.Runs(limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No recorded runs.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(out, "#%d %s %s risk=%s(%d) result=%s duration=%dms cache_hits=%d\n",
				r.ID, r.Timestamp, r.Task, r.RiskLevel, r.RiskScore, r.Result, r.DurationMS, r.CacheHits)
			if !showChecks {
				continue
			}
			checks, err := store.Checks(r.ID)
			if err != nil {
				return err
			}
			for _, c := range checks {
				status := "FAIL"
				if c.Passed {
					status = "PASS"
				}
				cached := ""
				if c.FromCache {
					cached = " [cache-hit]"
				}
				fmt.Fprintf(out, "  [%s] %s: %s%s\n", status, c.Title, c.Command, cached)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of runs to show")
	historyCmd.Flags().Bool("checks", false, "include per-check results")
}
