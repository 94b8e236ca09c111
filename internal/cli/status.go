package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/doctor"
	"github.com/rankerhq/agentic/internal/task"
	"github.com/rankerhq/agentic/internal/ui"
	"github.com/rankerhq/agentic/internal/workspace"
)

var benchmarkScorePattern = regexp.MustCompile(`- Score:\s*([0-9]+/100)`)

var statusCmd = &cobra.Command{
	Use:   "status [project-dir]",
	Short: "Show the workspace health and task dashboard",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noColor, _ := cmd.Flags().GetBool("no-color")
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		root, err := resolveRoot(dir)
		if err != nil {
			return err
		}
		layout := workspace.At(root)
		out := ui.New(cmd.OutOrStdout(), !noColor)

		findings := doctor.Check(root)
		healthy := len(findings) == 0

		counters := map[string]int{}
		taskFiles := workspace.CollectTaskFiles(layout.TasksDir())
		for _, file := range taskFiles {
			switch s := task.StatusOf(file); s {
			case task.StatusTodo, task.StatusInProgress, task.StatusBlocked, task.StatusDone:
				counters[s]++
			default:
				counters["other"]++
			}
		}

		lastRun := "none"
		if name := layout.LastRunLog(); name != "" {
			lastRun = filepath.Join(workspace.Dir, "runs", name)
		}

		benchmarkScore := "n/a"
		if data, err := os.ReadFile(layout.BenchmarkReportPath()); err == nil {
			if m := benchmarkScorePattern.FindSubmatch(data); m != nil {
				benchmarkScore = string(m[1])
			}
		}

		out.Banner()
		out.Heading("Status Dashboard")
		out.Line("Project: %s", root)
		if healthy {
			out.Line("Doctor: PASS")
		} else {
			out.Line("Doctor: FAIL")
		}
		out.Line("Tasks: total=%d, todo=%d, in_progress=%d, blocked=%d, done=%d, other=%d",
			len(taskFiles), counters[task.StatusTodo], counters[task.StatusInProgress],
			counters[task.StatusBlocked], counters[task.StatusDone], counters["other"])
		out.Line("Last run log: %s", lastRun)
		out.Line("Benchmark: %s", benchmarkScore)

		if !healthy {
			out.Line("Top issues:")
			top := findings
			if len(top) > 5 {
				top = top[:5]
			}
			for _, f := range top {
				out.Line("- %s", f)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Try: ranker doctor .")
			return errors.New("workspace unhealthy")
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("no-color", false, "disable colored output")
}
