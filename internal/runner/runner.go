// Package runner orchestrates a gated task run end to end: task selection,
// validation, risk policy, check execution, gate evaluation, and the run's
// persistent artifacts.
package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rankerhq/agentic/internal/checks"
	"github.com/rankerhq/agentic/internal/config"
	"github.com/rankerhq/agentic/internal/doctor"
	"github.com/rankerhq/agentic/internal/gate"
	"github.com/rankerhq/agentic/internal/history"
	"github.com/rankerhq/agentic/internal/metrics"
	"github.com/rankerhq/agentic/internal/risk"
	"github.com/rankerhq/agentic/internal/task"
	"github.com/rankerhq/agentic/internal/ui"
	"github.com/rankerhq/agentic/internal/workspace"
)

// Options configures one gated run.
type Options struct {
	Root              string
	TaskArg           string // explicit task path; "" auto-selects
	ReviewApproved    bool
	DocsUpdated       bool
	StrictManualGates bool
	PlanOnly          bool
	NoColor           bool
	Out               io.Writer
	Runner            checks.CommandRunner // nil uses ExecRunner
	Now               func() time.Time     // nil uses time.Now
}

func (o *Options) fill() {
	if o.Out == nil {
		o.Out = io.Discard
	}
	if o.Runner == nil {
		o.Runner = checks.ExecRunner{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Outcome is the structured result of one run, consumed by the CLI and by
// autopilot without re-parsing any output.
type Outcome struct {
	OK       bool
	Blocked  bool // stopped by the risk policy before any checks ran
	PlanOnly bool
	TaskFile string
	LogPath  string
	Summary  gate.Summary
}

// Run executes one gated task run. The returned error covers operational
// failures (no runnable task, broken workspace); gate and policy failures
// come back as an Outcome with OK false.
func Run(ctx context.Context, opts Options) (Outcome, error) {
	opts.fill()
	out := ui.New(opts.Out, !opts.NoColor)
	layout := workspace.At(opts.Root)
	started := opts.Now()

	taskFile, err := resolveTask(opts.TaskArg, opts.Root, layout)
	if err != nil {
		return Outcome{}, err
	}

	report := task.ValidateFile(taskFile)
	if !report.OK() {
		return Outcome{}, fmt.Errorf("task is invalid: missing %s", strings.Join(report.Missing, ", "))
	}

	if doctorErrors := doctor.Check(opts.Root); len(doctorErrors) > 0 {
		out.Fail("Doctor checks failed. Run `doctor` first.")
		for _, e := range doctorErrors {
			out.Line("- %s", e)
		}
		return Outcome{}, fmt.Errorf("doctor checks failed")
	}

	tsk, err := task.Load(taskFile)
	if err != nil {
		return Outcome{}, err
	}
	cfg := config.Load(layout.ConfigPath())
	gates := cfg.Gates()
	taskType := tsk.Type()
	assessment := risk.Compute(filepath.Base(taskFile), tsk.Raw)
	evidence := tsk.ManualEvidence()
	mode := gate.Mode{
		StrictManual:   opts.StrictManualGates,
		ReviewApproved: opts.ReviewApproved,
		DocsUpdated:    opts.DocsUpdated,
	}

	log, err := checks.CreateRunLog(layout.RunLogPath(taskFile, started), taskFile, started)
	if err != nil {
		return Outcome{}, err
	}
	outcome := Outcome{TaskFile: taskFile, LogPath: log.Path()}

	if err := tsk.SetStatus(task.StatusInProgress); err != nil {
		return Outcome{}, err
	}

	out.Banner()
	out.Heading("Running task")
	out.Line("Task: %s", taskFile)
	out.Line("Risk: %s (%d)", assessment.Level, assessment.Score)

	if gate.PolicyBlocks(assessment.Score, cfg.HighRiskThreshold(), cfg.RequireStrictManualGates(), opts.StrictManualGates, opts.PlanOnly) {
		out.Fail(fmt.Sprintf("Risk policy failed: score %d >= %d. Use --strict-manual-gates.",
			assessment.Score, cfg.HighRiskThreshold()))
		log.Append(gate.RenderPolicyFailure(assessment.Score, cfg.HighRiskThreshold()))
		_ = tsk.SetStatus(task.StatusBlocked)
		outcome.Blocked = true
		return outcome, nil
	}

	if opts.PlanOnly {
		out.Line("Plan-only mode enabled. No checks executed.")
		out.Line("Planned gates: tests=%t, security=%t, review=%t, docs=%t, type=%s",
			gates.Tests, gates.Security, gates.Review, gates.Docs, taskType)
		log.Append(gate.RenderPlanOnly(gates, taskType, opts.StrictManualGates))
		if err := tsk.SetStatus(task.StatusTodo); err != nil {
			return outcome, err
		}
		out.Line("Run log: %s", log.Path())
		outcome.OK = true
		outcome.PlanOnly = true
		return outcome, nil
	}

	cache := checks.LoadCache(layout.CachePath())
	executor := checks.NewExecutor(opts.Runner)
	results := executor.Execute(ctx, opts.Root, taskType, gates, cache, log)

	summary := gate.Evaluate(results, gates, evidence, mode, taskType, assessment)
	for _, failure := range summary.Failures {
		out.Fail(failure)
	}
	log.Append(summary.Render())
	log.Append(fmt.Sprintf("\n- Completed: %s\n- Result: %s\n",
		opts.Now().UTC().Format(time.RFC3339), verdict(summary.OK())))

	recordRun(layout, taskFile, summary, results, started, opts.Now(), log.Path())

	outcome.Summary = summary
	outcome.OK = summary.OK()
	if !outcome.OK {
		_ = tsk.SetStatus(task.StatusBlocked)
		out.Line("Run log: %s", log.Path())
		return outcome, nil
	}

	if err := tsk.SetStatus(task.StatusDone); err != nil {
		return outcome, err
	}
	out.Pass("Task gates passed.")
	out.Line("Run log: %s", log.Path())
	return outcome, nil
}

func resolveTask(taskArg, root string, layout workspace.Layout) (string, error) {
	if taskArg != "" {
		return task.Resolve(taskArg, root)
	}
	return task.SelectAuto(layout.TasksDir())
}

func verdict(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

// recordRun persists run metrics and history. Both stores are best-effort:
// the verdict is already decided and logged, so persistence failures must
// not overturn it.
func recordRun(layout workspace.Layout, taskFile string, summary gate.Summary, results []checks.GateCheck, started, finished time.Time, logPath string) {
	cacheHits := 0
	for _, r := range results {
		if r.FromCache {
			cacheHits++
		}
	}
	result := "fail"
	if summary.OK() {
		result = "pass"
	}
	durationMS := finished.Sub(started).Milliseconds()

	_ = metrics.Append(layout.MetricsPath(), metrics.Record{
		TS:               started.UTC().Format(time.RFC3339),
		Task:             filepath.Base(taskFile),
		TaskType:         summary.TaskType,
		RiskScore:        summary.Risk.Score,
		Result:           result,
		DurationMS:       durationMS,
		CacheHits:        cacheHits,
		TestsGate:        summary.Tests.Metric(),
		SecurityGate:     summary.Security.Metric(),
		TypeSpecificGate: summary.TypeSpecific.Metric(),
		OracleGate:       summary.Oracle.Metric(),
	})

	store, err := history.Open(layout.HistoryPath())
	if err != nil {
		return
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return
	}
	runID, err := store.LogRun(history.Run{
		Task:       filepath.Base(taskFile),
		TaskType:   summary.TaskType,
		RiskScore:  summary.Risk.Score,
		RiskLevel:  summary.Risk.Level,
		Result:     result,
		DurationMS: int(durationMS),
		CacheHits:  cacheHits,
		LogPath:    logPath,
	})
	if err != nil {
		return
	}
	for _, r := range results {
		_ = store.LogCheck(runID, history.CheckResult{
			Gate:      r.Gate,
			Stack:     string(r.Stack),
			Title:     r.Title,
			Command:   r.Result.Cmd,
			Passed:    r.Result.OK,
			ExitCode:  r.Result.Status,
			FromCache: r.FromCache,
		})
	}
}
