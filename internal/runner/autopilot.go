package runner

import (
	"context"
	"strings"
	"time"

	"github.com/rankerhq/agentic/internal/checks"
	"github.com/rankerhq/agentic/internal/config"
	"github.com/rankerhq/agentic/internal/stack"
	"github.com/rankerhq/agentic/internal/ui"
	"github.com/rankerhq/agentic/internal/workspace"
)

// AutopilotOptions configures an unattended run-fix-retry loop.
type AutopilotOptions struct {
	Options
	MaxIterations int // 0 uses the configured cap
}

// Autopilot repeatedly runs the task, applying a stack-appropriate fix
// command between failed iterations when auto-fix is enabled. Without strict
// manual gates it self-approves review and docs, matching its unattended
// purpose.
func Autopilot(ctx context.Context, opts AutopilotOptions) (Outcome, error) {
	opts.fill()
	out := ui.New(opts.Out, !opts.NoColor)
	layout := workspace.At(opts.Root)
	cfg := config.Load(layout.ConfigPath())

	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = cfg.MaxAutopilotIterations()
	}
	if maxIterations < 1 {
		maxIterations = 1
	}
	autoFix := cfg.AutoFixEnabled()

	runOpts := opts.Options
	if !runOpts.StrictManualGates {
		runOpts.ReviewApproved = true
		runOpts.DocsUpdated = true
	}

	var outcome Outcome
	for i := 1; i <= maxIterations; i++ {
		out.Line("Autopilot iteration %d/%d", i, maxIterations)
		var err error
		outcome, err = Run(ctx, runOpts)
		if err != nil {
			return outcome, err
		}
		if outcome.OK {
			out.Pass("Autopilot result: PASS")
			return outcome, nil
		}
		out.Line("Autopilot: run failed.")
		if !autoFix || i == maxIterations {
			out.Fail("Autopilot result: FAIL")
			return outcome, nil
		}
		fixCmd, fixed := applyAutoFix(ctx, opts.Root, opts.Runner)
		if !fixed {
			out.Fail("Autopilot result: FAIL (no auto-fix command available)")
			return outcome, nil
		}
		out.Line("Auto-fix applied with: %s", fixCmd)
	}
	return outcome, nil
}

// autoFixTimeout bounds one fix command.
const autoFixTimeout = 5 * time.Minute

// applyAutoFix runs the first available fix command for the detected stacks
// and reports which one succeeded.
func applyAutoFix(ctx context.Context, root string, runner checks.CommandRunner) (string, bool) {
	for _, cmd := range stack.AutoFixCandidates(stack.Detect(root)) {
		fields := strings.Fields(cmd)
		if len(fields) == 0 || !runner.LookPath(fields[0]) {
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, autoFixTimeout)
		result := runner.Run(cctx, root, cmd)
		cancel()
		if result.OK {
			return cmd, true
		}
	}
	return "", false
}
