// Package gate evaluates check results and manual evidence against the
// configured quality gates and renders the run verdict.
package gate

import (
	"fmt"
	"strings"

	"github.com/rankerhq/agentic/internal/checks"
	"github.com/rankerhq/agentic/internal/config"
	"github.com/rankerhq/agentic/internal/risk"
	"github.com/rankerhq/agentic/internal/task"
)

// Outcome is the verdict of a single gate.
type Outcome string

const (
	Pass    Outcome = "PASS"
	Fail    Outcome = "FAIL"
	Skipped Outcome = "SKIPPED"
)

// Metric is the lowercase outcome form used in metrics records.
func (o Outcome) Metric() string {
	return strings.ToLower(string(o))
}

// Mode carries the manual-gate inputs of one run: whether evidence must come
// from the task file and which approval flags the caller passed.
type Mode struct {
	StrictManual   bool
	ReviewApproved bool
	DocsUpdated    bool
}

// Summary is the aggregated verdict of all gates for one run.
type Summary struct {
	TaskType     string
	Risk         risk.Assessment
	Tests        Outcome
	Security     Outcome
	TypeSpecific Outcome
	Oracle       Outcome
	Review       Outcome
	Docs         Outcome
	ManualMode   bool
	Failures     []string
}

// OK reports whether every evaluated gate passed.
func (s Summary) OK() bool {
	return len(s.Failures) == 0
}

// Evaluate folds check results and manual evidence into per-gate outcomes.
// Disabled gates are skipped. The tests and security gates demand at least
// one result each and no failures. Type-specific and oracle checks fail the
// run only when a runnable check failed; a board with nothing runnable is
// skipped, not failed. Review and docs accept either in-task evidence or the
// caller's flags depending on the manual mode.
func Evaluate(results []checks.GateCheck, gates config.Gates, evidence task.Evidence, mode Mode, taskType string, assessment risk.Assessment) Summary {
	s := Summary{
		TaskType:   taskType,
		Risk:       assessment,
		Tests:      Skipped,
		Security:   Skipped,
		Review:     Skipped,
		Docs:       Skipped,
		ManualMode: mode.StrictManual,
	}

	if gates.Tests {
		s.Tests = Pass
		if !allPassed(results, checks.GateTests) {
			s.Tests = Fail
			s.Failures = append(s.Failures, "Tests gate failed.")
		}
	}
	if gates.Security {
		s.Security = Pass
		if !allPassed(results, checks.GateSecurity) {
			s.Security = Fail
			s.Failures = append(s.Failures, "Security gate failed.")
		}
	}

	s.TypeSpecific = runnableOutcome(results, checks.GateTypeSpecific)
	if s.TypeSpecific == Fail {
		s.Failures = append(s.Failures, fmt.Sprintf("Type-specific checks failed (%s).", taskType))
	}
	s.Oracle = runnableOutcome(results, checks.GateOracle)
	if s.Oracle == Fail {
		s.Failures = append(s.Failures, "Oracle checks failed.")
	}

	if gates.Review {
		s.Review = Pass
		if mode.StrictManual {
			if !evidence.Review {
				s.Review = Fail
				s.Failures = append(s.Failures, "Review gate failed. Missing task review_evidence.approver/reference.")
			}
		} else if !mode.ReviewApproved {
			s.Review = Fail
			s.Failures = append(s.Failures, "Review gate failed. Use --review-approved when reviewer approval exists.")
		}
	}
	if gates.Docs {
		s.Docs = Pass
		if mode.StrictManual {
			if !evidence.Docs {
				s.Docs = Fail
				s.Failures = append(s.Failures, "Docs gate failed. Missing task docs_evidence.updated_files entries.")
			}
		} else if !mode.DocsUpdated {
			s.Docs = Fail
			s.Failures = append(s.Failures, "Docs gate failed. Use --docs-updated after documentation update.")
		}
	}

	return s
}

// allPassed reports whether the gate has at least one result and every
// result in it succeeded.
func allPassed(results []checks.GateCheck, gateName string) bool {
	found := false
	for _, r := range results {
		if r.Gate != gateName {
			continue
		}
		found = true
		if !r.Result.OK {
			return false
		}
	}
	return found
}

// runnableOutcome scores gates whose checks are advisory when absent:
// skipped with nothing runnable, failed if any runnable check failed.
func runnableOutcome(results []checks.GateCheck, gateName string) Outcome {
	executed := 0
	failed := 0
	for _, r := range results {
		if r.Gate != gateName || !r.Runnable {
			continue
		}
		executed++
		if !r.Result.OK {
			failed++
		}
	}
	if executed == 0 {
		return Skipped
	}
	if failed > 0 {
		return Fail
	}
	return Pass
}

// PolicyBlocks reports whether the risk policy stops the run before any
// checks execute: strict enforcement is configured, the score meets the
// threshold, and the caller did not opt into strict manual gates. Plan-only
// runs are never blocked.
func PolicyBlocks(score, threshold int, strictRequired, strictMode, planOnly bool) bool {
	return !planOnly && strictRequired && score >= threshold && !strictMode
}

// Render formats the gate summary section of the run log.
func (s Summary) Render() string {
	manual := "DISABLED"
	if s.ManualMode {
		manual = "ENABLED"
	}
	return fmt.Sprintf("\n## Gate Summary\n\n- Task type: %s\n- Risk: %s (%d)\n- Tests: %s\n- Security: %s\n- Type-specific: %s\n- Oracle: %s\n- Review: %s\n- Docs: %s\n- Manual gate mode: %s\n",
		s.TaskType, s.Risk.Level, s.Risk.Score,
		s.Tests, s.Security, s.TypeSpecific, s.Oracle, s.Review, s.Docs, manual)
}

// RenderPolicyFailure formats the risk policy section logged when a run is
// blocked before execution.
func RenderPolicyFailure(score, threshold int) string {
	return fmt.Sprintf("\n## Risk Policy\n\n- score: %d\n- threshold: %d\n- strict_required: true\n- result: FAIL\n", score, threshold)
}

// RenderPlanOnly formats the plan-only section logged when no checks run.
func RenderPlanOnly(gates config.Gates, taskType string, manualMode bool) string {
	return fmt.Sprintf("\n## Plan Only\n\n- tests: %t\n- security: %t\n- review: %t\n- docs: %t\n- task_type: %s\n- manual_mode: %t\n",
		gates.Tests, gates.Security, gates.Review, gates.Docs, taskType, manualMode)
}
