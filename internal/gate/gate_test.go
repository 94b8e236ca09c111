package gate

import (
	"strings"
	"testing"

	"github.com/rankerhq/agentic/internal/checks"
	"github.com/rankerhq/agentic/internal/config"
	"github.com/rankerhq/agentic/internal/risk"
	"github.com/rankerhq/agentic/internal/stack"
	"github.com/rankerhq/agentic/internal/task"
)

func check(gateName string, ok, runnable bool) checks.GateCheck {
	return checks.GateCheck{
		Gate:     gateName,
		Stack:    stack.Go,
		Result:   checks.Result{Cmd: "cmd", OK: ok},
		Runnable: runnable,
	}
}

func strictMode() Mode {
	return Mode{StrictManual: true}
}

func TestEvaluateAllPassing(t *testing.T) {
	results := []checks.GateCheck{
		check(checks.GateTests, true, true),
		check(checks.GateSecurity, true, true),
		check(checks.GateOracle, true, true),
	}
	gates := config.Gates{Tests: true, Security: true, Review: true}
	s := Evaluate(results, gates, task.Evidence{Review: true}, strictMode(), "standard", risk.Assessment{Score: 20, Level: risk.LevelLow})

	if !s.OK() {
		t.Fatalf("expected pass, failures: %v", s.Failures)
	}
	if s.Tests != Pass || s.Security != Pass || s.Oracle != Pass || s.Review != Pass {
		t.Errorf("unexpected outcomes: %+v", s)
	}
	if s.TypeSpecific != Skipped || s.Docs != Skipped {
		t.Errorf("expected skips for absent checks and disabled docs: %+v", s)
	}
}

func TestEvaluateTestsGateRequiresResults(t *testing.T) {
	s := Evaluate(nil, config.Gates{Tests: true}, task.Evidence{}, strictMode(), "standard", risk.Assessment{})
	if s.Tests != Fail {
		t.Errorf("tests gate with zero results must fail, got %s", s.Tests)
	}
	if len(s.Failures) != 1 || s.Failures[0] != "Tests gate failed." {
		t.Errorf("unexpected failures: %v", s.Failures)
	}
}

func TestEvaluateSecurityGateFailure(t *testing.T) {
	results := []checks.GateCheck{
		check(checks.GateSecurity, true, true),
		check(checks.GateSecurity, false, true),
	}
	s := Evaluate(results, config.Gates{Security: true}, task.Evidence{}, strictMode(), "standard", risk.Assessment{})
	if s.Security != Fail {
		t.Errorf("one failing result must fail the gate, got %s", s.Security)
	}
	if s.Failures[0] != "Security gate failed." {
		t.Errorf("unexpected failure message: %v", s.Failures)
	}
}

func TestEvaluateTypeSpecificOutcomes(t *testing.T) {
	// Nothing runnable: skipped, not failed.
	unrunnable := []checks.GateCheck{check(checks.GateTypeSpecific, false, false)}
	s := Evaluate(unrunnable, config.Gates{}, task.Evidence{}, strictMode(), "api", risk.Assessment{})
	if s.TypeSpecific != Skipped || !s.OK() {
		t.Errorf("unrunnable type-specific checks must skip: %+v", s)
	}

	// A runnable failure fails the run with the task type in the message.
	failing := []checks.GateCheck{check(checks.GateTypeSpecific, false, true)}
	s = Evaluate(failing, config.Gates{}, task.Evidence{}, strictMode(), "api", risk.Assessment{})
	if s.TypeSpecific != Fail {
		t.Errorf("runnable failure must fail, got %s", s.TypeSpecific)
	}
	if s.Failures[0] != "Type-specific checks failed (api)." {
		t.Errorf("unexpected message: %v", s.Failures)
	}
}

func TestEvaluateOracleFailure(t *testing.T) {
	results := []checks.GateCheck{
		check(checks.GateOracle, false, true),
		check(checks.GateOracle, true, true),
	}
	s := Evaluate(results, config.Gates{}, task.Evidence{}, strictMode(), "standard", risk.Assessment{})
	if s.Oracle != Fail || s.Failures[0] != "Oracle checks failed." {
		t.Errorf("unexpected oracle evaluation: %+v", s)
	}
}

func TestEvaluateReviewGateModes(t *testing.T) {
	gates := config.Gates{Review: true}

	s := Evaluate(nil, gates, task.Evidence{}, strictMode(), "standard", risk.Assessment{})
	if s.Review != Fail || s.Failures[0] != "Review gate failed. Missing task review_evidence.approver/reference." {
		t.Errorf("strict mode without evidence: %+v", s)
	}

	s = Evaluate(nil, gates, task.Evidence{Review: true}, strictMode(), "standard", risk.Assessment{})
	if s.Review != Pass {
		t.Errorf("strict mode with evidence must pass, got %s", s.Review)
	}

	s = Evaluate(nil, gates, task.Evidence{}, Mode{}, "standard", risk.Assessment{})
	if s.Review != Fail || s.Failures[0] != "Review gate failed. Use --review-approved when reviewer approval exists." {
		t.Errorf("flag mode without flag: %+v", s)
	}

	s = Evaluate(nil, gates, task.Evidence{}, Mode{ReviewApproved: true}, "standard", risk.Assessment{})
	if s.Review != Pass {
		t.Errorf("flag mode with flag must pass, got %s", s.Review)
	}
}

func TestEvaluateDocsGateModes(t *testing.T) {
	gates := config.Gates{Docs: true}

	s := Evaluate(nil, gates, task.Evidence{}, strictMode(), "standard", risk.Assessment{})
	if s.Docs != Fail || s.Failures[0] != "Docs gate failed. Missing task docs_evidence.updated_files entries." {
		t.Errorf("strict mode without evidence: %+v", s)
	}

	s = Evaluate(nil, gates, task.Evidence{}, Mode{}, "standard", risk.Assessment{})
	if s.Docs != Fail || s.Failures[0] != "Docs gate failed. Use --docs-updated after documentation update." {
		t.Errorf("flag mode without flag: %+v", s)
	}

	s = Evaluate(nil, gates, task.Evidence{Docs: true}, strictMode(), "standard", risk.Assessment{})
	if s.Docs != Pass {
		t.Errorf("strict mode with evidence must pass, got %s", s.Docs)
	}
}

func TestPolicyBlocks(t *testing.T) {
	cases := []struct {
		name                       string
		score, threshold           int
		required, strict, planOnly bool
		want                       bool
	}{
		{"blocks at threshold", 70, 70, true, false, false, true},
		{"below threshold", 69, 70, true, false, false, false},
		{"strict mode unblocks", 90, 70, true, true, false, false},
		{"enforcement disabled", 90, 70, false, false, false, false},
		{"plan only never blocks", 90, 70, true, false, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PolicyBlocks(tc.score, tc.threshold, tc.required, tc.strict, tc.planOnly); got != tc.want {
				t.Errorf("PolicyBlocks(%d,%d,%t,%t,%t) = %t, want %t",
					tc.score, tc.threshold, tc.required, tc.strict, tc.planOnly, got, tc.want)
			}
		})
	}
}

func TestRenderSummary(t *testing.T) {
	s := Summary{
		TaskType:     "api",
		Risk:         risk.Assessment{Score: 55, Level: risk.LevelMedium},
		Tests:        Pass,
		Security:     Fail,
		TypeSpecific: Skipped,
		Oracle:       Skipped,
		Review:       Pass,
		Docs:         Skipped,
		ManualMode:   true,
	}
	out := s.Render()
	for _, want := range []string{
		"## Gate Summary",
		"- Task type: api",
		"- Risk: medium (55)",
		"- Tests: PASS",
		"- Security: FAIL",
		"- Type-specific: SKIPPED",
		"- Manual gate mode: ENABLED",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderPlanOnly(t *testing.T) {
	out := RenderPlanOnly(config.Gates{Tests: true, Security: true, Review: true}, "data", false)
	for _, want := range []string{
		"## Plan Only",
		"- tests: true",
		"- docs: false",
		"- task_type: data",
		"- manual_mode: false",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestOutcomeMetric(t *testing.T) {
	if Pass.Metric() != "pass" || Skipped.Metric() != "skipped" {
		t.Error("metric form must be lowercase")
	}
}
