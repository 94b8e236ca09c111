package config

import (
	"strings"
	"testing"
)

const sampleConfig = `version: 7
workflow_name: ranker-agentic
quality_gates:
  tests_required: true
  security_scan_required: false
  review_required: true
  docs_update_required: true
risk_policy:
  high_risk_threshold: 60
  require_strict_manual_gates: false
reliability:
  max_autopilot_iterations: 5
  auto_fix_enabled: false
`

func TestGates(t *testing.T) {
	cfg := Parse([]byte(sampleConfig))
	g := cfg.Gates()
	if !g.Tests || g.Security || !g.Review || !g.Docs {
		t.Errorf("unexpected gates: %+v", g)
	}
}

func TestPolicyValues(t *testing.T) {
	cfg := Parse([]byte(sampleConfig))
	if got := cfg.HighRiskThreshold(); got != 60 {
		t.Errorf("expected threshold 60, got %d", got)
	}
	if cfg.RequireStrictManualGates() {
		t.Error("expected strict gates not required")
	}
	if got := cfg.MaxAutopilotIterations(); got != 5 {
		t.Errorf("expected 5 iterations, got %d", got)
	}
	if cfg.AutoFixEnabled() {
		t.Error("expected auto-fix disabled")
	}
}

func TestDefaultsOnEmptyDocument(t *testing.T) {
	cfg := Parse(nil)
	g := cfg.Gates()
	if !g.Tests || !g.Security || !g.Review || g.Docs {
		t.Errorf("unexpected default gates: %+v", g)
	}
	if got := cfg.HighRiskThreshold(); got != 70 {
		t.Errorf("expected default threshold 70, got %d", got)
	}
	if !cfg.RequireStrictManualGates() {
		t.Error("expected strict gates required by default")
	}
	if got := cfg.MaxAutopilotIterations(); got != 3 {
		t.Errorf("expected default 3 iterations, got %d", got)
	}
	if !cfg.AutoFixEnabled() {
		t.Error("expected auto-fix enabled by default")
	}
}

func TestSetIntKeyReplaces(t *testing.T) {
	out := SetIntKey(sampleConfig, "high_risk_threshold", 50)
	if !strings.Contains(out, "  high_risk_threshold: 50") {
		t.Errorf("expected replaced threshold, got:\n%s", out)
	}
	if strings.Contains(out, "high_risk_threshold: 60") {
		t.Error("old value still present")
	}
	if got := Parse([]byte(out)).HighRiskThreshold(); got != 50 {
		t.Errorf("patched document parses to %d", got)
	}
}

func TestSetIntKeyAppends(t *testing.T) {
	out := SetIntKey("version: 7\n", "high_risk_threshold", 60)
	if got := Parse([]byte(out)).HighRiskThreshold(); got != 60 {
		t.Errorf("appended key parses to %d", got)
	}
}

func TestSetBoolKey(t *testing.T) {
	out := SetBoolKey(sampleConfig, "require_strict_manual_gates", true)
	if !Parse([]byte(out)).RequireStrictManualGates() {
		t.Error("expected strict gates required after patch")
	}
}
