// Package config reads the workflow gate configuration document.
//
// The document is hand-authored YAML; every lookup falls back to a default
// when the key is missing or malformed so a partial or reordered config
// still produces a runnable policy.
package config

import (
	"os"

	"github.com/rankerhq/agentic/internal/yamldoc"
)

// Gates holds the four gate switches resolved from configuration.
type Gates struct {
	Tests    bool
	Security bool
	Review   bool
	Docs     bool
}

// Config is a loaded gate configuration document.
type Config struct {
	doc yamldoc.Doc
}

// Load reads the config document at path. A missing or unreadable file
// yields an empty Config where every accessor returns its default.
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	return Parse(data)
}

// Parse parses a config document from raw bytes.
func Parse(data []byte) Config {
	return Config{doc: yamldoc.Parse(data)}
}

// Gates resolves the gate switches with their installed defaults.
func (c Config) Gates() Gates {
	return Gates{
		Tests:    c.doc.Bool("tests_required", true),
		Security: c.doc.Bool("security_scan_required", true),
		Review:   c.doc.Bool("review_required", true),
		Docs:     c.doc.Bool("docs_update_required", false),
	}
}

// HighRiskThreshold returns the risk score at which the strict-gate policy
// engages.
func (c Config) HighRiskThreshold() int {
	return c.doc.Int("high_risk_threshold", 70)
}

// RequireStrictManualGates reports whether high-risk tasks must run in
// strict-manual-gates mode.
func (c Config) RequireStrictManualGates() bool {
	return c.doc.Bool("require_strict_manual_gates", true)
}

// MaxAutopilotIterations returns the autopilot retry cap.
func (c Config) MaxAutopilotIterations() int {
	return c.doc.Int("max_autopilot_iterations", 3)
}

// AutoFixEnabled reports whether autopilot may run fix commands between
// iterations.
func (c Config) AutoFixEnabled() bool {
	return c.doc.Bool("auto_fix_enabled", true)
}
