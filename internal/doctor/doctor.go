// Package doctor verifies that a workspace installation is structurally
// complete before any gated run is allowed.
package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rankerhq/agentic/internal/task"
	"github.com/rankerhq/agentic/internal/workspace"
)

// Manifest is the install manifest written at workspace initialization.
type Manifest struct {
	Agents  []string `json:"agents"`
	Profile string   `json:"profile"`
	Packs   []string `json:"packs"`
}

// ReadManifest loads the install manifest. A missing or malformed manifest
// returns nil plus the doctor error line describing it.
func ReadManifest(layout workspace.Layout) (*Manifest, string) {
	path := layout.ManifestPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Sprintf("Missing: %s", path)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Sprintf("Invalid JSON: %s", path)
	}
	return &m, ""
}

// configGateKeys are the configuration keys the doctor requires to be
// present in config.yml, checked as raw substrings so a commented or
// restructured file still counts as configured.
var configGateKeys = []string{
	"tests_required:",
	"security_scan_required:",
	"review_required:",
	"docs_update_required:",
	"high_risk_threshold:",
	"require_strict_manual_gates:",
	"max_autopilot_iterations:",
	"auto_fix_enabled:",
}

// Check walks the whole installation and returns one error line per missing
// or malformed piece. An empty slice means the workspace is healthy.
func Check(root string) []string {
	layout := workspace.At(root)
	var errors []string

	exists := func(path string) {
		if _, err := os.Stat(path); err != nil {
			errors = append(errors, fmt.Sprintf("Missing: %s", path))
		}
	}

	exists(layout.WorkflowDir())
	exists(layout.ConfigPath())
	exists(layout.AgentsDir())
	exists(layout.SkillsDir())
	exists(layout.TasksDir())
	exists(filepath.Join(layout.WorkflowDir(), "checklists", "definition-of-done.md"))
	exists(filepath.Join(layout.WorkflowDir(), "prompts", "runbook.md"))
	exists(filepath.Join(layout.WorkflowDir(), "references", "skill-selection.md"))
	exists(filepath.Join(layout.BenchmarkDir(), "scenarios.yml"))
	exists(filepath.Join(layout.WorkflowDir(), "packs", "enabled.yml"))

	for _, skill := range workspace.RequiredSkills {
		exists(layout.SkillPath(skill))
	}
	for _, template := range workspace.TaskTemplates {
		exists(filepath.Join(layout.TasksDir(), template))
	}

	manifest, manifestErr := ReadManifest(layout)
	if manifestErr != "" {
		errors = append(errors, manifestErr)
	}
	if manifest != nil {
		for _, agent := range manifest.Agents {
			if contract, ok := workspace.AgentContracts[agent]; ok {
				exists(filepath.Join(root, contract))
			}
		}
	}

	for _, file := range workspace.CollectTaskFiles(layout.TasksDir()) {
		report := task.ValidateFile(file)
		if !report.OK() {
			errors = append(errors, fmt.Sprintf("Invalid task file %s: missing %s",
				file, strings.Join(report.Missing, ", ")))
		}
	}

	if data, err := os.ReadFile(layout.ConfigPath()); err == nil {
		content := string(data)
		for _, key := range configGateKeys {
			if !strings.Contains(content, key) {
				errors = append(errors, fmt.Sprintf("Config gate key missing: %s", key))
			}
		}
	}

	return errors
}
