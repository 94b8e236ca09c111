// Package workspace resolves the on-disk layout of a project's workflow
// directory. All state the tool reads or writes lives under
// <root>/.ultra-workflow; nothing outside it is touched except the agent
// contract files at the project root.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Dir is the workflow directory name inside a project root.
const Dir = ".ultra-workflow"

// RequiredSkills are the skill definitions an installed workspace must carry.
var RequiredSkills = []string{
	"oneshot-feature",
	"debug",
	"pr",
	"commit",
	"security-audit",
	"brainstorming",
	"requirements-clarification",
	"implementation-plan",
	"test-design",
	"refactor-safe",
	"review-fix",
	"docs-update",
	"rollback-readiness",
	"api-contract",
	"db-migration-safe",
	"observability",
	"performance-check",
}

// TaskTemplates are the task template files an installed workspace must carry.
// Task auto-selection skips these names when a custom task is available.
var TaskTemplates = []string{
	"feature.yml",
	"bugfix.yml",
	"release.yml",
	"feature-api.yml",
	"feature-data.yml",
	"feature-ui.yml",
	"feature-performance.yml",
	"incident-hotfix.yml",
}

// AgentContracts maps an installed agent name to its contract file at the
// project root.
var AgentContracts = map[string]string{
	"codex":    "AGENTS.md",
	"claude":   "CLAUDE.md",
	"opencode": "OPENCODE.md",
	"generic":  "AI-WORKFLOW.md",
}

// IsTemplate reports whether name is one of the stock task template names.
func IsTemplate(name string) bool {
	for _, t := range TaskTemplates {
		if name == t {
			return true
		}
	}
	return false
}

// Layout resolves paths inside a project's workflow directory.
type Layout struct {
	Root string
}

// At returns a Layout for the given project root.
func At(root string) Layout {
	return Layout{Root: root}
}

func (l Layout) WorkflowDir() string { return filepath.Join(l.Root, Dir) }
func (l Layout) ConfigPath() string  { return filepath.Join(l.WorkflowDir(), "config.yml") }
func (l Layout) AgentsDir() string   { return filepath.Join(l.WorkflowDir(), "agents") }
func (l Layout) SkillsDir() string   { return filepath.Join(l.WorkflowDir(), "skills") }
func (l Layout) TasksDir() string    { return filepath.Join(l.WorkflowDir(), "tasks") }
func (l Layout) RunsDir() string     { return filepath.Join(l.WorkflowDir(), "runs") }
func (l Layout) CacheDir() string    { return filepath.Join(l.WorkflowDir(), "cache") }
func (l Layout) ContextDir() string  { return filepath.Join(l.WorkflowDir(), "context") }

func (l Layout) CachePath() string    { return filepath.Join(l.CacheDir(), "checks.json") }
func (l Layout) MetricsPath() string  { return filepath.Join(l.RunsDir(), "metrics.jsonl") }
func (l Layout) HistoryPath() string  { return filepath.Join(l.RunsDir(), "history.db") }
func (l Layout) ManifestPath() string { return filepath.Join(l.WorkflowDir(), "install.json") }

func (l Layout) BenchmarkDir() string { return filepath.Join(l.WorkflowDir(), "benchmark") }
func (l Layout) BenchmarkReportPath() string {
	return filepath.Join(l.BenchmarkDir(), "last-report.md")
}

func (l Layout) RecommendationsDir() string {
	return filepath.Join(l.WorkflowDir(), "recommendations")
}

// SkillPath returns the SKILL.md path for a named skill.
func (l Layout) SkillPath(skill string) string {
	return filepath.Join(l.SkillsDir(), skill, "SKILL.md")
}

// RunLogPath returns the path of a new run log for the given task file,
// named by timestamp plus task basename.
func (l Layout) RunLogPath(taskFile string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(taskFile), filepath.Ext(taskFile))
	return filepath.Join(l.RunsDir(), fmt.Sprintf("%s-%s.md", Stamp(now), name))
}

// LastRunLog returns the lexicographically last run log name, or "".
func (l Layout) LastRunLog() string {
	entries, err := os.ReadDir(l.RunsDir())
	if err != nil {
		return ""
	}
	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) == 0 {
		return ""
	}
	sort.Strings(logs)
	return logs[len(logs)-1]
}

// Stamp formats a timestamp for run log names.
func Stamp(t time.Time) string {
	return t.Format("20060102-150405")
}

// CollectTaskFiles returns the task files named by target: the file itself,
// or every .yml/.yaml file directly inside the directory, sorted by name.
func CollectTaskFiles(target string) []string {
	info, err := os.Stat(target)
	if err != nil {
		return nil
	}
	if !info.IsDir() {
		return []string{target}
	}
	entries, err := os.ReadDir(target)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yml") || strings.HasSuffix(e.Name(), ".yaml") {
			files = append(files, filepath.Join(target, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}
