// Package task reads and mutates workflow task documents.
//
// A task file is hand-authored YAML. Reads go through a tolerant parsed-tree
// lookup; the only mutation the tool ever performs is rewriting the status
// line in place, leaving the rest of the document untouched.
package task

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rankerhq/agentic/internal/yamldoc"
)

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusBlocked    = "blocked"
	StatusDone       = "done"
)

// Task is a loaded task document.
type Task struct {
	Path string
	Raw  string
	doc  yamldoc.Doc
}

// Load reads and parses the task file at path.
func Load(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return &Task{Path: path, Raw: string(data), doc: yamldoc.Parse(data)}, nil
}

// Has reports whether the document carries key at the top level. When the
// document failed to parse as YAML it falls back to a line-prefix scan so a
// partially malformed task still validates against what it does declare.
func (t *Task) Has(key string) bool {
	if t.doc.OK() {
		return t.doc.Has(key)
	}
	prefix := key + ":"
	for _, line := range strings.Split(t.Raw, "\n") {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// Status returns the task's current status, lowercased, or "".
func (t *Task) Status() string {
	return strings.ToLower(t.doc.Scalar("status"))
}

// Skill returns the task's declared skill tag.
func (t *Task) Skill() string {
	return t.doc.Scalar("skill")
}

// Type derives the task type from the file name first, then the skill tag.
func (t *Task) Type() string {
	base := filepath.Base(t.Path)
	switch {
	case strings.Contains(base, "hotfix"):
		return "hotfix"
	case strings.Contains(base, "api"):
		return "api"
	case strings.Contains(base, "data"):
		return "data"
	case strings.Contains(base, "performance"):
		return "performance"
	case strings.Contains(base, "ui"):
		return "ui"
	}
	switch t.Skill() {
	case "api-contract":
		return "api"
	case "db-migration-safe":
		return "data"
	case "performance-check":
		return "performance"
	}
	return "standard"
}

// Evidence holds the manual-evidence verdicts embedded in a task document.
type Evidence struct {
	Review bool
	Docs   bool
}

// ManualEvidence evaluates the structured review and docs evidence blocks.
// Review requires a non-empty approver and reference; docs requires at least
// one non-empty updated_files entry.
func (t *Task) ManualEvidence() Evidence {
	ev := Evidence{
		Review: t.doc.Scalar("review_evidence", "approver") != "" &&
			t.doc.Scalar("review_evidence", "reference") != "",
	}
	for _, item := range t.doc.Seq("docs_evidence", "updated_files") {
		if item != "" {
			ev.Docs = true
			break
		}
	}
	return ev
}

var statusLine = regexp.MustCompile(`(?m)^status:\s*.*$`)

// SetStatus rewrites exactly the status line of the task file in place.
// A document without a status line is left unchanged.
func (t *Task) SetStatus(status string) error {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return fmt.Errorf("read task file: %w", err)
	}
	content := string(data)
	if !statusLine.MatchString(content) {
		return nil
	}
	content = statusLine.ReplaceAllString(content, "status: "+status)
	if err := os.WriteFile(t.Path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	t.Raw = content
	t.doc = yamldoc.Parse([]byte(content))
	return nil
}

// Report is the validation outcome for one task file.
type Report struct {
	Path    string
	Missing []string
}

// OK reports whether the task validated cleanly.
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// requiredKeys every task must declare.
var requiredKeys = []string{"id", "title", "owner_agent", "status"}

// Validate checks the task for required keys, including the extra keys its
// file name implies, and reports exactly the ones that are missing.
func (t *Task) Validate() Report {
	rep := Report{Path: t.Path}
	for _, key := range requiredKeys {
		if !t.Has(key) {
			rep.Missing = append(rep.Missing, key)
		}
	}

	base := filepath.Base(t.Path)
	if strings.HasPrefix(base, "feature") && !t.Has("acceptance_criteria") {
		rep.Missing = append(rep.Missing, "acceptance_criteria")
	}
	if strings.Contains(base, "bugfix") && !t.Has("root_cause") {
		rep.Missing = append(rep.Missing, "root_cause")
	}
	if strings.Contains(base, "release") && !t.Has("release_checks") {
		rep.Missing = append(rep.Missing, "release_checks")
	}
	if strings.Contains(base, "incident-hotfix") {
		if !t.Has("root_cause") {
			rep.Missing = append(rep.Missing, "root_cause")
		}
		if !t.Has("mitigation_plan") {
			rep.Missing = append(rep.Missing, "mitigation_plan")
		}
	}
	return rep
}

// ValidateFile loads and validates a task file. An unreadable file reports
// every base key as missing rather than erroring, so directory sweeps keep
// going.
func ValidateFile(path string) Report {
	t, err := Load(path)
	if err != nil {
		return Report{Path: path, Missing: append([]string(nil), requiredKeys...)}
	}
	return t.Validate()
}
