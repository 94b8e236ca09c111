package checks

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// outputLimit caps the captured output embedded per run log section.
const outputLimit = 5000

// RunLog is the human-readable record of one run, created once per
// invocation and only ever appended to.
type RunLog struct {
	path string
}

// CreateRunLog writes the run log header and returns the log.
func CreateRunLog(path, taskFile string, started time.Time) (*RunLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create runs directory: %w", err)
	}
	header := fmt.Sprintf("# Run Log\n\n- Task: %s\n- Started: %s\n\n## Steps\n",
		taskFile, started.UTC().Format(time.RFC3339))
	if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
		return nil, fmt.Errorf("create run log: %w", err)
	}
	return &RunLog{path: path}, nil
}

// Path returns the log file location.
func (l *RunLog) Path() string {
	return l.path
}

// Section appends one titled check section with its command, status, and
// truncated output.
func (l *RunLog) Section(title string, r Result) {
	status := "FAIL"
	if r.OK {
		status = "PASS"
	}
	text := fmt.Sprintf("\n### %s\n\n- Command: `%s`\n- Status: %s\n", title, r.Cmd, status)
	if r.Stdout != "" {
		text += fmt.Sprintf("- Stdout:\n\n```text\n%s\n```\n", truncate(r.Stdout, outputLimit))
	}
	if r.Stderr != "" {
		text += fmt.Sprintf("- Stderr:\n\n```text\n%s\n```\n", truncate(r.Stderr, outputLimit))
	}
	l.Append(text)
}

// Append writes raw text to the log. Failures are ignored: the log is an
// artifact, never a reason to fail a run.
func (l *RunLog) Append(text string) {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(text)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
