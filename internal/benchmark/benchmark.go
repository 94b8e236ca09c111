// Package benchmark scores how ready a workspace is for gated runs.
package benchmark

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rankerhq/agentic/internal/doctor"
	"github.com/rankerhq/agentic/internal/task"
	"github.com/rankerhq/agentic/internal/workspace"
)

// Report is one benchmark evaluation of a workspace.
type Report struct {
	Score              int
	Grade              string
	DoctorPass         bool
	DoctorErrors       []string
	ValidatePass       bool
	ValidationFindings []task.Report
	TemplatesPresent   bool
	CommandScore       int
	ToolScore          int
	GeneratedAt        time.Time
}

// probedTools are the stack toolchains whose availability feeds the tool
// dimension.
var probedTools = []string{"npm", "pytest", "go", "cargo"}

// Run scores the workspace at root. look reports whether an executable is
// available on this system.
func Run(root string, look func(name string) bool, now time.Time) Report {
	layout := workspace.At(root)
	rep := Report{GeneratedAt: now}

	rep.DoctorErrors = doctor.Check(root)
	rep.DoctorPass = len(rep.DoctorErrors) == 0

	tasksDir := layout.TasksDir()
	if _, err := os.Stat(tasksDir); err != nil {
		rep.ValidationFindings = []task.Report{{Path: "(missing tasks dir)", Missing: []string{"tasks"}}}
	} else {
		for _, file := range workspace.CollectTaskFiles(tasksDir) {
			if r := task.ValidateFile(file); !r.OK() {
				rep.ValidationFindings = append(rep.ValidationFindings, r)
			}
		}
	}
	rep.ValidatePass = len(rep.ValidationFindings) == 0

	rep.TemplatesPresent = true
	for _, name := range workspace.TaskTemplates {
		if _, err := os.Stat(filepath.Join(tasksDir, name)); err != nil {
			rep.TemplatesPresent = false
			break
		}
	}

	if look("bash") {
		rep.CommandScore = 10
	}
	available := 0
	for _, tool := range probedTools {
		if look(tool) {
			available++
		}
	}
	rep.ToolScore = int(math.Round(float64(available) / float64(len(probedTools)) * 20))

	if rep.DoctorPass {
		rep.Score += 40
	}
	if rep.ValidatePass {
		rep.Score += 20
	}
	if rep.TemplatesPresent {
		rep.Score += 10
	}
	rep.Score += rep.CommandScore
	rep.Score += rep.ToolScore
	rep.Grade = gradeFor(rep.Score)

	return rep
}

func gradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 45:
		return "D"
	}
	return "E"
}

// Render formats the benchmark report document.
func (r Report) Render() string {
	var b strings.Builder
	b.WriteString("# Benchmark Report\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Score: %d/100\n", r.Score)
	fmt.Fprintf(&b, "- Grade: %s\n\n", r.Grade)
	b.WriteString("## Dimensions\n\n")
	fmt.Fprintf(&b, "- Doctor: %s\n", passFail(r.DoctorPass, 40))
	fmt.Fprintf(&b, "- Task validation: %s\n", passFail(r.ValidatePass, 20))
	fmt.Fprintf(&b, "- Specialized templates: %s\n", passFail(r.TemplatesPresent, 10))
	fmt.Fprintf(&b, "- CLI readiness: %d/10\n", r.CommandScore)
	fmt.Fprintf(&b, "- Tool availability: %d/20\n", r.ToolScore)

	if !r.DoctorPass {
		b.WriteString("\n## Doctor Findings\n\n")
		for _, e := range r.DoctorErrors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	if !r.ValidatePass {
		b.WriteString("\n## Validation Findings\n\n")
		for _, v := range r.ValidationFindings {
			fmt.Fprintf(&b, "- %s: %s\n", v.Path, strings.Join(v.Missing, ", "))
		}
	}
	return b.String()
}

func passFail(ok bool, points int) string {
	if ok {
		return fmt.Sprintf("PASS (%d)", points)
	}
	return "FAIL (0)"
}
