// Package stack detects which build ecosystems a project uses and maps each
// one to the shell commands backing the quality gates.
package stack

import (
	"os"
	"path/filepath"
)

// Stack identifies a detected build ecosystem.
type Stack string

const (
	Node   Stack = "node"
	Python Stack = "python"
	Go     Stack = "go"
	Rust   Stack = "rust"
)

// Detect inspects the project root for ecosystem marker files. The returned
// order is fixed so fingerprints and log sections stay deterministic. Zero
// detected stacks is a valid, reportable state.
func Detect(root string) []Stack {
	var stacks []Stack
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(root, name))
		return err == nil
	}
	if exists("package.json") {
		stacks = append(stacks, Node)
	}
	if exists("pyproject.toml") || exists("requirements.txt") {
		stacks = append(stacks, Python)
	}
	if exists("go.mod") {
		stacks = append(stacks, Go)
	}
	if exists("Cargo.toml") {
		stacks = append(stacks, Rust)
	}
	return stacks
}

// Commands holds the ordered candidate commands for the automated gates of
// one stack.
type Commands struct {
	Tests    []string
	Security []string
}

// CommandsFor returns the gate command candidates for a stack.
func CommandsFor(s Stack) Commands {
	switch s {
	case Node:
		return Commands{
			Tests:    []string{"npm test --silent", "npm run -s test"},
			Security: []string{"npm audit --audit-level=high --omit=dev", "npm audit --audit-level=high"},
		}
	case Python:
		return Commands{
			Tests:    []string{"pytest -q"},
			Security: []string{"pip-audit", "bandit -q -r ."},
		}
	case Go:
		return Commands{
			Tests:    []string{"go test ./..."},
			Security: []string{"go vet ./..."},
		}
	case Rust:
		return Commands{
			Tests:    []string{"cargo test --quiet"},
			Security: []string{"cargo audit", "cargo clippy --quiet -- -D warnings"},
		}
	}
	return Commands{}
}

// Check is a named supplementary check with ordered candidates.
type Check struct {
	Name       string
	Candidates []string
}

// TypeChecks returns the type-specific checks for a task type on a stack.
func TypeChecks(taskType string, s Stack) []Check {
	var checks []Check
	switch taskType {
	case "api":
		if s == Node {
			checks = append(checks, Check{Name: "api-contract", Candidates: []string{"npm run -s test:contract", "npm run -s test:api"}})
		}
		if s == Python {
			checks = append(checks, Check{Name: "api-contract", Candidates: []string{"pytest -q tests/contract", "pytest -q tests/api"}})
		}
	case "data":
		if s == Node {
			checks = append(checks, Check{Name: "migration-safety", Candidates: []string{"npm run -s migration:check", "npm run -s db:check"}})
		}
		if s == Python {
			checks = append(checks, Check{Name: "migration-safety", Candidates: []string{"alembic check", "pytest -q tests/migrations"}})
		}
	case "performance":
		if s == Node {
			checks = append(checks, Check{Name: "performance", Candidates: []string{"npm run -s bench", "npm run -s test:perf"}})
		}
		if s == Go {
			checks = append(checks, Check{Name: "performance", Candidates: []string{"go test -bench=. ./..."}})
		}
		if s == Rust {
			checks = append(checks, Check{Name: "performance", Candidates: []string{"cargo bench"}})
		}
	case "ui":
		if s == Node {
			checks = append(checks, Check{Name: "ui-quality", Candidates: []string{"npm run -s test:a11y", "npm run -s lint"}})
		}
	}
	return checks
}

// OracleChecks returns the advisory mutation/fuzz/snapshot checks for a stack.
func OracleChecks(s Stack) []Check {
	switch s {
	case Node:
		return []Check{
			{Name: "oracle-mutation", Candidates: []string{"npm run -s test:mutation"}},
			{Name: "oracle-fuzz", Candidates: []string{"npm run -s test:fuzz"}},
			{Name: "oracle-snapshot", Candidates: []string{"npm run -s test:snapshot"}},
		}
	case Python:
		return []Check{
			{Name: "oracle-mutation", Candidates: []string{"mutmut run"}},
			{Name: "oracle-fuzz", Candidates: []string{"pytest -q tests/fuzz"}},
		}
	case Go:
		return []Check{
			{Name: "oracle-fuzz", Candidates: []string{"go test ./... -fuzz=Fuzz"}},
		}
	}
	return nil
}

// AutoFixCandidates returns the ordered fix commands autopilot may try for
// the detected stacks.
func AutoFixCandidates(stacks []Stack) []string {
	var candidates []string
	for _, s := range stacks {
		switch s {
		case Node:
			candidates = append(candidates, "npm run -s fix", "npm run -s lint -- --fix")
		case Python:
			candidates = append(candidates, "ruff check --fix .", "black .")
		case Go:
			candidates = append(candidates, "gofmt -w .")
		case Rust:
			candidates = append(candidates, "cargo fix --allow-dirty --allow-staged")
		}
	}
	return candidates
}

// ManifestFiles are the dependency manifest and lock files whose state feeds
// check fingerprints.
var ManifestFiles = []string{
	"package.json",
	"package-lock.json",
	"pnpm-lock.yaml",
	"yarn.lock",
	"requirements.txt",
	"pyproject.toml",
	"go.mod",
	"go.sum",
	"Cargo.toml",
	"Cargo.lock",
}
