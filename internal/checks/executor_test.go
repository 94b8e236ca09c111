package checks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rankerhq/agentic/internal/config"
)

// fakeRunner scripts command availability and canned results, and records
// every command it actually runs.
type fakeRunner struct {
	mu        sync.Mutex
	available map[string]bool
	results   map[string]Result
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{available: map[string]bool{}, results: map[string]Result{}}
}

func (f *fakeRunner) LookPath(name string) bool {
	return f.available[name]
}

func (f *fakeRunner) Run(_ context.Context, _ string, command string) Result {
	f.mu.Lock()
	f.calls = append(f.calls, command)
	f.mu.Unlock()
	if r, ok := f.results[command]; ok {
		return r
	}
	return Result{Cmd: command, OK: true, Status: 0, Stdout: "ok"}
}

func (f *fakeRunner) callCount(command string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == command {
			n++
		}
	}
	return n
}

func newTestLog(t *testing.T, dir string) *RunLog {
	t.Helper()
	log, err := CreateRunLog(filepath.Join(dir, "run.md"), "task.yml", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	return log
}

func goProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestExecuteNoStacks(t *testing.T) {
	root := t.TempDir()
	runner := newFakeRunner()
	e := NewExecutor(runner)
	cache := LoadCache(filepath.Join(root, "checks.json"))
	log := newTestLog(t, root)

	results := e.Execute(context.Background(), root, "standard",
		config.Gates{Tests: true, Security: true}, cache, log)

	if len(results) != 2 {
		t.Fatalf("expected 2 stack-detection results, got %d", len(results))
	}
	for _, r := range results {
		if r.Result.OK {
			t.Errorf("gate %s: expected failure with no stacks", r.Gate)
		}
		if !strings.Contains(r.Result.Stderr, "No supported stack detected") {
			t.Errorf("gate %s: unexpected stderr %q", r.Gate, r.Result.Stderr)
		}
	}
	if len(runner.calls) != 0 {
		t.Errorf("no commands should run without stacks, ran %v", runner.calls)
	}
}

func TestExecuteRunsGateAndOracleChecks(t *testing.T) {
	root := goProject(t)
	runner := newFakeRunner()
	runner.available["go"] = true
	e := NewExecutor(runner)
	cache := LoadCache(filepath.Join(root, ".cache", "checks.json"))
	log := newTestLog(t, root)

	results := e.Execute(context.Background(), root, "standard",
		config.Gates{Tests: true, Security: true}, cache, log)

	// tests, security, oracle-fuzz for the go stack.
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	byGate := map[string]GateCheck{}
	for _, r := range results {
		byGate[r.Gate] = r
	}
	if r := byGate[GateTests]; !r.Runnable || !r.Result.OK || r.Result.Cmd != "go test ./..." {
		t.Errorf("unexpected tests result: %+v", r)
	}
	if r := byGate[GateSecurity]; r.Result.Cmd != "go vet ./..." {
		t.Errorf("unexpected security result: %+v", r)
	}
	if r := byGate[GateOracle]; r.Result.Cmd != "go test ./... -fuzz=Fuzz" {
		t.Errorf("unexpected oracle result: %+v", r)
	}
}

func TestExecuteNoCompatibleCommand(t *testing.T) {
	root := goProject(t)
	runner := newFakeRunner() // nothing on PATH
	e := NewExecutor(runner)
	cache := LoadCache(filepath.Join(root, ".cache", "checks.json"))
	log := newTestLog(t, root)

	results := e.Execute(context.Background(), root, "standard",
		config.Gates{Tests: true}, cache, log)

	var tests *GateCheck
	for i := range results {
		if results[i].Gate == GateTests {
			tests = &results[i]
		}
	}
	if tests == nil {
		t.Fatal("missing tests result")
	}
	if tests.Runnable || tests.Result.OK {
		t.Errorf("expected terminal unrunnable failure, got %+v", tests)
	}
	if tests.Result.Stderr != noCompatibleCommand {
		t.Errorf("unexpected stderr: %q", tests.Result.Stderr)
	}
}

func TestExecuteCacheIdempotence(t *testing.T) {
	root := goProject(t)
	runner := newFakeRunner()
	runner.available["go"] = true
	e := NewExecutor(runner)
	cachePath := filepath.Join(root, ".cache", "checks.json")
	gates := config.Gates{Tests: true}

	cache := LoadCache(cachePath)
	e.Execute(context.Background(), root, "standard", gates, cache, newTestLog(t, t.TempDir()))
	if got := runner.callCount("go test ./..."); got != 1 {
		t.Fatalf("expected 1 run, got %d", got)
	}

	// Second run with unchanged manifests: served from cache.
	cache = LoadCache(cachePath)
	results := e.Execute(context.Background(), root, "standard", gates, cache, newTestLog(t, t.TempDir()))
	if got := runner.callCount("go test ./..."); got != 1 {
		t.Errorf("expected cached second run, command ran %d times", got)
	}
	for _, r := range results {
		if r.Gate == GateTests && !r.FromCache {
			t.Error("expected cache hit on second run")
		}
	}

	// Touching a manifest invalidates the fingerprint.
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n\n// y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cache = LoadCache(cachePath)
	e.Execute(context.Background(), root, "standard", gates, cache, newTestLog(t, t.TempDir()))
	if got := runner.callCount("go test ./..."); got != 2 {
		t.Errorf("expected re-execution after manifest change, got %d runs", got)
	}
}

func TestExecuteFailedResultNotServedFromCache(t *testing.T) {
	root := goProject(t)
	runner := newFakeRunner()
	runner.available["go"] = true
	runner.results["go test ./..."] = Result{Cmd: "go test ./...", OK: false, Status: 1, Stderr: "boom"}
	e := NewExecutor(runner)
	cachePath := filepath.Join(root, ".cache", "checks.json")
	gates := config.Gates{Tests: true}

	e.Execute(context.Background(), root, "standard", gates, LoadCache(cachePath), newTestLog(t, t.TempDir()))
	e.Execute(context.Background(), root, "standard", gates, LoadCache(cachePath), newTestLog(t, t.TempDir()))
	if got := runner.callCount("go test ./..."); got != 2 {
		t.Errorf("failed checks must always re-run, got %d runs", got)
	}
}

func TestExecuteTypeSpecificCheck(t *testing.T) {
	root := t.TempDir()
	pkg := `{"scripts": {"test:contract": "run contracts", "test": "vitest"}}`
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(pkg), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := newFakeRunner()
	runner.available["npm"] = true
	e := NewExecutor(runner)
	cache := LoadCache(filepath.Join(root, ".cache", "checks.json"))
	log := newTestLog(t, root)

	results := e.Execute(context.Background(), root, "api", config.Gates{}, cache, log)

	var contract *GateCheck
	for i := range results {
		if results[i].Gate == GateTypeSpecific {
			contract = &results[i]
		}
	}
	if contract == nil {
		t.Fatal("missing type-specific result")
	}
	if contract.Result.Cmd != "npm run -s test:contract" {
		t.Errorf("expected configured contract shortcut, got %q", contract.Result.Cmd)
	}
}

func TestExecuteLogsSections(t *testing.T) {
	root := goProject(t)
	runner := newFakeRunner()
	runner.available["go"] = true
	e := NewExecutor(runner)
	cache := LoadCache(filepath.Join(root, ".cache", "checks.json"))
	logDir := t.TempDir()
	log := newTestLog(t, logDir)

	e.Execute(context.Background(), root, "standard", config.Gates{Tests: true}, cache, log)

	data, err := os.ReadFile(log.Path())
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "### tests (go)") {
		t.Errorf("missing tests section:\n%s", content)
	}
	if !strings.Contains(content, "- Command: `go test ./...`") {
		t.Error("missing command line")
	}

	// Cached runs are marked.
	cache = LoadCache(filepath.Join(root, ".cache", "checks.json"))
	log2 := newTestLog(t, t.TempDir())
	e.Execute(context.Background(), root, "standard", config.Gates{Tests: true}, cache, log2)
	data, _ = os.ReadFile(log2.Path())
	if !strings.Contains(string(data), "### tests (go) [cache-hit]") {
		t.Errorf("missing cache-hit marker:\n%s", data)
	}
}
