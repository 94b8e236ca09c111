package history

import (
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMigrateIdempotent(t *testing.T) {
	s := openStore(t)
	if err := s.Migrate(); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestLogAndQueryRuns(t *testing.T) {
	s := openStore(t)

	id, err := s.LogRun(Run{
		Task:       "feature-login.yml",
		TaskType:   "standard",
		RiskScore:  35,
		RiskLevel:  "low",
		Result:     "pass",
		DurationMS: 1200,
		CacheHits:  1,
		LogPath:    "runs/20260830-100000-feature-login.md",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.LogRun(Run{Task: "bugfix-crash.yml", TaskType: "standard", RiskScore: 20, RiskLevel: "low", Result: "fail"}); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Runs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Task != "bugfix-crash.yml" {
		t.Errorf("expected newest first, got %q", runs[0].Task)
	}
	if runs[1].ID != id || runs[1].LogPath == "" {
		t.Errorf("unexpected run row: %+v", runs[1])
	}
}

func TestLogAndQueryChecks(t *testing.T) {
	s := openStore(t)
	runID, err := s.LogRun(Run{Task: "feature.yml", TaskType: "api", RiskScore: 35, RiskLevel: "low", Result: "pass"})
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range []CheckResult{
		{Gate: "tests", Stack: "node", Title: "tests (node)", Command: "npm test --silent", Passed: true},
		{Gate: "security", Stack: "node", Title: "security (node)", Command: "npm audit --audit-level=high", Passed: false, ExitCode: 1, FromCache: false},
	} {
		if err := s.LogCheck(runID, c); err != nil {
			t.Fatal(err)
		}
	}

	checks, err := s.Checks(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(checks))
	}
	if checks[0].Gate != "tests" || !checks[0].Passed {
		t.Errorf("unexpected first check: %+v", checks[0])
	}
	if checks[1].ExitCode != 1 || checks[1].Passed {
		t.Errorf("unexpected second check: %+v", checks[1])
	}
}

func TestRunsLimit(t *testing.T) {
	s := openStore(t)
	for i := 0; i < 5; i++ {
		if _, err := s.LogRun(Run{Task: "t.yml", TaskType: "standard", RiskScore: 20, RiskLevel: "low", Result: "pass"}); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := s.Runs(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("expected limit of 3, got %d", len(runs))
	}
}
