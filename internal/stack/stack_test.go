package stack

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, root, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectEmpty(t *testing.T) {
	if got := Detect(t.TempDir()); len(got) != 0 {
		t.Errorf("expected no stacks, got %v", got)
	}
}

func TestDetectMarkers(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "Cargo.toml")
	touch(t, root, "package.json")
	touch(t, root, "go.mod")

	got := Detect(root)
	want := []Stack{Node, Go, Rust}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected stable order %v, got %v", want, got)
	}
}

func TestDetectPythonEitherMarker(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "requirements.txt")
	if got := Detect(root); !reflect.DeepEqual(got, []Stack{Python}) {
		t.Errorf("expected python, got %v", got)
	}

	root = t.TempDir()
	touch(t, root, "pyproject.toml")
	if got := Detect(root); !reflect.DeepEqual(got, []Stack{Python}) {
		t.Errorf("expected python, got %v", got)
	}
}

func TestCommandsForEveryStack(t *testing.T) {
	for _, s := range []Stack{Node, Python, Go, Rust} {
		c := CommandsFor(s)
		if len(c.Tests) == 0 || len(c.Security) == 0 {
			t.Errorf("stack %s has empty gate commands: %+v", s, c)
		}
	}
}

func TestTypeChecks(t *testing.T) {
	if got := TypeChecks("api", Node); len(got) != 1 || got[0].Name != "api-contract" {
		t.Errorf("unexpected api/node checks: %+v", got)
	}
	if got := TypeChecks("api", Rust); len(got) != 0 {
		t.Errorf("expected no api checks for rust, got %+v", got)
	}
	if got := TypeChecks("standard", Node); len(got) != 0 {
		t.Errorf("expected no checks for standard type, got %+v", got)
	}
	if got := TypeChecks("performance", Go); len(got) != 1 || got[0].Name != "performance" {
		t.Errorf("unexpected performance/go checks: %+v", got)
	}
}

func TestOracleChecks(t *testing.T) {
	if got := OracleChecks(Node); len(got) != 3 {
		t.Errorf("expected 3 node oracle checks, got %d", len(got))
	}
	if got := OracleChecks(Rust); got != nil {
		t.Errorf("expected no rust oracle checks, got %+v", got)
	}
}

func TestAutoFixCandidatesOrder(t *testing.T) {
	got := AutoFixCandidates([]Stack{Node, Go})
	want := []string{"npm run -s fix", "npm run -s lint -- --fix", "gofmt -w ."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
