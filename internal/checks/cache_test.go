package checks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rankerhq/agentic/internal/stack"
)

func TestCacheHitRequiresSuccess(t *testing.T) {
	c := LoadCache(filepath.Join(t.TempDir(), "checks.json"))
	key := Key(GateTests, stack.Node, "npm test")

	c.Store(key, "fp", Result{Cmd: "npm test", OK: false, Status: 1}, time.Now())
	if _, hit := c.Lookup(key, "fp"); hit {
		t.Error("failed result must not be served as a cache hit")
	}

	c.Store(key, "fp", Result{Cmd: "npm test", OK: true, Status: 0, Stdout: "ok"}, time.Now())
	got, hit := c.Lookup(key, "fp")
	if !hit {
		t.Fatal("expected cache hit for successful result")
	}
	if got.Stdout != "ok" {
		t.Errorf("unexpected cached result: %+v", got)
	}
}

func TestCacheHitRequiresFingerprintMatch(t *testing.T) {
	c := LoadCache(filepath.Join(t.TempDir(), "checks.json"))
	key := Key(GateTests, stack.Go, "go test ./...")
	c.Store(key, "fp-old", Result{OK: true}, time.Now())
	if _, hit := c.Lookup(key, "fp-new"); hit {
		t.Error("stale fingerprint must miss")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "checks.json")
	c := LoadCache(path)
	key := Key(GateSecurity, stack.Node, "npm audit")
	c.Store(key, "fp", Result{Cmd: "npm audit", OK: true}, time.Now())
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded := LoadCache(path)
	if _, hit := reloaded.Lookup(key, "fp"); !hit {
		t.Error("expected hit after reload")
	}
}

func TestCorruptCacheTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := LoadCache(path)
	if _, hit := c.Lookup("any", "fp"); hit {
		t.Error("corrupt cache must behave as empty")
	}
}

func TestFingerprintTracksManifestState(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, "package.json")
	if err := os.WriteFile(manifest, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	before := Fingerprint(root, "npm test")
	if before != Fingerprint(root, "npm test") {
		t.Error("fingerprint must be stable for unchanged state")
	}
	if before == Fingerprint(root, "npm audit") {
		t.Error("fingerprint must depend on the command")
	}

	// Growing the file changes size even when mtime granularity hides the touch.
	if err := os.WriteFile(manifest, []byte(`{"name":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if after := Fingerprint(root, "npm test"); after == before {
		t.Error("fingerprint must change when a manifest changes")
	}
}
