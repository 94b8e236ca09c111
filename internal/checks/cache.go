package checks

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rankerhq/agentic/internal/stack"
)

// CacheEntry records the last execution of a check command.
type CacheEntry struct {
	Fingerprint string  `json:"fingerprint"`
	TS          string  `json:"ts"`
	Result      *Result `json:"result"`
}

// Cache is the per-project check result cache, read fully at run start and
// written fully at run end. Entries are stored for every live execution, but
// only successful entries are ever served back: a failed check is always
// retried.
type Cache struct {
	path    string
	mu      sync.Mutex
	entries map[string]CacheEntry
}

// LoadCache reads the cache document at path. A missing or corrupt document
// yields an empty cache.
func LoadCache(path string) *Cache {
	c := &Cache{path: path, entries: make(map[string]CacheEntry)}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]CacheEntry)
	}
	return c
}

// Key builds the cache key for a gate's selected command on a stack.
func Key(gate string, s stack.Stack, cmd string) string {
	return fmt.Sprintf("%s:%s:%s", gate, s, cmd)
}

// Lookup returns the stored result when the fingerprint matches and the
// stored result was successful.
func (c *Cache) Lookup(key, fingerprint string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || entry.Fingerprint != fingerprint || entry.Result == nil || !entry.Result.OK {
		return Result{}, false
	}
	return *entry.Result, true
}

// Store records a fresh execution under key, success or failure.
func (c *Cache) Store(key, fingerprint string, r Result, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := r
	c.entries[key] = CacheEntry{
		Fingerprint: fingerprint,
		TS:          now.UTC().Format(time.RFC3339),
		Result:      &stored,
	}
}

// Save rewrites the cache document.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.WriteFile(c.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Fingerprint content-addresses a command against the current state of the
// project's dependency manifests: the command string plus mtime and size of
// every manifest file present in root.
func Fingerprint(root, cmd string) string {
	chunks := []string{cmd}
	for _, name := range stack.ManifestFiles {
		path := filepath.Join(root, name)
		st, err := os.Stat(path)
		if err != nil {
			continue
		}
		chunks = append(chunks, fmt.Sprintf("%s:%d:%d", path, st.ModTime().UnixMilli(), st.Size()))
	}
	sum := sha1.Sum([]byte(strings.Join(chunks, "|")))
	return hex.EncodeToString(sum[:])
}
