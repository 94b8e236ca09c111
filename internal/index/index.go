// Package index builds the project context index: a file inventory agents
// can load instead of walking the tree themselves.
package index

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Index is the generated project inventory.
type Index struct {
	GeneratedAt   string     `json:"generated_at"`
	Root          string     `json:"root"`
	FileCount     int        `json:"file_count"`
	TopExtensions []ExtCount `json:"top_extensions"`
	KeyFiles      []string   `json:"key_files"`
}

// ExtCount is one extension histogram bucket.
type ExtCount struct {
	Ext   string `json:"ext"`
	Count int    `json:"count"`
}

// ignoredPrefixes are tree prefixes excluded from the walk: VCS internals,
// vendored dependencies, and the tool's own churning artifacts.
var ignoredPrefixes = []string{
	".git",
	"node_modules",
	filepath.Join(".ultra-workflow", "runs"),
	filepath.Join(".ultra-workflow", "cache"),
}

var keyFilePattern = regexp.MustCompile(`(?i)readme|package\.json|pyproject|go\.mod|cargo\.toml|docker|compose|config|schema`)

const (
	maxTopExtensions = 20
	maxKeyFiles      = 80
)

// Build walks the project tree and assembles the index.
func Build(root string, now time.Time) (Index, error) {
	var files []string
	exts := map[string]int{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			for _, prefix := range ignoredPrefixes {
				if rel == prefix {
					return filepath.SkipDir
				}
			}
			return nil
		}
		files = append(files, rel)
		ext := filepath.Ext(d.Name())
		if ext == "" {
			ext = "(noext)"
		}
		exts[ext]++
		return nil
	})
	if err != nil {
		return Index{}, fmt.Errorf("walk project: %w", err)
	}

	top := make([]ExtCount, 0, len(exts))
	for ext, count := range exts {
		top = append(top, ExtCount{Ext: ext, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Ext < top[j].Ext
	})
	if len(top) > maxTopExtensions {
		top = top[:maxTopExtensions]
	}

	var keyFiles []string
	for _, f := range files {
		if keyFilePattern.MatchString(filepath.Base(f)) {
			keyFiles = append(keyFiles, f)
			if len(keyFiles) == maxKeyFiles {
				break
			}
		}
	}

	return Index{
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		Root:          root,
		FileCount:     len(files),
		TopExtensions: top,
		KeyFiles:      keyFiles,
	}, nil
}

// WriteTo writes index.json and index.md under contextDir.
func (idx Index) WriteTo(contextDir string) error {
	if err := os.MkdirAll(contextDir, 0o755); err != nil {
		return fmt.Errorf("create context directory: %w", err)
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(contextDir, "index.json"), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write index.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(contextDir, "index.md"), []byte(idx.Markdown()), 0o644); err != nil {
		return fmt.Errorf("write index.md: %w", err)
	}
	return nil
}

// Markdown renders the human-readable index document.
func (idx Index) Markdown() string {
	var b strings.Builder
	b.WriteString("# Project Context Index\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", idx.GeneratedAt)
	fmt.Fprintf(&b, "- File count: %d\n\n", idx.FileCount)
	b.WriteString("## Top Extensions\n\n")
	for _, item := range idx.TopExtensions {
		fmt.Fprintf(&b, "- %s: %d\n", item.Ext, item.Count)
	}
	b.WriteString("\n## Key Files\n\n")
	for _, f := range idx.KeyFiles {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return b.String()
}
