package task

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rankerhq/agentic/internal/workspace"
)

// StatusOf reads just the status of a task file, or "" when unreadable.
func StatusOf(path string) string {
	t, err := Load(path)
	if err != nil {
		return ""
	}
	return t.Status()
}

// SelectAuto picks the task to run when none is specified: the first todo
// task whose name is not a stock template, else the first todo task, in
// lexicographic order. This tie-break is preserved for compatibility with
// existing workspaces.
func SelectAuto(tasksDir string) (string, error) {
	if _, err := os.Stat(tasksDir); err != nil {
		return "", fmt.Errorf("missing workflow tasks directory: %s", tasksDir)
	}

	var todo []string
	for _, file := range workspace.CollectTaskFiles(tasksDir) {
		if StatusOf(file) == StatusTodo {
			todo = append(todo, file)
		}
	}
	if len(todo) == 0 {
		return "", fmt.Errorf("no task with status: todo found")
	}

	var custom []string
	for _, file := range todo {
		if !workspace.IsTemplate(filepath.Base(file)) {
			custom = append(custom, file)
		}
	}
	pool := todo
	if len(custom) > 0 {
		pool = custom
	}
	sort.Strings(pool)
	return pool[0], nil
}

// Resolve turns a task argument into an absolute, existing file path.
func Resolve(taskArg, root string) (string, error) {
	candidate := taskArg
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, taskArg)
	}
	if _, err := os.Stat(candidate); err != nil {
		return "", fmt.Errorf("task file not found: %s", candidate)
	}
	return candidate, nil
}
