package checks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// noCompatibleCommand is the terminal result message when no candidate for a
// check is usable on this system. The check fails rather than silently
// skipping its gate.
const noCompatibleCommand = "No compatible command available"

// unavailableResult reports that none of the candidates could run.
func unavailableResult(candidates []string) Result {
	return Result{
		Cmd:    strings.Join(candidates, " || "),
		OK:     false,
		Status: -1,
		Stderr: noCompatibleCommand,
	}
}

// selectCandidate walks candidates in order and commits to the first whose
// leading executable resolves on this system and whose target run-script, if
// any, is actually configured in the project.
func selectCandidate(runner CommandRunner, root string, candidates []string) (string, bool) {
	for _, cmd := range candidates {
		if !runner.LookPath(leadingExecutable(cmd)) {
			continue
		}
		if !candidateConfigured(root, cmd) {
			continue
		}
		return cmd, true
	}
	return "", false
}

func leadingExecutable(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var npmRunPattern = regexp.MustCompile(`^npm\s+run(?:\s+-s)?\s+([a-zA-Z0-9:_-]+)`)

// candidateConfigured rejects npm-run shortcuts whose script is absent from
// package.json. Other commands are assumed configured; the command itself
// will report failure if not.
func candidateConfigured(root, cmd string) bool {
	m := npmRunPattern.FindStringSubmatch(cmd)
	if m == nil {
		return true
	}
	return hasNpmScript(root, m[1])
}

func hasNpmScript(root, script string) bool {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return false
	}
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false
	}
	_, ok := pkg.Scripts[script]
	return ok
}
