// Package checks resolves, caches, and executes the external commands backing
// the automated quality gates.
package checks

import (
	"context"
	"os/exec"
	"strings"
)

// Result holds the outcome of one external command. Field names match the
// cache document schema, which must stay readable across versions.
type Result struct {
	Cmd    string `json:"cmd"`
	OK     bool   `json:"ok"`
	Status int    `json:"status"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// CommandRunner abstracts command execution and availability probing so the
// executor can be tested without spawning processes.
type CommandRunner interface {
	Run(ctx context.Context, dir, command string) Result
	LookPath(name string) bool
}

// ExecRunner implements CommandRunner by shelling out through bash, matching
// how the gate commands are written (npm run shortcuts, pipes, flags).
type ExecRunner struct{}

func (ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (ExecRunner) Run(ctx context.Context, dir, command string) Result {
	cmd := exec.CommandContext(ctx, "bash", "-lc", command)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	status := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			// The command never started; report it as a failed check
			// rather than an error so the gate aggregation sees it.
			return Result{
				Cmd:    command,
				OK:     false,
				Status: -1,
				Stdout: strings.TrimSpace(stdout.String()),
				Stderr: err.Error(),
			}
		}
		status = exitErr.ExitCode()
	}
	return Result{
		Cmd:    command,
		OK:     status == 0,
		Status: status,
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}
}
