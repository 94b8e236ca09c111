package checks

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rankerhq/agentic/internal/config"
	"github.com/rankerhq/agentic/internal/stack"
)

// Gate category names used in cache keys, log sections, and evaluation.
const (
	GateTests        = "tests"
	GateSecurity     = "security"
	GateTypeSpecific = "type-specific"
	GateOracle       = "oracle"
)

// DefaultTimeout bounds a single check command. Test suites and security
// scanners dominate run time; a hung child must not block the run forever.
const DefaultTimeout = 10 * time.Minute

// GateCheck is one resolved check with its execution result.
type GateCheck struct {
	Gate      string
	Stack     stack.Stack
	Title     string
	Result    Result
	FromCache bool
	Runnable  bool
}

// Executor runs the resolved gate checks for a task.
type Executor struct {
	runner  CommandRunner
	timeout time.Duration
	now     func() time.Time
}

// NewExecutor creates an Executor around the given command runner.
func NewExecutor(runner CommandRunner) *Executor {
	return &Executor{runner: runner, timeout: DefaultTimeout, now: time.Now}
}

// job is one check to resolve and possibly run.
type job struct {
	gate       string
	stk        stack.Stack
	title      string
	candidates []string
}

// Execute resolves and runs every check implied by the enabled gates, the
// detected stacks, and the task type. All cache-missed commands are launched
// concurrently and awaited jointly; results from gates are logically
// independent until evaluation. Each result is appended to the run log as
// its own section and the cache document is rewritten once at the end.
func (e *Executor) Execute(ctx context.Context, root, taskType string, gates config.Gates, cache *Cache, log *RunLog) []GateCheck {
	stacks := stack.Detect(root)

	var immediate []GateCheck
	var jobs []job

	for _, gc := range []struct {
		enabled bool
		gate    string
		label   string
		pick    func(stack.Commands) []string
	}{
		{gates.Tests, GateTests, "tests", func(c stack.Commands) []string { return c.Tests }},
		{gates.Security, GateSecurity, "security", func(c stack.Commands) []string { return c.Security }},
	} {
		if !gc.enabled {
			continue
		}
		if len(stacks) == 0 {
			r := Result{
				Cmd:    "stack-detection",
				Status: 1,
				Stderr: fmt.Sprintf("No supported stack detected for %s checks", gc.label),
			}
			check := GateCheck{Gate: gc.gate, Title: fmt.Sprintf("%s (stack-detection)", gc.label), Result: r}
			immediate = append(immediate, check)
			log.Section(check.Title, r)
			continue
		}
		for _, s := range stacks {
			jobs = append(jobs, job{
				gate:       gc.gate,
				stk:        s,
				title:      fmt.Sprintf("%s (%s)", gc.label, s),
				candidates: gc.pick(stack.CommandsFor(s)),
			})
		}
	}

	for _, s := range stacks {
		for _, check := range stack.TypeChecks(taskType, s) {
			jobs = append(jobs, job{
				gate:       GateTypeSpecific,
				stk:        s,
				title:      fmt.Sprintf("%s (%s)", check.Name, s),
				candidates: check.Candidates,
			})
		}
		for _, check := range stack.OracleChecks(s) {
			jobs = append(jobs, job{
				gate:       GateOracle,
				stk:        s,
				title:      fmt.Sprintf("%s (%s)", check.Name, s),
				candidates: check.Candidates,
			})
		}
	}

	parallel := make([]GateCheck, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			parallel[i] = e.runJob(gctx, root, j, cache)
			return nil
		})
	}
	_ = g.Wait()

	for _, check := range parallel {
		title := check.Title
		if check.FromCache {
			title += " [cache-hit]"
		}
		log.Section(title, check.Result)
	}

	// Cache write failures degrade to an uncached next run.
	_ = cache.Save()

	return append(immediate, parallel...)
}

// runJob resolves a usable command, consults the cache, and executes on miss.
func (e *Executor) runJob(ctx context.Context, root string, j job, cache *Cache) GateCheck {
	check := GateCheck{Gate: j.gate, Stack: j.stk, Title: j.title}

	cmd, ok := selectCandidate(e.runner, root, j.candidates)
	if !ok {
		check.Result = unavailableResult(j.candidates)
		return check
	}
	check.Runnable = true

	key := Key(j.gate, j.stk, cmd)
	fingerprint := Fingerprint(root, cmd)
	if cached, hit := cache.Lookup(key, fingerprint); hit {
		check.Result = cached
		check.FromCache = true
		return check
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	check.Result = e.runner.Run(cctx, root, cmd)
	cache.Store(key, fingerprint, check.Result, e.now())
	return check
}
