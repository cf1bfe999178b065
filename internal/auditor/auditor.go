package auditor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/agent-os/orchestrator/internal/obslog"
	"github.com/agent-os/orchestrator/internal/procrunner"
)

// Status classifies the outcome of auditing one standard.
type Status int

const (
	StatusPass Status = iota
	StatusFail
	StatusTimeout
	StatusSkip
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusSkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Config holds every tunable for one auditor run (spec §6.5).
type Config struct {
	CLI          string
	Model        string
	Concurrency  int
	Timeout      time.Duration
	StandardsDir string
	IndexPath    string
	OutputDir    string
	Standards    []string // allow-list of slugs; empty means all
	DryRun       bool
}

// DefaultConfig returns the documented defaults (concurrency 3, 900s
// per-agent timeout); CLI defaults to "claude" like the orchestrator.
func DefaultConfig() Config {
	return Config{
		CLI:         "claude",
		Concurrency: 3,
		Timeout:     900 * time.Second,
	}
}

// Result is one standard's outcome.
type Result struct {
	Entry    Entry
	Status   Status
	ExitCode int
	Elapsed  time.Duration
}

// Report is the aggregate of a full run.
type Report struct {
	Results []Result
	Elapsed time.Duration
}

func (r *Report) counts() map[Status]int {
	c := make(map[Status]int)
	for _, res := range r.Results {
		c[res.Status]++
	}
	return c
}

// Runner is the subset of procrunner.Runner the auditor depends on,
// narrowed to an interface so tests can fake subprocess invocations
// without spawning a real agent CLI.
type Runner interface {
	Run(ctx context.Context, spec procrunner.Spec) (*procrunner.Result, error)
}

// Run parses the standards index, fans out one agent invocation per
// selected standard with bounded concurrency, and returns the
// aggregated report. Callers must check cfg.DryRun themselves and call
// DryRunPlan instead of Run in that case (spec §4.3.3: a dry run prints
// the plan and exits without invoking anything — Run always invokes).
func Run(ctx context.Context, runner Runner, cfg Config) (*Report, error) {
	idx, err := LoadIndex(cfg.IndexPath)
	if err != nil {
		return nil, err
	}
	entries := idx.Filter(cfg.Standards)

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("auditor: creating output dir: %w", err)
		}
	}

	start := time.Now()

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	var (
		mu      sync.Mutex
		results []Result
		wg      sync.WaitGroup
	)

	for _, e := range entries {
		mdPath := filepath.Join(cfg.StandardsDir, e.Category, e.Slug+".md")
		if _, statErr := os.Stat(mdPath); statErr != nil {
			mu.Lock()
			results = append(results, Result{Entry: e, Status: StatusSkip})
			mu.Unlock()
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			// Context already cancelled (SIGINT): stop scheduling new
			// workers, but let whatever is already running finish its
			// own cancellation via the shared ctx.
			break
		}

		wg.Add(1)
		go func(e Entry, mdPath string) {
			defer wg.Done()
			defer sem.Release(1)
			res := runOne(ctx, runner, cfg, e, mdPath)
			obslog.AuditorWorker(e.Category, e.Slug, res.Status.String())
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(e, mdPath)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Entry.Category != results[j].Entry.Category {
			return results[i].Entry.Category < results[j].Entry.Category
		}
		return results[i].Entry.Slug < results[j].Entry.Slug
	})

	return &Report{Results: results, Elapsed: time.Since(start)}, nil
}

// runOne invokes the agent for one standard and classifies the outcome
// per spec §4.3.2 step 4: a non-empty report file means PASS, a timeout
// means TIMEOUT, anything else is FAIL carrying the exit code.
func runOne(ctx context.Context, runner Runner, cfg Config, e Entry, mdPath string) Result {
	reportPath := filepath.Join(cfg.OutputDir, e.Slug+".md")
	_ = os.Remove(reportPath) // a stale report from a prior run must not look like a fresh PASS

	standardMD, err := os.ReadFile(mdPath)
	if err != nil {
		return Result{Entry: e, Status: StatusFail}
	}
	prompt := buildPrompt(e, string(standardMD), reportPath)

	var args []string
	if cfg.Model != "" {
		args = append(args, "--model", cfg.Model)
	}

	start := time.Now()
	result, err := runner.Run(ctx, procrunner.Spec{
		Command: cfg.CLI,
		Args:    args,
		Dir:     cfg.StandardsDir,
		Env:     os.Environ(),
		Stdin:   []byte(prompt),
		Timeout: cfg.Timeout,
	})
	elapsed := time.Since(start)

	if result != nil && result.TimedOut {
		return Result{Entry: e, Status: StatusTimeout, Elapsed: elapsed}
	}
	if err != nil {
		return Result{Entry: e, Status: StatusFail, Elapsed: elapsed}
	}

	if info, statErr := os.Stat(reportPath); statErr == nil && info.Size() > 0 {
		return Result{Entry: e, Status: StatusPass, Elapsed: elapsed}
	}
	return Result{Entry: e, Status: StatusFail, ExitCode: result.ExitCode, Elapsed: elapsed}
}

// buildPrompt assembles the per-standard prompt: identifying metadata,
// the standard's markdown, and the instruction to write a scored report
// to reportPath (spec §4.3.2 step 3).
func buildPrompt(e Entry, standardMD, reportPath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Standard: %s/%s\n", e.Category, e.Slug)
	if e.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", e.Description)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(standardMD)
	b.WriteString("\n\n---\n\n")
	b.WriteString(reportTemplate)
	fmt.Fprintf(&b, "\nWrite your completed report to %s using your file-writing tool. An empty or missing file is treated as a failed audit.\n", reportPath)
	return b.String()
}

const reportTemplate = `Audit this codebase against the standard above. Produce a report with:

- a one-line verdict (PASS or FAIL) and a numeric score out of 10
- the specific files/lines that violate the standard, if any
- a short justification for the score
`
