// Package ux renders the orchestrator's terminal output: timestamped cycle
// and phase headers, a ticking spinner while an agent or gate is running,
// and warning/success lines. All of it goes to the controlling terminal
// device via stderr, never stdout, so piping an orchestrate run's stdout
// captures only whatever the driven agents/gates themselves emit there.
// Output degrades to plain, spinner-free lines when stderr isn't a
// terminal (piped logs, CI).
package ux

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// ANSI color helpers.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// IsTerminal reports whether stderr is attached to a terminal.
// orchestrator.New uses this once at construction to decide whether the
// spinner may animate.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// CycleHeader prints a timestamped header for the start of one cycle.
func CycleHeader(cycle int, tasksRemaining int) {
	fmt.Fprintf(os.Stderr, "\n%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
	fmt.Fprintf(os.Stderr, "%s[%s]%s  %sCycle %d%s — %d task(s) remaining\n",
		Dim, timestamp(), Reset, Bold, cycle, Reset, tasksRemaining)
	fmt.Fprintf(os.Stderr, "%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
}

// Info prints a plain informational line.
func Info(msg string) {
	fmt.Fprintf(os.Stderr, "%s[%s]%s  %s\n", Dim, timestamp(), Reset, msg)
}

// Warn prints a warning line (self-heal applied, signal fallback used, etc).
func Warn(msg string) {
	fmt.Fprintf(os.Stderr, "%s[%s]%s  %s⚠ %s%s\n", Dim, timestamp(), Reset, Yellow, msg, Reset)
}

// Fail prints an abort line with its reason.
func Fail(reason string) {
	fmt.Fprintf(os.Stderr, "%s[%s]%s  %s✗ %s%s\n", Dim, timestamp(), Reset, Red, reason, Reset)
}

// RestartCycle prints a cycle-restart message (spec gate, demo, or spec
// audit sent the run back around).
func RestartCycle(reason string) {
	fmt.Fprintf(os.Stderr, "%s[%s]%s  %s↺ restarting cycle: %s%s\n", Dim, timestamp(), Reset, Yellow, reason, Reset)
}

// Success prints the final completion banner with total elapsed time.
func Success(cycles int, elapsed time.Duration) {
	m := int(elapsed.Minutes())
	s := int(elapsed.Seconds()) % 60
	fmt.Fprintf(os.Stderr, "\n%s[%s]%s  %s%s══ spec audit passed after %d cycle(s) (%dm %02ds) ══%s\n\n",
		Dim, timestamp(), Reset, Bold, Green, cycles, m, s, Reset)
}

// ToolUse prints an inline subprocess invocation line (gate command, agent
// CLI) truncated to a single terminal-friendly line.
func ToolUse(name, detail string) {
	summary := detail
	if len(summary) > 80 {
		summary = summary[:77] + "..."
	}
	fmt.Fprintf(os.Stderr, "  %s⚡ %s%s %s\n", Cyan, name, Reset, strings.TrimSpace(summary))
}
