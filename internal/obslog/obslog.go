// Package obslog is the opt-in structured debug logger shared by
// cmd/orchestrate and cmd/audit-standards. It is silent unless enabled,
// and even then only ever writes to stderr — it never touches the
// spec-folder files the core treats as opaque.
package obslog

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process-wide debug logger. It discards everything until
// Init is called with debug enabled.
var Logger = zerolog.New(zerolog.Nop()).With().Logger()

// Init wires Logger to stderr at debug level when enabled is true (set
// from --debug or the ORC_DEBUG=1 environment variable), otherwise
// leaves it wired to a no-op writer so every call site stays cheap.
func Init(enabled bool) {
	if !enabled {
		Logger = zerolog.New(zerolog.Nop()).With().Logger()
		return
	}
	Logger = zerolog.New(os.Stderr).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// Enabled reports whether --debug or ORC_DEBUG=1 was set, per the
// convention both binaries share for turning this logger on.
func Enabled(debugFlag bool) bool {
	if debugFlag {
		return true
	}
	v := os.Getenv("ORC_DEBUG")
	return v == "1" || v == "true"
}

// CycleStart logs the beginning of one orchestrator cycle.
func CycleStart(cycle int, tasksRemaining int) {
	Logger.Debug().Int("cycle", cycle).Int("tasks_remaining", tasksRemaining).Msg("cycle start")
}

// AgentInvoke logs one agent dispatch before it runs.
func AgentInvoke(role, cli, model string) {
	Logger.Debug().Str("role", role).Str("cli", cli).Str("model", model).Msg("agent invoke")
}

// SignalExtracted logs the signal read back from an agent invocation.
func SignalExtracted(role, signal string, viaFallback bool) {
	Logger.Debug().Str("role", role).Str("signal", signal).Bool("stdout_fallback", viaFallback).Msg("signal extracted")
}

// GateRun logs a verification gate invocation and its outcome.
func GateRun(command string, attempt, exitCode int) {
	Logger.Debug().Str("command", command).Int("attempt", attempt).Int("exit_code", exitCode).Msg("gate run")
}

// Abort logs the terminal error that ended a run.
func Abort(reason string) {
	Logger.Debug().Str("reason", reason).Msg("abort")
}

// AuditorWorker logs one standards-auditor worker's outcome.
func AuditorWorker(category, slug, status string) {
	Logger.Debug().Str("category", category).Str("slug", slug).Str("status", status).Msg("auditor worker")
}
