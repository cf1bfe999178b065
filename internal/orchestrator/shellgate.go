package orchestrator

import (
	"context"

	"github.com/agent-os/orchestrator/internal/procrunner"
)

// GateRunner is the subset of procrunner.Runner the cycle loop depends
// on, narrowed to an interface so tests can substitute a fake instead of
// spawning bash. procrunner.Runner{} satisfies it.
type GateRunner interface {
	Run(ctx context.Context, spec procrunner.Spec) (*procrunner.Result, error)
}

// runGate runs a verification gate command (taskGate/specGate) via
// `bash -c` in the repository working directory, using the shared
// subprocess runner so a wedged gate gets the same process-group kill
// discipline as an agent invocation. Gates inherit no timeout (§5): they
// are expected to self-terminate.
func runGate(ctx context.Context, runner GateRunner, command, workDir string) (*procrunner.Result, error) {
	return runner.Run(ctx, procrunner.Spec{
		Command: "bash",
		Args:    []string{"-c", command},
		Dir:     workDir,
	})
}
