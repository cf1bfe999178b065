// Command orchestrate drives the cycle state machine for one spec
// folder: task loop, task gate, spec gate, run-demo, spec audit, until
// the spec audit passes or a terminal error condition is hit (§4.2).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/agent-os/orchestrator/internal/config"
	"github.com/agent-os/orchestrator/internal/obslog"
	"github.com/agent-os/orchestrator/internal/orchestrator"
	"github.com/agent-os/orchestrator/internal/specfolder"
	"github.com/agent-os/orchestrator/internal/ux"
)

func main() {
	app := &cli.Command{
		Name:      "orchestrate",
		Usage:     "Drive the do-task/audit-task/run-demo/audit-spec cycle for a spec folder",
		ArgsUsage: "<specFolder>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a KEY=value config file"},
			&cli.BoolFlag{Name: "debug", Usage: "emit structured debug logs to stderr"},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(exitCodeFor(err))
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	specFolder := cmd.Args().First()
	if specFolder == "" {
		return fmt.Errorf("orchestrate: a spec folder path is required")
	}

	obslog.Init(obslog.Enabled(cmd.Bool("debug")))

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("orchestrate: loading config: %w", err)
	}
	if err := config.Validate(&cfg); err != nil {
		return err
	}

	repoDir, err := os.Getwd()
	if err != nil {
		return err
	}

	folder := specfolder.New(specFolder)
	orc := orchestrator.New(folder, cfg, repoDir)
	orc.Log = ux.Progress{}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := orc.Run(ctx); err != nil {
		ux.Fail(err.Error())
		return err
	}
	return nil
}

// exitCodeFor maps the orchestrator's typed error taxonomy (§7) onto
// process exit codes so scripts driving `orchestrate` can branch on the
// failure kind without string-matching stderr.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrLockContention):
		return 10
	case errors.Is(err, orchestrator.ErrAgentBlocked):
		return 11
	case errors.Is(err, orchestrator.ErrAgentError):
		return 12
	case errors.Is(err, orchestrator.ErrGateFailure):
		return 13
	case errors.Is(err, orchestrator.ErrStale):
		return 14
	case errors.Is(err, orchestrator.ErrTaskStuck):
		return 15
	case errors.Is(err, orchestrator.ErrAuditStaleOrMissing):
		return 16
	case errors.Is(err, orchestrator.ErrUnknownAuditStatus):
		return 17
	case errors.Is(err, orchestrator.ErrMaxCycles):
		return 18
	default:
		return 1
	}
}
