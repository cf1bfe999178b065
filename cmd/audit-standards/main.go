// Command audit-standards fans out one agent invocation per standard in
// a two-level YAML index with bounded concurrency, classifying each as
// PASS/FAIL/TIMEOUT/SKIP and printing an aggregate report (§4.3).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/agent-os/orchestrator/internal/auditor"
	"github.com/agent-os/orchestrator/internal/config"
	"github.com/agent-os/orchestrator/internal/obslog"
	"github.com/agent-os/orchestrator/internal/procrunner"
	"github.com/agent-os/orchestrator/internal/ux"
)

func main() {
	app := &cli.Command{
		Name:      "audit-standards",
		Usage:     "Audit a codebase against a standards index with bounded-concurrency agent fan-out",
		ArgsUsage: "<standardsDir>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "concurrency", Value: 3, Usage: "max concurrent agent invocations"},
			&cli.StringFlag{Name: "model", Usage: "--model argument passed to each agent invocation"},
			&cli.IntFlag{Name: "timeout", Value: 900, Usage: "per-standard timeout in seconds"},
			&cli.StringFlag{Name: "output", Value: "audit-reports", Usage: "directory to write per-standard reports to"},
			&cli.StringFlag{Name: "standards", Usage: "comma-separated allow-list of standard slugs"},
			&cli.StringFlag{Name: "config", Usage: "path to a KEY=value config file"},
			&cli.BoolFlag{Name: "dry-run", Usage: "print the run plan and exit without invoking anything"},
			&cli.BoolFlag{Name: "debug", Usage: "emit structured debug logs to stderr"},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	standardsDir := cmd.Args().First()
	if standardsDir == "" {
		return fmt.Errorf("audit-standards: a standards directory is required")
	}

	obslog.Init(obslog.Enabled(cmd.Bool("debug")))

	// The auditor doesn't share the orchestrator's full Config shape (most
	// of its keys — gates, per-role models, stale/retry limits — don't
	// apply to a single-shot fan-out), so it borrows just the "cli" field
	// out of the same KEY=value file format rather than its own schema.
	fileCfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("audit-standards: loading config: %w", err)
	}

	cfg := auditor.Config{
		CLI:          fileCfg.CLI,
		Model:        cmd.String("model"),
		Concurrency:  int(cmd.Int("concurrency")),
		Timeout:      time.Duration(cmd.Int("timeout")) * time.Second,
		StandardsDir: standardsDir,
		IndexPath:    standardsDir + "/index.yaml",
		OutputDir:    cmd.String("output"),
		DryRun:       cmd.Bool("dry-run"),
	}
	if s := cmd.String("standards"); s != "" {
		cfg.Standards = strings.Split(s, ",")
	}

	if cfg.DryRun {
		idx, err := auditor.LoadIndex(cfg.IndexPath)
		if err != nil {
			return err
		}
		auditor.DryRunPlan(idx, cfg)
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	report, err := auditor.Run(ctx, procrunner.Runner{}, cfg)
	if err != nil {
		return err
	}
	report.PrintTable()
	return nil
}
