// Package orchestrator implements the cycle state machine (§4.2): it
// drives do-task/audit-task/run-demo/audit-spec agent invocations and
// the task/spec gates against a single spec folder, enforcing spec
// immutability, plan-staleness, and bounded-retry guarantees along the
// way.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/agent-os/orchestrator/internal/agent"
	"github.com/agent-os/orchestrator/internal/cleanup"
	"github.com/agent-os/orchestrator/internal/config"
	"github.com/agent-os/orchestrator/internal/fingerprint"
	"github.com/agent-os/orchestrator/internal/lock"
	"github.com/agent-os/orchestrator/internal/obslog"
	"github.com/agent-os/orchestrator/internal/procrunner"
	"github.com/agent-os/orchestrator/internal/specfolder"
	"github.com/agent-os/orchestrator/internal/ux"
)

// maxGateRetries is MaxGateRetries from §4.2.2 step 3d: a constant, not
// a config knob, matching the spec's literal "3".
const maxGateRetries = 3

// Logger is the minimal sink the cycle loop writes progress and
// warnings to. *ux.Progress satisfies it; tests can pass a no-op.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nullLogger struct{}

func (nullLogger) Infof(string, ...any) {}
func (nullLogger) Warnf(string, ...any) {}

// Orchestrator runs the cycle loop for one spec folder.
type Orchestrator struct {
	Folder  specfolder.Folder
	Config  config.Config
	Invoker agent.Invoker
	Gate    GateRunner
	RepoDir string // working directory for gates and the git-amend self-heal paths
	Log     Logger
	Spinner *ux.Spinner // nil in tests; New wires a real one
}

// New wires an Orchestrator with a real Invoker, Gate runner, and spinner.
func New(folder specfolder.Folder, cfg config.Config, repoDir string) *Orchestrator {
	return &Orchestrator{
		Folder:  folder,
		Config:  cfg,
		Invoker: agent.NewInvoker(),
		Gate:    procrunner.Runner{},
		RepoDir: repoDir,
		Log:     nullLogger{},
		Spinner: ux.NewSpinner(!ux.IsTerminal()),
	}
}

// beginSpinner/endSpinner are no-ops when Spinner is unset (direct struct
// literal construction in tests).
func (o *Orchestrator) beginSpinner(label, model string) {
	if o.Spinner != nil {
		o.Spinner.Begin(label, model)
	}
}

func (o *Orchestrator) endSpinner(ok bool, annotation string) {
	if o.Spinner != nil {
		o.Spinner.End(ok, annotation)
	}
}

// cycleState is the in-memory tracking described in §3's CycleState.
type cycleState struct {
	cycle           int
	planFingerprint string
	staleCount      int
	hadTasks        bool
	prevTaskLabel   string
	taskAttempts    int
}

// Run executes the cycle loop to completion: success (nil) once
// audit-spec reports pass, or one of the sentinel errors in errors.go on
// any stop condition.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.Log == nil {
		o.Log = nullLogger{}
	}
	if err := o.Folder.Validate(); err != nil {
		return err
	}

	l, err := lock.Acquire(o.Folder.LockPath())
	if err != nil {
		if errors.Is(err, lock.ErrContention) {
			return fmt.Errorf("%w: %s", ErrLockContention, o.Folder.Root)
		}
		return err
	}

	session := cleanup.New()
	session.RegisterTransientFile(o.Folder.LockPath())
	session.RegisterTransientFile(o.Folder.PidPath())
	session.RegisterTransientFile(o.Folder.StatusPath())
	defer session.Close()
	defer l.Close()

	if err := o.Folder.WritePid(os.Getpid()); err != nil {
		return err
	}

	specFingerprint0, err := fingerprint.Of(o.Folder.SpecPath())
	if err != nil {
		return err
	}
	specBytes, err := os.ReadFile(o.Folder.SpecPath())
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.Folder.SpecBackupPath(), specBytes, 0644); err != nil {
		return err
	}
	session.RegisterTransientFile(o.Folder.SpecBackupPath())

	var st cycleState

	for st.cycle = 1; st.cycle <= o.Config.MaxCycles; st.cycle++ {
		result, err := o.runCycle(ctx, &st, specFingerprint0)
		if err != nil {
			obslog.Abort(err.Error())
			return err
		}
		if result == cycleDone {
			o.Log.Infof("spec audit passed after %d cycle(s)", st.cycle)
			return nil
		}
		// cycleRestart: fall through to the next iteration.
	}
	err = fmt.Errorf("%w: %d cycles", ErrMaxCycles, o.Config.MaxCycles)
	obslog.Abort(err.Error())
	return err
}

type cycleOutcome int

const (
	cycleRestart cycleOutcome = iota
	cycleDone
)

func (o *Orchestrator) runCycle(ctx context.Context, st *cycleState, specFingerprint0 string) (cycleOutcome, error) {
	planFP, err := fingerprint.Of(o.Folder.PlanPath())
	if err != nil {
		return cycleRestart, err
	}
	if st.hadTasks && planFP == st.planFingerprint {
		st.staleCount++
	} else {
		st.staleCount = 0
	}
	st.planFingerprint = planFP
	if st.staleCount >= o.Config.StaleLimit {
		return cycleRestart, fmt.Errorf("%w: see %s and %s", ErrStale, o.Folder.SignpostsPath(), o.Folder.AuditLogPath())
	}

	plan, err := specfolder.LoadTaskPlan(o.Folder.PlanPath())
	if err != nil {
		return cycleRestart, err
	}
	if plan.ActionableCount() > 0 {
		st.hadTasks = true
	}
	o.Log.Infof("cycle %d — %d tasks remaining", st.cycle, plan.ActionableCount())
	obslog.CycleStart(st.cycle, plan.ActionableCount())

	// Phase 1: task loop.
	for {
		plan, err = specfolder.LoadTaskPlan(o.Folder.PlanPath())
		if err != nil {
			return cycleRestart, err
		}
		if plan.ActionableCount() == 0 {
			break
		}
		nextLabel := plan.NextLabel()
		if nextLabel == "" {
			return cycleRestart, ErrNoActionableTask
		}
		if nextLabel == st.prevTaskLabel {
			st.taskAttempts++
		} else {
			st.taskAttempts = 1
			st.prevTaskLabel = nextLabel
		}
		if st.taskAttempts > o.Config.MaxTaskRetries {
			return cycleRestart, fmt.Errorf("%w: %s (%d attempts)", ErrTaskStuck, nextLabel, st.taskAttempts)
		}

		action, err := o.invokeAndDispatch(ctx, agent.RoleDoTask, o.Config.DoCLI, o.Config.DoModel, "", specFingerprint0)
		if err != nil {
			return cycleRestart, err
		}
		if action == agent.ActionBreakTaskLoop {
			break
		}

		if err := o.runTaskGateWithRetries(ctx, specFingerprint0); err != nil {
			return cycleRestart, err
		}

		sig, err := o.invokeAuditTask(ctx, specFingerprint0)
		if err != nil {
			return cycleRestart, err
		}
		if sig == agent.SignalPass {
			healed, err := selfHealIfNeeded(o.Folder, nextLabel, o.RepoDir)
			if err != nil {
				return cycleRestart, err
			}
			if healed {
				o.Log.Warnf("checkbox self-heal applied for %s", nextLabel)
			}
		}
	}

	// Phase 2: spec gate.
	o.beginSpinner("spec gate: "+o.Config.SpecGate, "")
	specGateResult, err := runGate(ctx, o.Gate, o.Config.SpecGate, o.RepoDir)
	o.endSpinner(err == nil && specGateResult.ExitCode == 0, gateAnnotation(specGateResult, err))
	if err != nil {
		return cycleRestart, err
	}
	if specGateResult.ExitCode != 0 {
		if _, err := o.invokeAndDispatch(ctx, agent.RoleDoTask, o.Config.DoCLI, o.Config.DoModel, string(specGateResult.Output), specFingerprint0); err != nil {
			return cycleRestart, err
		}
		return cycleRestart, nil // restart the cycle per §4.2.2 step 4
	}

	// Phase 3: demo.
	demoOutcome, err := o.invokeRunDemo(ctx, specFingerprint0)
	if err != nil {
		return cycleRestart, err
	}
	if demoOutcome == agent.ActionRestartCycle {
		return cycleRestart, nil
	}

	// Phase 4: spec audit.
	before, _ := os.Stat(o.Folder.AuditPath())
	if _, err := o.invokeAndDispatch(ctx, agent.RoleAuditSpec, o.Config.SpecCLI, o.Config.SpecModel, "", specFingerprint0); err != nil {
		return cycleRestart, err
	}
	after, statErr := os.Stat(o.Folder.AuditPath())
	if statErr != nil || (before != nil && !after.ModTime().After(before.ModTime())) {
		return cycleRestart, fmt.Errorf("%w: %s", ErrAuditStaleOrMissing, o.Folder.AuditPath())
	}
	report, err := specfolder.ReadAuditReport(o.Folder.AuditPath())
	if err != nil {
		return cycleRestart, err
	}
	switch report.Status {
	case "pass":
		return cycleDone, nil
	case "fail":
		return cycleRestart, nil
	default:
		return cycleRestart, fmt.Errorf("%w: %q", ErrUnknownAuditStatus, report.Status)
	}
}

// invokeAndDispatch invokes role and applies the dispatch matrix,
// returning the decided Action (so callers that care, like the task
// loop's do-task call, can act on ActionBreakTaskLoop) and an error only
// for ActionAbort. Used for do-task and audit-spec, where the caller
// doesn't need the raw signal back.
func (o *Orchestrator) invokeAndDispatch(ctx context.Context, role agent.Role, cli, model, extraContext, specFingerprint0 string) (agent.Action, error) {
	sig, decision, err := o.invoke(ctx, role, cli, model, extraContext, specFingerprint0)
	if err != nil {
		return agent.ActionAbort, err
	}
	if decision.Warn != "" {
		o.Log.Warnf("%s", decision.Warn)
	}
	if decision.Action == agent.ActionAbort {
		return decision.Action, wrapAbort(role, sig, decision)
	}
	return decision.Action, nil
}

func (o *Orchestrator) invokeAuditTask(ctx context.Context, specFingerprint0 string) (agent.Signal, error) {
	sig, decision, err := o.invoke(ctx, agent.RoleAuditTask, o.Config.AuditCLI, o.Config.AuditModel, "", specFingerprint0)
	if err != nil {
		return sig, err
	}
	if decision.Warn != "" {
		o.Log.Warnf("%s", decision.Warn)
	}
	if decision.Action == agent.ActionAbort {
		return sig, wrapAbort(agent.RoleAuditTask, sig, decision)
	}
	return sig, nil
}

func (o *Orchestrator) invokeRunDemo(ctx context.Context, specFingerprint0 string) (agent.Action, error) {
	sig, decision, err := o.invoke(ctx, agent.RoleRunDemo, o.Config.DemoCLI, o.Config.DemoModel, "", specFingerprint0)
	if err != nil {
		return agent.ActionAbort, err
	}
	if decision.Warn != "" {
		o.Log.Warnf("%s", decision.Warn)
	}
	if decision.Action == agent.ActionAbort {
		return agent.ActionAbort, wrapAbort(agent.RoleRunDemo, sig, decision)
	}
	return decision.Action, nil
}

// invoke runs one agent turn and applies the immutability guard,
// returning the extracted signal and the dispatch decision for it.
// audit-spec's Decision only ever aborts on an error signal; its actual
// pass/fail outcome comes from audit.md's status header, checked by the
// caller after invoke returns.
func (o *Orchestrator) invoke(ctx context.Context, role agent.Role, cli, model, extraContext, specFingerprint0 string) (agent.Signal, agent.Decision, error) {
	req := agent.Request{
		Role:         role,
		CLI:          cli,
		Model:        model,
		CommandsDir:  o.Config.CommandsDir,
		SpecFolder:   o.Folder.Root,
		ExtraContext: extraContext,
		Timeout:      o.Config.AgentTimeout,
	}
	obslog.AgentInvoke(role.String(), cli, model)
	o.beginSpinner(role.String(), model)
	outcome, err := o.Invoker.Invoke(ctx, req, o.Folder.StatusPath())
	if err != nil {
		o.endSpinner(false, err.Error())
		return agent.SignalEmpty, agent.Decision{}, err
	}

	mutated, guardErr := checkImmutability(o.Folder.SpecPath(), o.Folder.SpecBackupPath(), specFingerprint0, o.RepoDir)
	if guardErr != nil {
		o.endSpinner(false, guardErr.Error())
		return agent.SignalEmpty, agent.Decision{}, guardErr
	}
	if mutated {
		o.Log.Warnf("spec.md was mutated by %s; reverted and amended", role)
	}

	if outcome.TimedOut {
		o.endSpinner(false, "timed out")
		return agent.SignalError, agent.Decision{Action: agent.ActionAbort, Reason: role.String() + " timed out"}, nil
	}

	word := specfolder.ReadSignal(o.Folder.StatusPath())
	viaFallback := false
	if word == "" && o.Config.AllowStdoutSignalFallback {
		word = specfolder.ExtractSignalFromOutput(outcome.Output)
		viaFallback = word != ""
	}
	sig := agent.ParseSignal(word)
	obslog.SignalExtracted(role.String(), sig.String(), viaFallback)
	decision := agent.Interpret(role, sig)
	o.endSpinner(decision.Action != agent.ActionAbort, sig.String())
	return sig, decision, nil
}

func (o *Orchestrator) runTaskGateWithRetries(ctx context.Context, specFingerprint0 string) error {
	var lastOutput []byte
	for attempt := 0; ; attempt++ {
		o.beginSpinner("task gate: "+o.Config.TaskGate, "")
		result, err := runGate(ctx, o.Gate, o.Config.TaskGate, o.RepoDir)
		o.endSpinner(err == nil && result.ExitCode == 0, gateAnnotation(result, err))
		if err != nil {
			return err
		}
		obslog.GateRun(o.Config.TaskGate, attempt+1, result.ExitCode)
		lastOutput = result.Output
		if result.ExitCode == 0 {
			return nil
		}
		if attempt >= maxGateRetries {
			return fmt.Errorf("%w: %s", ErrGateFailure, truncate(lastOutput))
		}
		if _, err := o.invokeAndDispatch(ctx, agent.RoleDoTask, o.Config.DoCLI, o.Config.DoModel, string(lastOutput), specFingerprint0); err != nil {
			return err
		}
	}
}

func selfHealIfNeeded(folder specfolder.Folder, completedLabel, repoDir string) (bool, error) {
	plan, err := specfolder.LoadTaskPlan(folder.PlanPath())
	if err != nil {
		return false, err
	}
	if plan.NextLabel() != completedLabel {
		return false, nil
	}
	return selfHealCheckbox(folder.PlanPath(), completedLabel, repoDir)
}

func wrapAbort(role agent.Role, sig agent.Signal, d agent.Decision) error {
	base := ErrAgentError
	if sig == agent.SignalBlocked {
		base = ErrAgentBlocked
	}
	return fmt.Errorf("%w: %s (%s): %s", base, role, sig, d.Reason)
}

func gateAnnotation(result *procrunner.Result, err error) string {
	if err != nil {
		return err.Error()
	}
	if result == nil {
		return ""
	}
	return fmt.Sprintf("exit %d", result.ExitCode)
}

func truncate(b []byte) string {
	const max = 2000
	if len(b) <= max {
		return string(b)
	}
	return "..." + string(b[len(b)-max:])
}
