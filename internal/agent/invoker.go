package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agent-os/orchestrator/internal/procrunner"
	"github.com/agent-os/orchestrator/internal/specfolder"
)

// ErrCommandFileMissing is returned when <commandsDir>/<role>.md is absent.
var ErrCommandFileMissing = errors.New("agent: command markdown file missing")

// Flavor distinguishes the two supported agent CLI shapes: one that
// writes its last message to a caller-provided file, one that writes to
// stdout. The core never needs to know more about the binary than this.
type Flavor int

const (
	FlavorStdout Flavor = iota
	FlavorCaptureFile
)

// DetectFlavor classifies a configured CLI command string. Matching is a
// deliberately dumb substring check, same as the contract it replaces:
// any CLI whose command contains "codex" writes to a capture file,
// everything else is assumed to write to stdout.
func DetectFlavor(cliCommand string) Flavor {
	if strings.Contains(cliCommand, "codex") {
		return FlavorCaptureFile
	}
	return FlavorStdout
}

// Request describes one agent invocation.
type Request struct {
	Role         Role
	CLI          string // configured CLI command, e.g. "claude" or "codex"
	Model        string // "" means no --model flag
	CommandsDir  string
	SpecFolder   string
	ExtraContext string // gate output or other context appended to the prompt
	Timeout      time.Duration
}

// Runner is the subset of procrunner.Runner the invoker depends on, kept
// as an interface so orchestrator tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, spec procrunner.Spec) (*procrunner.Result, error)
}

// Invoker runs agent invocations per the contract in §4.2.3.
type Invoker struct {
	Runner Runner
}

// NewInvoker wires a default procrunner.Runner.
func NewInvoker() Invoker {
	return Invoker{Runner: procrunner.Runner{}}
}

// Outcome carries an invocation's observable results: the raw output
// bytes (for the stdout-grep signal fallback and for error tails) and
// whether the subprocess layer reported a timeout.
type Outcome struct {
	Output  []byte
	TimedOut bool
}

// Invoke executes one agent turn: clears the status file, reads the
// command markdown, builds the prompt and CLI args, runs the subprocess,
// and returns its output. Extraction/interpretation of the resulting
// signal is the caller's job (signal.go), since it also needs the
// status-file contents the runner wrote to statusPath.
func (inv Invoker) Invoke(ctx context.Context, req Request, statusPath string) (Outcome, error) {
	if err := specfolder.ClearAgentStatus(statusPath); err != nil {
		return Outcome{}, fmt.Errorf("agent: clearing status file: %w", err)
	}

	cmdPath := filepath.Join(req.CommandsDir, req.Role.String()+".md")
	cmdMD, err := os.ReadFile(cmdPath)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrCommandFileMissing, cmdPath)
	}

	rendered := ExpandVars(string(cmdMD), map[string]string{
		"SPEC_FOLDER": req.SpecFolder,
	})
	prompt := BuildPrompt(rendered, req.SpecFolder, req.ExtraContext, req.Role.String(), statusPath)

	flavor := DetectFlavor(req.CLI)
	args, captureFile := buildArgs(req.Model, flavor)

	spec := procrunner.Spec{
		Command:     req.CLI,
		Args:        args,
		Dir:         req.SpecFolder,
		Env:         os.Environ(),
		Stdin:       []byte(prompt),
		Timeout:     req.Timeout,
		CaptureFile: captureFile,
	}

	result, err := inv.Runner.Run(ctx, spec)
	if errors.Is(err, procrunner.ErrTimedOut) {
		out := Outcome{TimedOut: true}
		if result != nil {
			out.Output = result.Output
		}
		return out, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	output := result.Output
	if flavor == FlavorCaptureFile {
		if data, readErr := os.ReadFile(captureFile); readErr == nil && len(data) > 0 {
			output = data
		}
		defer os.Remove(captureFile)
	}
	return Outcome{Output: output}, nil
}

// BuildPrompt assembles the prompt per §4.2.3 step 3: the command
// markdown, a separator, the spec folder path, optional extra context,
// and the trailing instruction telling the agent where to write its
// signal.
func BuildPrompt(commandMD, specFolder, extraContext, command, statusPath string) string {
	var b strings.Builder
	b.WriteString(commandMD)
	b.WriteString("\n\n---\n\n")
	b.WriteString("Spec folder: ")
	b.WriteString(specFolder)
	b.WriteString("\n")
	if extraContext != "" {
		b.WriteString("\n")
		b.WriteString(extraContext)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nBefore exiting, write a single line `%s-status: <signal>` to %s using your file-writing tool.\n", command, statusPath)
	return b.String()
}

func buildArgs(model string, flavor Flavor) (args []string, captureFile string) {
	if model != "" {
		args = append(args, "--model", model)
	}
	if flavor == FlavorCaptureFile {
		captureFile = filepath.Join(os.TempDir(), fmt.Sprintf("agent-capture-%s.txt", uuid.NewString()))
		args = append(args, "-o", captureFile)
	}
	return args, captureFile
}
