package procrunner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRun_CapturesOutput(t *testing.T) {
	r := Runner{}
	res, err := r.Run(context.Background(), Spec{
		Command: "bash",
		Args:    []string{"-c", "echo hello"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(string(res.Output), "hello") {
		t.Fatalf("Output = %q, want to contain hello", res.Output)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	r := Runner{}
	res, err := r.Run(context.Background(), Spec{
		Command: "bash",
		Args:    []string{"-c", "exit 7"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.ExitCode != 7 {
		t.Fatalf("ExitCode = %d, want 7", res.ExitCode)
	}
}

func TestRun_SpawnError(t *testing.T) {
	r := Runner{}
	_, err := r.Run(context.Background(), Spec{Command: "definitely-not-a-real-binary-xyz"})
	if !errors.Is(err, ErrSpawn) {
		t.Fatalf("err = %v, want ErrSpawn", err)
	}
}

func TestRun_Timeout(t *testing.T) {
	r := Runner{}
	start := time.Now()
	res, err := r.Run(context.Background(), Spec{
		Command: "bash",
		Args:    []string{"-c", "sleep 5"},
		Timeout: 200 * time.Millisecond,
	})
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("err = %v, want ErrTimedOut", err)
	}
	if !res.TimedOut {
		t.Fatal("Result.TimedOut = false, want true")
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Fatalf("took %v, process group was not actually killed", elapsed)
	}
}

func TestRun_KillsWholeProcessGroup(t *testing.T) {
	// The child spawns a grandchild via a nested shell; both must die on timeout.
	r := Runner{}
	_, err := r.Run(context.Background(), Spec{
		Command: "bash",
		Args:    []string{"-c", "bash -c 'sleep 5' & wait"},
		Timeout: 200 * time.Millisecond,
	})
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("err = %v, want ErrTimedOut", err)
	}
	time.Sleep(300 * time.Millisecond)
	// pgrep is run directly (not through a shell) so its own parent's command
	// line, which would contain the pattern, cannot match.
	out, _ := (Runner{}).Run(context.Background(), Spec{Command: "pgrep", Args: []string{"-f", "sleep 5"}})
	if out != nil && strings.TrimSpace(string(out.Output)) != "" {
		t.Fatalf("orphaned grandchild still running: %q", out.Output)
	}
}

func TestRun_Stdin(t *testing.T) {
	r := Runner{}
	res, err := r.Run(context.Background(), Spec{
		Command: "cat",
		Stdin:   []byte("piped input"),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if string(res.Output) != "piped input" {
		t.Fatalf("Output = %q", res.Output)
	}
}

func TestRun_CaptureFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.txt")
	r := Runner{}
	_, err := r.Run(context.Background(), Spec{
		Command:     "bash",
		Args:        []string{"-c", "echo captured"},
		CaptureFile: path,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading capture file: %v", err)
	}
	if !strings.Contains(string(data), "captured") {
		t.Fatalf("capture file = %q", data)
	}
}
