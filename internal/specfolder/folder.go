// Package specfolder models the on-disk spec folder: the fixed set of
// markdown/status files the orchestrator reads and writes, and the three
// regex-driven file grammars (task lines, audit status header, agent
// signal line) the core depends on. The contents of spec.md, plan.md,
// audit.md, demo.md, and signposts.md are otherwise opaque — this package
// never attempts to parse markdown structure beyond those patterns.
package specfolder

import (
	"fmt"
	"os"
	"path/filepath"
)

// Folder is a fixed directory for the lifetime of one orchestrator run.
type Folder struct {
	Root string
}

func New(root string) Folder { return Folder{Root: root} }

func (f Folder) path(name string) string { return filepath.Join(f.Root, name) }

func (f Folder) SpecPath() string      { return f.path("spec.md") }
func (f Folder) PlanPath() string      { return f.path("plan.md") }
func (f Folder) AuditPath() string     { return f.path("audit.md") }
func (f Folder) DemoPath() string      { return f.path("demo.md") }
func (f Folder) SignpostsPath() string { return f.path("signposts.md") }
func (f Folder) AuditLogPath() string  { return f.path("audit-log.md") }
func (f Folder) StatusPath() string    { return f.path(".agent-status") }
func (f Folder) LockPath() string      { return f.path(".orchestrate.lock") }
func (f Folder) PidPath() string       { return f.path(".orchestrate.pid") }
func (f Folder) SpecBackupPath() string {
	return f.path(".spec.md.orchestrate-backup")
}

// Validate checks the required preconditions: spec.md and plan.md must
// exist.
func (f Folder) Validate() error {
	for _, p := range []string{f.SpecPath(), f.PlanPath()} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("specfolder: required file missing: %s", p)
		}
	}
	info, err := os.Stat(f.Root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("specfolder: %s is not a directory", f.Root)
	}
	return nil
}

// WritePid writes the current process id to .orchestrate.pid.
func (f Folder) WritePid(pid int) error {
	return writeFileAtomic(f.PidPath(), []byte(fmt.Sprintf("%d\n", pid)), 0644)
}
