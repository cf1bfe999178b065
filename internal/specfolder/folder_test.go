package specfolder

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_RequiresSpecAndPlan(t *testing.T) {
	dir := t.TempDir()
	f := New(dir)
	if err := f.Validate(); err == nil {
		t.Fatal("expected error when spec.md and plan.md are missing")
	}

	os.WriteFile(f.SpecPath(), []byte("# Spec\n"), 0644)
	if err := f.Validate(); err == nil {
		t.Fatal("expected error when plan.md is still missing")
	}

	os.WriteFile(f.PlanPath(), []byte("# Plan\n"), 0644)
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate failed with both files present: %v", err)
	}
}

func TestFolder_PathAccessors(t *testing.T) {
	f := New("/tmp/myspec")
	cases := map[string]string{
		f.SpecPath():      "/tmp/myspec/spec.md",
		f.PlanPath():      "/tmp/myspec/plan.md",
		f.AuditPath():     "/tmp/myspec/audit.md",
		f.DemoPath():      "/tmp/myspec/demo.md",
		f.SignpostsPath(): "/tmp/myspec/signposts.md",
		f.AuditLogPath():  "/tmp/myspec/audit-log.md",
		f.StatusPath():    "/tmp/myspec/.agent-status",
		f.LockPath():      "/tmp/myspec/.orchestrate.lock",
		f.PidPath():       "/tmp/myspec/.orchestrate.pid",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestWritePid(t *testing.T) {
	dir := t.TempDir()
	f := New(dir)
	if err := f.WritePid(4242); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(f.PidPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "4242\n" {
		t.Fatalf("pid file content = %q", data)
	}
}

func TestWriteFileAtomic_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.md")
	if err := writeFileAtomic(path, []byte("status: pass\n"), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in dir, got %d", len(entries))
	}
}
