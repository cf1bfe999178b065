package specfolder

import "testing"

func TestParseTaskPlan_ActionableCount(t *testing.T) {
	data := []byte(`# Plan

- [x] Task 1: setup repo
- [ ] Task 2: add handler
- [ ] Task 3: add tests
`)
	tp := parseTaskPlan(data)
	if tp.TotalCount() != 3 {
		t.Fatalf("TotalCount = %d, want 3", tp.TotalCount())
	}
	if got := tp.ActionableCount(); got != 2 {
		t.Fatalf("ActionableCount = %d, want 2", got)
	}
	if got := tp.NextLabel(); got != "Task 2" {
		t.Fatalf("NextLabel = %q, want %q", got, "Task 2")
	}
}

func TestParseTaskPlan_AllDone(t *testing.T) {
	data := []byte(`- [x] Task 1: a
- [X] Task 2: b
`)
	tp := parseTaskPlan(data)
	if !tp.AllDone() {
		t.Fatal("expected AllDone")
	}
	if tp.NextLabel() != "" {
		t.Fatalf("NextLabel = %q, want empty", tp.NextLabel())
	}
}

func TestParseTaskPlan_NoTasksIsNotDone(t *testing.T) {
	tp := parseTaskPlan([]byte("# Plan\n\nNo tasks yet.\n"))
	if tp.AllDone() {
		t.Fatal("empty plan must not report AllDone")
	}
	if tp.ActionableCount() != 0 {
		t.Fatalf("ActionableCount = %d, want 0", tp.ActionableCount())
	}
}

func TestParseTaskPlan_FingerprintChangesWithContent(t *testing.T) {
	a := parseTaskPlan([]byte("- [ ] Task 1: a\n"))
	b := parseTaskPlan([]byte("- [x] Task 1: a\n"))
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("fingerprints should differ when checkbox state changes")
	}
}

func TestParseTaskPlan_IndentedTaskLine(t *testing.T) {
	tp := parseTaskPlan([]byte("  - [ ] Task 5: nested under a heading\n"))
	if tp.TotalCount() != 1 {
		t.Fatalf("TotalCount = %d, want 1", tp.TotalCount())
	}
}
