package auditor

import (
	"os"
	"path/filepath"
	"testing"
)

func writeIndex(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadIndex_TwoLevelCategories(t *testing.T) {
	path := writeIndex(t, `
go:
  error-handling:
    description: errors are wrapped with context
  naming:
    description: exported identifiers are documented
testing:
  coverage:
    description: every package has tests
`)
	idx, err := LoadIndex(path)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if len(idx) != 3 {
		t.Fatalf("len(idx) = %d, want 3", len(idx))
	}
	if idx[0].Category != "go" || idx[0].Slug != "error-handling" {
		t.Errorf("idx[0] = %+v", idx[0])
	}
	if idx[0].Description != "errors are wrapped with context" {
		t.Errorf("idx[0].Description = %q", idx[0].Description)
	}
	if idx[2].Category != "testing" || idx[2].Slug != "coverage" {
		t.Errorf("idx[2] = %+v", idx[2])
	}
}

func TestLoadIndex_IgnoresCommentsAndBlankLines(t *testing.T) {
	path := writeIndex(t, `
# top-level comment
go:
  # a standard
  naming:
    description: ok

  # blank line above is fine
`)
	idx, err := LoadIndex(path)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if len(idx) != 1 {
		t.Fatalf("len(idx) = %d, want 1", len(idx))
	}
}

func TestLoadIndex_RejectsNonMappingTopLevel(t *testing.T) {
	path := writeIndex(t, "- just a list\n")
	if _, err := LoadIndex(path); err == nil {
		t.Fatal("expected an error for a non-mapping top level")
	}
}

func TestLoadIndex_RejectsStandardNotMappingToDescription(t *testing.T) {
	path := writeIndex(t, `
go:
  naming: "not a mapping"
`)
	if _, err := LoadIndex(path); err == nil {
		t.Fatal("expected an error for a standard whose body isn't a mapping")
	}
}

func TestLoadIndex_MissingFile(t *testing.T) {
	if _, err := LoadIndex(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing index file")
	}
}

func TestIndexFilter_EmptyAllowListReturnsAll(t *testing.T) {
	idx := Index{{Category: "go", Slug: "a"}, {Category: "go", Slug: "b"}}
	if got := idx.Filter(nil); len(got) != 2 {
		t.Fatalf("Filter(nil) = %d entries, want 2", len(got))
	}
}

func TestIndexFilter_NarrowsToAllowList(t *testing.T) {
	idx := Index{{Category: "go", Slug: "a"}, {Category: "go", Slug: "b"}, {Category: "go", Slug: "c"}}
	got := idx.Filter([]string{"a", "c"})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Slug != "a" || got[1].Slug != "c" {
		t.Fatalf("got = %+v", got)
	}
}
