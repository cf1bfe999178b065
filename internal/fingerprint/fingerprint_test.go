package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOf_MissingFile(t *testing.T) {
	got, err := Of(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Of returned error: %v", err)
	}
	if got != Absent {
		t.Fatalf("got %q, want %q", got, Absent)
	}
}

func TestOf_Stable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}
	a, err := Of(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Of(path)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("fingerprint not stable: %q != %q", a, b)
	}
}

func TestOf_ChangesOnOneByteDiff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	os.WriteFile(path, []byte("hello world"), 0644)
	a, _ := Of(path)
	os.WriteFile(path, []byte("hello worlD"), 0644)
	b, _ := Of(path)
	if a == b {
		t.Fatal("fingerprint did not change after one-byte edit")
	}
}

func TestOf_EmptyFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	os.WriteFile(path, nil, 0644)
	got, err := Of(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != Absent {
		t.Fatalf("got %q, want %q", got, Absent)
	}
}
