// Package gitamend implements the self-heal step for recoverable on-disk
// drift (spec mutation, checkbox drift): stage a file and fold the fix
// into the most recent commit, or create one if amending isn't possible.
// Both operations are best-effort — callers discard a git failure here;
// it never surfaces as an abort (§4.2.5, §4.2.6).
package gitamend

import (
	"os/exec"
)

// Amend stages path and amends the most recent commit with it, keeping
// the commit message unchanged. If there is no prior commit to amend,
// Amend falls back to creating a small bookkeeping commit instead.
func Amend(repoDir, path, fallbackMessage string) error {
	if err := run(repoDir, "add", path); err != nil {
		return err
	}
	if err := run(repoDir, "commit", "--amend", "--no-edit"); err != nil {
		return run(repoDir, "commit", "-m", fallbackMessage)
	}
	return nil
}

func run(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	return cmd.Run()
}
