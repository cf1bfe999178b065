package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/agent-os/orchestrator/internal/fingerprint"
	"github.com/agent-os/orchestrator/internal/gitamend"
)

// checkImmutability recomputes spec.md's fingerprint after an agent
// invocation and, if it drifted from baseline, restores it from backup
// and folds the restoration into the last commit. A drift is never
// surfaced as an abort (§4.2.5) — the caller only uses the returned bool
// to decide whether to emit a warning.
func checkImmutability(specPath, backupPath, baseline, repoDir string) (mutated bool, err error) {
	current, err := fingerprint.Of(specPath)
	if err != nil {
		return false, err
	}
	if current == baseline {
		return false, nil
	}

	backup, err := os.ReadFile(backupPath)
	if err != nil {
		return true, err
	}
	if err := os.WriteFile(specPath, backup, 0644); err != nil {
		return true, err
	}

	rel, err := filepath.Rel(repoDir, specPath)
	if err != nil {
		rel = specPath
	}
	_ = gitamend.Amend(repoDir, rel, "bookkeeping: restore spec.md")
	return true, nil
}
