package orchestrator

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agent-os/orchestrator/internal/gitamend"
)

// fixLineRe matches an indented fix-item line belonging to a task.
var fixLineRe = regexp.MustCompile(`^\s+- \[ \] Fix:`)

// selfHealCheckbox re-reads plan.md and, if label's checkbox is still
// unchecked, flips it to [x] along with any indented "- [ ] Fix:" lines
// that immediately follow it in the same run. Idempotent: once the box
// is already [x] this is a no-op (§8 property 8).
func selfHealCheckbox(planPath, label, repoDir string) (healed bool, err error) {
	data, err := os.ReadFile(planPath)
	if err != nil {
		return false, err
	}

	lines := strings.Split(string(data), "\n")
	open := "- [ ] " + label
	taskLine := -1
	for i, line := range lines {
		if strings.Contains(line, open) {
			taskLine = i
			break
		}
	}
	if taskLine < 0 {
		return false, nil // already healed, or the label text changed underneath us
	}

	lines[taskLine] = strings.Replace(lines[taskLine], "- [ ] "+label, "- [x] "+label, 1)
	for i := taskLine + 1; i < len(lines) && fixLineRe.MatchString(lines[i]); i++ {
		lines[i] = strings.Replace(lines[i], "- [ ] Fix:", "- [x] Fix:", 1)
	}

	if err := os.WriteFile(planPath, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return false, err
	}
	rel, err := filepath.Rel(repoDir, planPath)
	if err != nil {
		rel = planPath
	}
	_ = gitamend.Amend(repoDir, rel, "bookkeeping: mark task complete")
	return true, nil
}
