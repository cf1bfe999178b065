package specfolder

import (
	"os"
	"regexp"

	"github.com/agent-os/orchestrator/internal/fingerprint"
)

// taskLineRe matches a checkbox task line: "- [ ] Task 3: ..." or
// "- [x] Task 3: ...", leading whitespace allowed for nested plans.
var taskLineRe = regexp.MustCompile(`(?m)^\s*-\s\[( |x|X)\]\s*Task\s+(\d+)\b`)

// TaskPlan is a parsed view of plan.md: how many checkbox tasks remain
// unchecked, and which one is next. TaskPlan itself is read-only; the
// orchestrator writes plan.md only in its checkbox self-heal step.
type TaskPlan struct {
	raw         []byte
	fingerprint string
	labels      []string
	done        []bool
}

// LoadTaskPlan reads and parses plan.md.
func LoadTaskPlan(path string) (*TaskPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTaskPlan(data), nil
}

func parseTaskPlan(data []byte) *TaskPlan {
	matches := taskLineRe.FindAllSubmatch(data, -1)
	tp := &TaskPlan{
		raw:         data,
		fingerprint: fingerprint.OfBytes(data),
	}
	for _, m := range matches {
		tp.labels = append(tp.labels, "Task "+string(m[2]))
		tp.done = append(tp.done, m[1][0] == 'x' || m[1][0] == 'X')
	}
	return tp
}

// Fingerprint identifies the plan's content for staleness comparisons.
func (tp *TaskPlan) Fingerprint() string { return tp.fingerprint }

// TotalCount returns the number of recognized task lines.
func (tp *TaskPlan) TotalCount() int { return len(tp.labels) }

// ActionableCount returns the number of unchecked task lines.
func (tp *TaskPlan) ActionableCount() int {
	n := 0
	for _, d := range tp.done {
		if !d {
			n++
		}
	}
	return n
}

// NextLabel returns the label of the first unchecked task, or "" if none
// remain.
func (tp *TaskPlan) NextLabel() string {
	for i, d := range tp.done {
		if !d {
			return tp.labels[i]
		}
	}
	return ""
}

// AllDone reports whether every recognized task line is checked. A plan
// with zero recognized task lines is not considered done — that is a
// malformed-plan condition the caller must handle separately.
func (tp *TaskPlan) AllDone() bool {
	return len(tp.labels) > 0 && tp.ActionableCount() == 0
}
