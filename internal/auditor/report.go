package auditor

import (
	"fmt"
	"strings"
	"time"

	"github.com/agent-os/orchestrator/internal/ux"
)

// PrintTable renders the per-standard results plus totals and elapsed
// time (spec §4.3.2 step 5).
func (r *Report) PrintTable() {
	fmt.Println()
	for _, res := range r.Results {
		color := ux.Green
		switch res.Status {
		case StatusFail:
			color = ux.Red
		case StatusTimeout, StatusSkip:
			color = ux.Yellow
		}
		fmt.Printf("  %s%-8s%s %s/%s\n", color, res.Status, ux.Reset, res.Entry.Category, res.Entry.Slug)
	}

	counts := r.counts()
	fmt.Printf("\n  %d pass, %d fail, %d timeout, %d skip — %s total\n",
		counts[StatusPass], counts[StatusFail], counts[StatusTimeout], counts[StatusSkip],
		r.Elapsed.Round(time.Second))
}

// DryRunPlan prints the would-be run plan for cfg's selected standards
// without invoking anything (spec §4.3.3).
func DryRunPlan(idx Index, cfg Config) {
	entries := idx.Filter(cfg.Standards)
	fmt.Printf("\n%sDry run — %d standard(s), concurrency %d:%s\n\n", ux.Bold, len(entries), cfg.Concurrency, ux.Reset)
	for _, e := range entries {
		fmt.Printf("  %s%s/%s%s", ux.Cyan, e.Category, e.Slug, ux.Reset)
		if e.Description != "" {
			fmt.Printf(" — %s", strings.TrimSpace(e.Description))
		}
		fmt.Println()
	}
	fmt.Println()
}
