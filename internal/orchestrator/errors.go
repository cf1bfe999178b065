package orchestrator

import "errors"

// The error taxonomy from §7. Each sentinel is wrapped with the
// human-readable detail the spec requires (gate output tail, task
// label, stale-file paths) via fmt.Errorf("%w: ...", sentinel, ...);
// callers dispatch on the kind with errors.Is.
var (
	ErrLockContention     = errors.New("orchestrator: another instance holds the spec-folder lock")
	ErrAgentBlocked       = errors.New("orchestrator: agent signaled blocked")
	ErrAgentError         = errors.New("orchestrator: agent signaled error")
	ErrGateFailure        = errors.New("orchestrator: gate failed after retry budget")
	ErrStale              = errors.New("orchestrator: plan unchanged for too many cycles")
	ErrTaskStuck          = errors.New("orchestrator: same task retried beyond the limit")
	ErrAuditStaleOrMissing = errors.New("orchestrator: audit.md was not rewritten")
	ErrUnknownAuditStatus = errors.New("orchestrator: audit.md status header is neither pass nor fail")
	ErrNoActionableTask   = errors.New("orchestrator: actionable task count was nonzero but no task line matched")
	ErrMaxCycles          = errors.New("orchestrator: reached the safety cycle cap")
)
