// Package agent implements the agent invocation contract: prompt
// construction, CLI-flavor detection, and the signal extraction /
// interpretation state machine that turns an agent's one-word exit
// signal into an action the orchestrator's cycle loop can act on.
package agent

// Role identifies which of the four agent commands produced a signal.
// audit-spec's pass/fail outcome is decided from audit.md's status
// header, not from its signal (§4.2.2.6); see Interpret.
type Role int

const (
	RoleDoTask Role = iota
	RoleAuditTask
	RoleRunDemo
	RoleAuditSpec
)

func (r Role) String() string {
	switch r {
	case RoleDoTask:
		return "do-task"
	case RoleAuditTask:
		return "audit-task"
	case RoleRunDemo:
		return "run-demo"
	case RoleAuditSpec:
		return "audit-spec"
	default:
		return "unknown"
	}
}

// Signal is the tagged variant an agent reports. Unrecognized words map
// to Other; a genuinely missing signal maps to Empty.
type Signal int

const (
	SignalEmpty Signal = iota
	SignalComplete
	SignalAllDone
	SignalBlocked
	SignalError
	SignalPass
	SignalFail
	SignalOther
)

func (s Signal) String() string {
	switch s {
	case SignalComplete:
		return "complete"
	case SignalAllDone:
		return "all-done"
	case SignalBlocked:
		return "blocked"
	case SignalError:
		return "error"
	case SignalPass:
		return "pass"
	case SignalFail:
		return "fail"
	case SignalOther:
		return "other"
	default:
		return "empty"
	}
}

// ParseSignal maps a raw signal word (as extracted by specfolder's signal
// regex) to its variant. An empty word is SignalEmpty; a word the matrix
// doesn't recognize is SignalOther so dispatch remains total.
func ParseSignal(word string) Signal {
	switch word {
	case "":
		return SignalEmpty
	case "complete":
		return SignalComplete
	case "all-done":
		return SignalAllDone
	case "blocked":
		return SignalBlocked
	case "error":
		return SignalError
	case "pass":
		return SignalPass
	case "fail":
		return SignalFail
	default:
		return SignalOther
	}
}

// Action is the small algebra the cycle loop dispatches on.
type Action int

const (
	ActionContinue Action = iota
	ActionBreakTaskLoop
	ActionRestartCycle
	ActionAbort
)

// Decision is the result of interpreting one (role, signal) pair: what
// the cycle loop should do, and, for warnings or aborts, why.
type Decision struct {
	Action Action
	Reason string // non-empty for ActionAbort
	Warn   string // non-empty when the signal was empty/unrecognized
}

// Interpret is the pure dispatch table from §4.2.4. It never touches the
// filesystem or a clock, which keeps it unit-testable without any fakes.
func Interpret(role Role, sig Signal) Decision {
	switch role {
	case RoleDoTask:
		switch sig {
		case SignalComplete:
			return Decision{Action: ActionContinue}
		case SignalAllDone:
			return Decision{Action: ActionBreakTaskLoop}
		case SignalBlocked:
			return Decision{Action: ActionAbort, Reason: "human intervention needed"}
		case SignalError:
			return Decision{Action: ActionAbort, Reason: "do-task reported error"}
		case SignalEmpty:
			return Decision{Action: ActionContinue, Warn: "do-task reported no signal; deferring to task gate"}
		default:
			return Decision{Action: ActionContinue, Warn: "do-task reported unrecognized signal " + sig.String()}
		}
	case RoleAuditTask:
		switch sig {
		case SignalPass:
			return Decision{Action: ActionContinue}
		case SignalFail:
			return Decision{Action: ActionContinue}
		case SignalError:
			return Decision{Action: ActionAbort, Reason: "audit-task reported error"}
		case SignalEmpty:
			return Decision{Action: ActionContinue, Warn: "audit-task reported no signal"}
		default:
			return Decision{Action: ActionContinue, Warn: "audit-task reported unrecognized signal " + sig.String()}
		}
	case RoleRunDemo:
		switch sig {
		case SignalPass:
			return Decision{Action: ActionContinue}
		case SignalFail:
			return Decision{Action: ActionRestartCycle}
		case SignalError:
			return Decision{Action: ActionAbort, Reason: "run-demo reported error"}
		case SignalEmpty:
			return Decision{Action: ActionAbort, Reason: "run-demo reported no signal"}
		default:
			return Decision{Action: ActionContinue, Warn: "run-demo reported unrecognized signal " + sig.String()}
		}
	case RoleAuditSpec:
		// audit-spec's outcome is read from audit.md's status header, not
		// from this signal (§4.2.2.6); any signal just continues so the
		// caller can get to that check. An error signal still aborts.
		if sig == SignalError {
			return Decision{Action: ActionAbort, Reason: "audit-spec reported error"}
		}
		return Decision{Action: ActionContinue}
	default:
		return Decision{Action: ActionAbort, Reason: "unknown agent role"}
	}
}
