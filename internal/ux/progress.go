package ux

import "fmt"

// Progress is the concrete orchestrator.Logger used by cmd/orchestrate. It
// just formats onto Info/Warn; it never prints CycleHeader-style headers,
// so the per-cycle line arrives as an ordinary Infof message.
type Progress struct{}

func (Progress) Infof(format string, args ...any) {
	Info(fmt.Sprintf(format, args...))
}

func (Progress) Warnf(format string, args ...any) {
	Warn(fmt.Sprintf(format, args...))
}
