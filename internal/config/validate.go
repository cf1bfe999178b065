package config

import (
	"fmt"
	"os"
)

// Validate checks that a loaded config is internally consistent and that
// its commandsDir exists. Agent markdown files themselves are checked
// lazily by the invoker (a missing command file is a per-invocation
// error, not a startup one, since commandsDir may legitimately contain
// only the commands a given run will actually use).
func Validate(cfg *Config) error {
	if cfg.CommandsDir == "" {
		return fmt.Errorf("config: 'commandsDir' is required")
	}
	if info, err := os.Stat(cfg.CommandsDir); err != nil || !info.IsDir() {
		return fmt.Errorf("config: commandsDir %q not found", cfg.CommandsDir)
	}
	if cfg.MaxCycles <= 0 {
		return fmt.Errorf("config: 'maxCycles' must be > 0")
	}
	if cfg.MaxTaskRetries <= 0 {
		return fmt.Errorf("config: 'maxTaskRetries' must be > 0")
	}
	if cfg.StaleLimit <= 0 {
		return fmt.Errorf("config: 'staleLimit' must be > 0")
	}
	if cfg.AgentTimeout <= 0 {
		return fmt.Errorf("config: 'agentTimeout' must be > 0")
	}
	for name, cli := range map[string]string{
		"cli": cfg.CLI, "doCli": cfg.DoCLI, "auditCli": cfg.AuditCLI,
		"demoCli": cfg.DemoCLI, "specCli": cfg.SpecCLI,
	} {
		if cli == "" {
			return fmt.Errorf("config: %q must not be empty", name)
		}
	}
	if cfg.TaskGate == "" {
		return fmt.Errorf("config: 'taskGate' must not be empty")
	}
	if cfg.SpecGate == "" {
		return fmt.Errorf("config: 'specGate' must not be empty")
	}
	return nil
}
