// Package config loads the orchestrator's plain key/value configuration
// file and applies the documented defaults (§6.4). Every field can be
// overridden; an absent config file is not an error, since every field
// has a usable default.
package config

import (
	"os"
	"time"
)

// Config holds every tunable the cycle state machine and agent invoker
// read. Durations are stored as time.Duration even though the config
// file spells them as bare seconds, so the rest of the codebase never
// juggles units.
type Config struct {
	CLI      string // generic fallback; seeds the four role CLIs below when set
	DoCLI    string
	AuditCLI string
	DemoCLI  string
	SpecCLI  string

	DoModel    string
	AuditModel string
	DemoModel  string
	SpecModel  string

	TaskGate string
	SpecGate string

	MaxCycles                 int
	CommandsDir               string
	AgentTimeout              time.Duration
	MaxTaskRetries            int
	StaleLimit                int
	AllowStdoutSignalFallback bool
}

// Default returns the configuration with every documented default
// applied and no overrides. AuditCLI defaults to "codex" rather than
// "claude" (§6.4): auditing benefits from a second opinion from a
// different model family, and it exercises the codex-style capture-file
// flavor (§6.2) by default instead of only when a user opts in.
func Default() Config {
	return Config{
		CLI:      "claude",
		DoCLI:    "claude",
		AuditCLI: "codex",
		DemoCLI:  "claude",
		SpecCLI:  "claude",

		DoModel:    "",
		AuditModel: "",
		DemoModel:  "",
		SpecModel:  "",

		TaskGate: "make check",
		SpecGate: "make all",

		MaxCycles:                 10,
		CommandsDir:               ".agent-os/commands",
		AgentTimeout:              1800 * time.Second,
		MaxTaskRetries:            5,
		StaleLimit:                3,
		AllowStdoutSignalFallback: true,
	}
}

// Load reads a KEY=value config file and overrides Default()'s fields.
// A missing path is not an error: Load returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	kv, err := parseKV(data)
	if err != nil {
		return Config{}, err
	}
	if err := apply(&cfg, kv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func apply(cfg *Config, kv map[string]string) error {
	str := func(dst *string, key string) {
		if v, ok := kv[key]; ok {
			*dst = v
		}
	}
	// The generic "cli" key, when set, seeds all four role CLIs, so the
	// per-role keys below still take precedence when also present.
	if v, ok := kv["cli"]; ok {
		cfg.CLI = v
		cfg.DoCLI = v
		cfg.AuditCLI = v
		cfg.DemoCLI = v
		cfg.SpecCLI = v
	}
	str(&cfg.DoCLI, "doCli")
	str(&cfg.AuditCLI, "auditCli")
	str(&cfg.DemoCLI, "demoCli")
	str(&cfg.SpecCLI, "specCli")
	str(&cfg.DoModel, "doModel")
	str(&cfg.AuditModel, "auditModel")
	str(&cfg.DemoModel, "demoModel")
	str(&cfg.SpecModel, "specModel")
	str(&cfg.TaskGate, "taskGate")
	str(&cfg.SpecGate, "specGate")
	str(&cfg.CommandsDir, "commandsDir")

	var err error
	if cfg.MaxCycles, err = parseIntOr(kv["maxCycles"], cfg.MaxCycles); err != nil {
		return err
	}
	if cfg.MaxTaskRetries, err = parseIntOr(kv["maxTaskRetries"], cfg.MaxTaskRetries); err != nil {
		return err
	}
	if cfg.StaleLimit, err = parseIntOr(kv["staleLimit"], cfg.StaleLimit); err != nil {
		return err
	}
	timeoutSecs, err := parseIntOr(kv["agentTimeout"], int(cfg.AgentTimeout/time.Second))
	if err != nil {
		return err
	}
	cfg.AgentTimeout = time.Duration(timeoutSecs) * time.Second

	if cfg.AllowStdoutSignalFallback, err = parseBoolOr(kv["allowStdoutSignalFallback"], cfg.AllowStdoutSignalFallback); err != nil {
		return err
	}
	return nil
}
