package obslog

import (
	"os"
	"testing"
)

func TestEnabled_FlagWins(t *testing.T) {
	os.Unsetenv("ORC_DEBUG")
	if !Enabled(true) {
		t.Fatal("Enabled(true) = false, want true")
	}
}

func TestEnabled_EnvVar(t *testing.T) {
	t.Setenv("ORC_DEBUG", "1")
	if !Enabled(false) {
		t.Fatal("Enabled(false) with ORC_DEBUG=1 = false, want true")
	}
}

func TestEnabled_DefaultOff(t *testing.T) {
	os.Unsetenv("ORC_DEBUG")
	if Enabled(false) {
		t.Fatal("Enabled(false) with no env set = true, want false")
	}
}

func TestInit_DisabledDiscardsWithoutPanicking(t *testing.T) {
	Init(false)
	CycleStart(1, 3)
	AgentInvoke("do-task", "claude", "")
	SignalExtracted("do-task", "complete", false)
	GateRun("make check", 1, 0)
	Abort("agent blocked")
	AuditorWorker("go", "naming", "PASS")
}

func TestInit_EnabledSetsDebugLevel(t *testing.T) {
	Init(true)
	defer Init(false)
	if Logger.GetLevel().String() != "debug" {
		t.Fatalf("level = %v, want debug", Logger.GetLevel())
	}
}
