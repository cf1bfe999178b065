package agent

import (
	"os"
	"testing"
)

func TestExpandVars_FromMap(t *testing.T) {
	got := ExpandVars("hello ${NAME}", map[string]string{"NAME": "world"})
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandVars_FallsBackToEnv(t *testing.T) {
	os.Setenv("AGENT_OS_TEST_VAR", "from-env")
	defer os.Unsetenv("AGENT_OS_TEST_VAR")
	got := ExpandVars("value=${AGENT_OS_TEST_VAR}", nil)
	if got != "value=from-env" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandVars_MapTakesPrecedenceOverEnv(t *testing.T) {
	os.Setenv("AGENT_OS_TEST_VAR", "from-env")
	defer os.Unsetenv("AGENT_OS_TEST_VAR")
	got := ExpandVars("value=${AGENT_OS_TEST_VAR}", map[string]string{"AGENT_OS_TEST_VAR": "from-map"})
	if got != "value=from-map" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandVars_UnknownVarBecomesEmpty(t *testing.T) {
	got := ExpandVars("x=${AGENT_OS_DOES_NOT_EXIST}", nil)
	if got != "x=" {
		t.Fatalf("got %q", got)
	}
}
