package cmd

import (
	"testing"
)

func TestAddCmd(t *testing.T) {
	t.Run("use line", func(t *testing.T) {
		if addCmd.Use != "add [text]" {
			t.Errorf("addCmd.Use = %q, want %q", addCmd.Use, "add [text]")
		}
	})

	t.Run("requires at least one arg", func(t *testing.T) {
		if err := addCmd.Args(addCmd, []string{}); err == nil {
			t.Error("expected error for no args")
		}
		if err := addCmd.Args(addCmd, []string{"write", "report"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("flags", func(t *testing.T) {
		for _, name := range []string{"priority", "estimate"} {
			if addCmd.Flags().Lookup(name) == nil {
				t.Errorf("addCmd should have --%s flag", name)
			}
		}
	})
}

func TestStartCmd_Flags(t *testing.T) {
	for _, name := range []string{"task", "type", "duration"} {
		if startCmd.Flags().Lookup(name) == nil {
			t.Errorf("startCmd should have --%s flag", name)
		}
	}

	if startCmd.Flags().Lookup("type").DefValue != "work" {
		t.Errorf("type flag default = %q, want %q", startCmd.Flags().Lookup("type").DefValue, "work")
	}
}

func TestFinishCmd_Args(t *testing.T) {
	if err := finishCmd.Args(finishCmd, []string{}); err == nil {
		t.Error("expected error for missing session id")
	}
	if err := finishCmd.Args(finishCmd, []string{"some-id"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
