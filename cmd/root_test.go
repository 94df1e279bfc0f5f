package cmd

import "testing"

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "sfc-wizard" {
		t.Errorf("Expected Use to be 'sfc-wizard', got %s", rootCmd.Use)
	}
	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be enabled")
	}
}

func TestSetAndGetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	SetVersion("9.9.9")
	if GetVersion() != "9.9.9" {
		t.Errorf("Expected version 9.9.9, got %s", GetVersion())
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	expected := []string{"serve", "agent", "validate", "generate", "docs", "run", "version", "self-update"}
	registered := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		registered[sub.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}
