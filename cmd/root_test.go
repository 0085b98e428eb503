package cmd

import "testing"

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"run":     false,
		"migrate": false,
		"version": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootDefaults(t *testing.T) {
	if rootCmd.Use != "telegem" {
		t.Errorf("Use = %q, want %q", rootCmd.Use, "telegem")
	}
	if !rootCmd.SilenceUsage {
		t.Error("SilenceUsage should be set: config errors are not usage errors")
	}
	if Version == "" {
		t.Error("Version must have a non-empty default")
	}
}
