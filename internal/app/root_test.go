package app

import (
	"slices"
	"testing"
)

func TestRootCmd_Subcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{
		"add", "breakdown", "clear", "dissatisfaction", "edit", "export",
		"import", "list", "mcp", "offices", "recommend", "report",
		"tabular", "track", "watch",
	} {
		if !slices.Contains(names, want) {
			t.Errorf("%s subcommand not registered on rootCmd", want)
		}
	}
}

func TestRootCmd_Aliases(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"suggest"})
	if err != nil {
		t.Fatalf("Find(suggest): %v", err)
	}
	if cmd != recommendCmd {
		t.Errorf("suggest should resolve to recommend, got %s", cmd.Name())
	}
}

func TestOfficesCmd_Subcommands(t *testing.T) {
	for _, name := range []string{"list", "add", "remove"} {
		cmd, _, err := rootCmd.Find([]string{"offices", name})
		if err != nil || cmd.Name() != name {
			t.Errorf("offices %s not found: %v", name, err)
		}
	}
}
