package main

import "testing"

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()

	t.Run("WeekDefaultsToUpcoming", func(t *testing.T) {
		flag := cmd.Flags().Lookup("week")
		if flag == nil {
			t.Fatal("Expected a --week flag")
		}
		if flag.DefValue != "[0]" {
			t.Errorf("Expected default week offset [0], got %q", flag.DefValue)
		}
	})

	t.Run("RepeatedWeekFlagAccumulates", func(t *testing.T) {
		cmd := newRootCommand()
		if err := cmd.Flags().Parse([]string{"--week", "0", "--week", "1"}); err != nil {
			t.Fatalf("Expected flags to parse, got %v", err)
		}
		offsets, err := cmd.Flags().GetIntSlice("week")
		if err != nil {
			t.Fatalf("Expected an int slice, got %v", err)
		}
		if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != 1 {
			t.Errorf("Expected offsets [0 1], got %v", offsets)
		}
	})

	t.Run("ExpectedFlagsExist", func(t *testing.T) {
		for _, name := range []string{"config", "magic-link", "debug"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("Expected a --%s flag", name)
			}
		}
	})
}
