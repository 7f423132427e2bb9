package clean

import (
	"io"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/sweep/internal/config"
	"github.com/Paintersrp/sweep/internal/state/statetest"
	tui "github.com/Paintersrp/sweep/internal/tui/cleaner"
)

func TestCleanRunsReviewScreen(t *testing.T) {
	prev := runProgram
	t.Cleanup(func() { runProgram = prev })

	var started bool
	runProgram = func(m tea.Model) (tea.Model, error) {
		if _, ok := m.(*tui.Model); !ok {
			t.Fatalf("model = %T, want *cleaner.Model", m)
		}
		started = true
		return m, nil
	}

	vault := statetest.WriteVault(t, map[string]string{"a.md": ""})
	s := statetest.New(t, vault, nil)

	cmd := NewCmdClean(s)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !started {
		t.Fatal("review screen never started")
	}
	if _, err := os.Stat(config.GetLogPath(s.Home)); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}

func TestCleanNeedsVault(t *testing.T) {
	s := statetest.New(t, "", nil)

	cmd := NewCmdClean(s)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error without a vault")
	}
}
