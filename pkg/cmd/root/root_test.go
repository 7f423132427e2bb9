package root

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Paintersrp/sweep/internal/constants"
	"github.com/Paintersrp/sweep/internal/state"
	"github.com/Paintersrp/sweep/internal/state/statetest"
)

func TestRootLoadsStateBeforeSubcommands(t *testing.T) {
	vault := statetest.WriteVault(t, map[string]string{"a.md": "Only a title"})
	loaded := statetest.New(t, vault, nil)

	var got state.Options
	s := &state.State{}
	cmd := NewCmdRoot(s, func(opts state.Options) (*state.State, error) {
		got = opts
		return loaded, nil
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--workspace", "test", "--debug", "scan"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got.Workspace != "test" || !got.Debug {
		t.Fatalf("load got %+v", got)
	}
	if s.Vault != vault {
		t.Fatalf("state vault = %q, want %q", s.Vault, vault)
	}
	if out.String() != "Only a title (a.md)\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRootLoadFailure(t *testing.T) {
	boom := errors.New("bad config")
	cmd := NewCmdRoot(&state.State{}, func(state.Options) (*state.State, error) {
		return nil, boom
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"scan"})

	if err := cmd.Execute(); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestRootVersion(t *testing.T) {
	cmd := NewCmdRoot(&state.State{}, func(state.Options) (*state.State, error) {
		t.Fatal("version should not load state")
		return nil, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), constants.Version) {
		t.Fatalf("output = %q", out.String())
	}
}
