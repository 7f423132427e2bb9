// Package statetest builds throwaway states around a temporary home and
// vault for command tests.
package statetest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Paintersrp/sweep/internal/config"
	"github.com/Paintersrp/sweep/internal/state"
)

// WriteVault creates a vault directory holding files, keyed by slash path.
func WriteVault(t *testing.T, files map[string]string) string {
	t.Helper()

	vault := t.TempDir()
	for name, body := range files {
		path := filepath.Join(vault, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return vault
}

// New returns a state whose active workspace points at vault. Edit, when
// non-nil, adjusts the workspace before it is saved.
func New(t *testing.T, vault string, edit func(*config.Workspace)) *state.State {
	t.Helper()

	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists: %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ws := config.NewWorkspace()
	ws.VaultDir = vault
	ws.Editor = "nvim"
	if edit != nil {
		edit(ws)
	}
	if err := cfg.AddWorkspace("test", ws, true); err != nil {
		t.Fatalf("AddWorkspace: %v", err)
	}

	s, err := state.FromConfig(home, cfg, state.Options{LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
