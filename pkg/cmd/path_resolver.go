package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/sweep/internal/state"
)

// ResolveSubdir turns a directory argument into a vault-relative slash path.
// Relative arguments are taken from the vault root; "" and "." mean the whole
// vault.
func ResolveSubdir(s *state.State, arg string) (string, error) {
	if s == nil || s.Workspace == nil {
		return "", fmt.Errorf("state configuration is not initialized")
	}
	if s.Vault == "" {
		return "", fmt.Errorf("vault directory is not configured")
	}
	vaultDir := filepath.Clean(s.Vault)

	var resolved string
	if filepath.IsAbs(arg) {
		resolved = filepath.Clean(arg)
	} else {
		resolved = filepath.Join(vaultDir, filepath.FromSlash(arg))
	}

	rel, err := ensureWithinVault(vaultDir, resolved)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}

	return filepath.ToSlash(rel), nil
}

func ensureWithinVault(vaultDir, resolved string) (string, error) {
	rel, err := filepath.Rel(vaultDir, resolved)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q relative to vault %q: %w", resolved, vaultDir, err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the vault %q", resolved, vaultDir)
	}

	return rel, nil
}
