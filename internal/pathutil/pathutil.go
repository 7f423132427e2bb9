package pathutil

import (
	"path"
	"path/filepath"
	"strings"
)

// NormalizePath accepts either separator style and returns a cleaned path
// for the current platform.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// VaultRelative returns target relative to vaultDir using forward slashes.
// Store paths and ignore patterns are always compared in this form.
func VaultRelative(vaultDir, target string) (string, error) {
	rel, err := filepath.Rel(NormalizePath(vaultDir), NormalizePath(target))
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// WithinVault reports whether target lies inside vaultDir.
func WithinVault(vaultDir, target string) bool {
	rel, err := VaultRelative(vaultDir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// TopFolder returns the first directory of a vault-relative slash path, or
// "" for notes at the vault root.
func TopFolder(rel string) string {
	rel = strings.TrimPrefix(rel, "./")
	top, _, found := strings.Cut(rel, "/")
	if !found {
		return ""
	}
	return top
}

// IsMarkdown reports whether name has a .md extension, ignoring case.
func IsMarkdown(name string) bool {
	return strings.EqualFold(path.Ext(name), ".md")
}

// NoteBasename is the file name of a slash path without its .md extension.
func NoteBasename(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if IsMarkdown(base) {
		base = base[:len(base)-len(path.Ext(base))]
	}
	return base
}
