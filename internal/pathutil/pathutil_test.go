package pathutil

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestVaultRelativeReturnsForwardSlashes(t *testing.T) {
	vaultParts := []string{"home", "user", "vault"}
	fileParts := append(append([]string{}, vaultParts...), "journal", "2024-01-01.md")

	posixVault := filepath.Join(vaultParts...)
	posixFile := filepath.Join(fileParts...)

	rel, err := VaultRelative(posixVault, posixFile)
	if err != nil {
		t.Fatalf("VaultRelative returned error for POSIX paths: %v", err)
	}
	if rel != "journal/2024-01-01.md" {
		t.Fatalf("expected 'journal/2024-01-01.md', got %q", rel)
	}

	windowsVault := strings.ReplaceAll(posixVault, string(filepath.Separator), "\\")
	windowsFile := strings.ReplaceAll(posixFile, string(filepath.Separator), "\\")

	rel, err = VaultRelative(windowsVault, windowsFile)
	if err != nil {
		t.Fatalf("VaultRelative returned error for Windows paths: %v", err)
	}
	if rel != "journal/2024-01-01.md" {
		t.Fatalf("expected 'journal/2024-01-01.md', got %q", rel)
	}
}

func TestWithinVault(t *testing.T) {
	vault := filepath.Join("home", "vault")
	cases := map[string]bool{
		filepath.Join("home", "vault", "a.md"):       true,
		filepath.Join("home", "vault"):               true,
		filepath.Join("home", "vaulted", "a.md"):     false,
		filepath.Join("home", "other", "a.md"):       false,
		filepath.Join("home", "vault", "..", "x.md"): false,
	}
	for target, want := range cases {
		if got := WithinVault(vault, target); got != want {
			t.Fatalf("WithinVault(%q) = %v, want %v", target, got, want)
		}
	}
}

func TestTopFolder(t *testing.T) {
	cases := map[string]string{
		"root.md":             "",
		"archive/old.md":      "archive",
		"./trash/a/b.md":      "trash",
		"journal/2024/jan.md": "journal",
	}
	for rel, want := range cases {
		if got := TopFolder(rel); got != want {
			t.Fatalf("TopFolder(%q) = %q, want %q", rel, got, want)
		}
	}
}

func TestNoteBasename(t *testing.T) {
	cases := map[string]string{
		"journal/2024-01-01.md": "2024-01-01",
		"Note.MD":               "Note",
		`dir\win.md`:            "win",
		"notes/readme.txt":      "readme.txt",
	}
	for p, want := range cases {
		if got := NoteBasename(p); got != want {
			t.Fatalf("NoteBasename(%q) = %q, want %q", p, got, want)
		}
	}
}
