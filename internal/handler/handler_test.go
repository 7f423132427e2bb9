package handler

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestListMarkdownFilesSkipsIgnoredFolders(t *testing.T) {
	t.Parallel()

	vaultDir := t.TempDir()
	mustWriteFile(t, filepath.Join(vaultDir, "root.md"))
	mustWriteFile(t, filepath.Join(vaultDir, "project", "nested.md"))
	mustWriteFile(t, filepath.Join(vaultDir, "project", "archive", "kept.md"))
	mustWriteFile(t, filepath.Join(vaultDir, "archive", "archived.md"))
	mustWriteFile(t, filepath.Join(vaultDir, "trash", "trashed.md"))
	mustWriteFile(t, filepath.Join(vaultDir, ".obsidian", "workspace.md"))
	mustWriteFile(t, filepath.Join(vaultDir, "project", "image.png"))

	h, err := NewFileHandler(vaultDir, Options{IgnoredFolders: []string{"archive", "trash"}})
	if err != nil {
		t.Fatalf("NewFileHandler: %v", err)
	}

	files, err := h.ListMarkdownFiles(context.Background())
	if err != nil {
		t.Fatalf("ListMarkdownFiles returned error: %v", err)
	}

	want := []string{"project/archive/kept.md", "project/nested.md", "root.md"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestListMarkdownFilesHonoursPatternsAndRoot(t *testing.T) {
	t.Parallel()

	vaultDir := t.TempDir()
	mustWriteFile(t, filepath.Join(vaultDir, "journal", "2024-01-01.md"))
	mustWriteFile(t, filepath.Join(vaultDir, "journal", "2024-01-01.excalidraw.md"))
	mustWriteFile(t, filepath.Join(vaultDir, "journal", "drafts", "idea.md"))
	mustWriteFile(t, filepath.Join(vaultDir, "inbox", "todo.md"))

	h, err := NewFileHandler(vaultDir, Options{
		Root:           "journal",
		IgnorePatterns: []string{"**.excalidraw.md", "journal/drafts/*"},
	})
	if err != nil {
		t.Fatalf("NewFileHandler: %v", err)
	}

	files, err := h.ListMarkdownFiles(context.Background())
	if err != nil {
		t.Fatalf("ListMarkdownFiles: %v", err)
	}

	if diff := cmp.Diff([]string{"journal/2024-01-01.md"}, files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFileHandlerRejectsBadPattern(t *testing.T) {
	t.Parallel()

	if _, err := NewFileHandler(t.TempDir(), Options{IgnorePatterns: []string{"[unclosed"}}); err == nil {
		t.Fatal("expected invalid glob to be rejected")
	}
	if _, err := NewFileHandler("  ", Options{}); err == nil {
		t.Fatal("expected empty vault to be rejected")
	}
}

func TestListMarkdownFilesModifiedBefore(t *testing.T) {
	t.Parallel()

	vaultDir := t.TempDir()
	oldNote := filepath.Join(vaultDir, "old.md")
	newNote := filepath.Join(vaultDir, "new.md")
	mustWriteFile(t, oldNote)
	mustWriteFile(t, newNote)

	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldNote, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	h, err := NewFileHandler(vaultDir, Options{ModifiedBefore: time.Now().Add(-24 * time.Hour)})
	if err != nil {
		t.Fatalf("NewFileHandler: %v", err)
	}

	files, err := h.ListMarkdownFiles(context.Background())
	if err != nil {
		t.Fatalf("ListMarkdownFiles: %v", err)
	}
	if diff := cmp.Diff([]string{"old.md"}, files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestReadAndDeleteFile(t *testing.T) {
	t.Parallel()

	vaultDir := t.TempDir()
	note := filepath.Join(vaultDir, "daily", "note.md")
	mustWriteFile(t, note)

	var hooked []string
	h, err := NewFileHandler(vaultDir, Options{
		PostDelete: func(p string) error {
			hooked = append(hooked, p)
			return errors.New("hook exploded")
		},
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewFileHandler: %v", err)
	}

	content, err := h.ReadFile(context.Background(), "daily/note.md")
	if err != nil || content != "# test\n" {
		t.Fatalf("ReadFile = %q, %v", content, err)
	}
	if got := h.Basename("daily/note.md"); got != "note" {
		t.Fatalf("Basename = %q, want note", got)
	}

	if err := h.DeleteFile(context.Background(), "daily/note.md"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := os.Stat(note); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("note still exists: %v", err)
	}
	if diff := cmp.Diff([]string{note}, hooked); diff != "" {
		t.Fatalf("post-delete hook mismatch (-want +got):\n%s", diff)
	}

	err = h.DeleteFile(context.Background(), "daily/note.md")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("second delete err = %v, want fs.ErrNotExist", err)
	}
	if len(hooked) != 1 {
		t.Fatal("hook ran for a failed delete")
	}
}

func TestSubdirectories(t *testing.T) {
	t.Parallel()

	vaultDir := t.TempDir()
	mustMkdirAll(t, filepath.Join(vaultDir, "journal"))
	mustMkdirAll(t, filepath.Join(vaultDir, "trash"))
	mustMkdirAll(t, filepath.Join(vaultDir, ".git"))

	h, err := NewFileHandler(vaultDir, Options{IgnoredFolders: []string{"trash"}})
	if err != nil {
		t.Fatalf("NewFileHandler: %v", err)
	}

	dirs, err := h.Subdirectories()
	if err != nil {
		t.Fatalf("Subdirectories: %v", err)
	}
	if diff := cmp.Diff([]string{"journal"}, dirs); diff != "" {
		t.Fatalf("dirs mismatch (-want +got):\n%s", diff)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("# test\n"), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

func TestIncludesMatchesWalkRules(t *testing.T) {
	t.Parallel()

	h, err := NewFileHandler(t.TempDir(), Options{
		IgnoredFolders: []string{"archive", "project/old"},
		IgnorePatterns: []string{"**.excalidraw.md"},
	})
	if err != nil {
		t.Fatalf("NewFileHandler: %v", err)
	}

	for rel, want := range map[string]bool{
		"note.md":                 true,
		"project/archive/kept.md": true,
		"archive/old.md":          false,
		"project/old/x.md":        false,
		".obsidian/workspace.md":  false,
		"journal/.hidden.md":      false,
		"drawing/a.excalidraw.md": false,
		"image.png":               false,
		"":                        false,
	} {
		if got := h.Includes(rel); got != want {
			t.Fatalf("Includes(%q) = %v, want %v", rel, got, want)
		}
	}
}
