// Package handler is the local vault store: it walks markdown notes on disk,
// reads them and deletes them.
package handler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/sweep/internal/pathutil"
)

type Options struct {
	// Root limits the walk to a vault-relative subfolder.
	Root string
	// IgnoredFolders are vault-relative folders that are never walked.
	IgnoredFolders []string
	// IgnorePatterns are glob patterns matched against vault-relative slash
	// paths, with '/' as the separator.
	IgnorePatterns []string
	// ModifiedBefore, when set, drops notes modified at or after it.
	ModifiedBefore time.Time
	// PostDelete runs after a note is removed, with its absolute path.
	PostDelete func(path string) error
	Logger     zerolog.Logger
}

// FileHandler lists and mutates notes under a vault directory. Paths handed
// in and out are vault-relative with forward slashes.
type FileHandler struct {
	vaultDir   string
	root       string
	ignored    map[string]struct{}
	patterns   []glob.Glob
	before     time.Time
	postDelete func(string) error
	log        zerolog.Logger
}

func NewFileHandler(vaultDir string, opts Options) (*FileHandler, error) {
	if strings.TrimSpace(vaultDir) == "" {
		return nil, fmt.Errorf("vault directory is not configured")
	}

	h := &FileHandler{
		vaultDir:   pathutil.NormalizePath(vaultDir),
		ignored:    make(map[string]struct{}, len(opts.IgnoredFolders)),
		before:     opts.ModifiedBefore,
		postDelete: opts.PostDelete,
		log:        opts.Logger,
	}

	if root := strings.Trim(filepath.ToSlash(opts.Root), "/"); root != "" && root != "." {
		h.root = root
	}

	for _, folder := range opts.IgnoredFolders {
		folder = strings.Trim(filepath.ToSlash(folder), "/")
		if folder != "" {
			h.ignored[folder] = struct{}{}
		}
	}

	for _, pattern := range opts.IgnorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		h.patterns = append(h.patterns, g)
	}

	return h, nil
}

func (h *FileHandler) VaultDir() string {
	return h.vaultDir
}

// Abs maps a store path back onto the filesystem.
func (h *FileHandler) Abs(rel string) string {
	return filepath.Join(h.vaultDir, filepath.FromSlash(rel))
}

// ListMarkdownFiles walks the vault in lexical order. Dot folders, ignored
// folders and notes matching an ignore pattern are skipped.
func (h *FileHandler) ListMarkdownFiles(ctx context.Context) ([]string, error) {
	start := h.vaultDir
	if h.root != "" {
		start = h.Abs(h.root)
	}

	var files []string
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := pathutil.VaultRelative(h.vaultDir, p)
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if _, skip := h.ignored[rel]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || !pathutil.IsMarkdown(name) {
			return nil
		}
		if h.matchesPattern(rel) {
			return nil
		}

		if !h.before.IsZero() {
			info, err := d.Info()
			if err != nil {
				h.log.Warn().Err(err).Str("path", rel).Msg("stat failed")
				return nil
			}
			if !info.ModTime().Before(h.before) {
				return nil
			}
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (h *FileHandler) matchesPattern(rel string) bool {
	for _, g := range h.patterns {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Includes reports whether rel would be listed by a walk, ignoring the
// modification time filter. The watcher uses it to filter change events.
func (h *FileHandler) Includes(rel string) bool {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || !pathutil.IsMarkdown(rel) || h.matchesPattern(rel) {
		return false
	}
	if h.root != "" && !strings.HasPrefix(rel, h.root+"/") {
		return false
	}

	parts := strings.Split(rel, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ".") {
			return false
		}
		if i == len(parts)-1 {
			break
		}
		if _, skip := h.ignored[strings.Join(parts[:i+1], "/")]; skip {
			return false
		}
	}
	return true
}

func (h *FileHandler) ReadFile(ctx context.Context, rel string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(h.Abs(rel))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DeleteFile removes the note permanently. A failing post-delete hook is
// logged; the note is already gone, so it does not fail the delete.
func (h *FileHandler) DeleteFile(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs := h.Abs(rel)
	if err := os.Remove(abs); err != nil {
		return err
	}

	if h.postDelete != nil {
		if err := h.postDelete(abs); err != nil {
			h.log.Warn().Err(err).Str("path", rel).Msg("post-delete hook failed")
		}
	}

	return nil
}

func (h *FileHandler) Basename(rel string) string {
	return pathutil.NoteBasename(rel)
}

// Subdirectories lists the visible, non-ignored top-level folders of the
// vault.
func (h *FileHandler) Subdirectories() ([]string, error) {
	entries, err := os.ReadDir(h.vaultDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, skip := h.ignored[e.Name()]; skip {
			continue
		}
		dirs = append(dirs, e.Name())
	}
	return dirs, nil
}
