package state

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/sweep/internal/pathutil"
)

// VaultNoteChangedMsg carries the vault-relative path of a note that was
// created, written, removed or renamed.
type VaultNoteChangedMsg struct {
	Path    string
	Removed bool
}

type VaultWatcherErrMsg struct {
	Err error
}

type VaultWatcher struct {
	watcher *fsnotify.Watcher
	vault   string
	ignored map[string]struct{}
	done    chan struct{}
	once    sync.Once
	onClose func()
}

// NewVaultWatcher watches every folder of vault except dot folders and the
// given top-level folders.
func NewVaultWatcher(vault string, ignoredFolders []string) (*VaultWatcher, error) {
	normalizedVault := pathutil.NormalizePath(vault)
	if normalizedVault == "" {
		return nil, errors.New("vault directory cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &VaultWatcher{
		watcher: w,
		vault:   normalizedVault,
		ignored: make(map[string]struct{}, len(ignoredFolders)),
		done:    make(chan struct{}),
	}
	for _, folder := range ignoredFolders {
		watcher.ignored[strings.Trim(filepath.ToSlash(folder), "/")] = struct{}{}
	}

	if err := watcher.addRecursive(normalizedVault); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// next blocks until a relevant note event, a watcher error or shutdown. ok is
// false once the watcher is closed.
func (w *VaultWatcher) next() (msg VaultNoteChangedMsg, ok bool, err error) {
	for {
		select {
		case <-w.done:
			return msg, false, nil
		case event, open := <-w.watcher.Events:
			if !open {
				return msg, false, nil
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
					continue
				}
			}

			rel, relevant := w.relevant(event)
			if !relevant {
				continue
			}

			removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			return VaultNoteChangedMsg{Path: rel, Removed: removed}, true, nil
		case err, open := <-w.watcher.Errors:
			if !open {
				return msg, false, nil
			}
			if err != nil {
				return msg, true, err
			}
		}
	}
}

// Start returns a command that yields the next change as a tea message.
// Callers re-issue it after each message.
func (w *VaultWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		msg, ok, err := w.next()
		if !ok {
			return nil
		}
		if err != nil {
			return VaultWatcherErrMsg{Err: err}
		}
		return msg
	}
}

// Run delivers changes to fn until ctx is done or the watcher closes.
// Watcher errors go to onErr when it is set.
func (w *VaultWatcher) Run(ctx context.Context, fn func(VaultNoteChangedMsg), onErr func(error)) {
	go func() {
		select {
		case <-ctx.Done():
			_ = w.Close()
		case <-w.done:
		}
	}()

	for {
		msg, ok, err := w.next()
		if !ok {
			return
		}
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			continue
		}
		fn(msg)
	}
}

func (w *VaultWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		if w.onClose != nil {
			w.onClose()
		}
	})

	return closeErr
}

// OnClose registers a callback that is invoked exactly once when the watcher
// shuts down.
func (w *VaultWatcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.onClose = fn
}

func (w *VaultWatcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != w.vault {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if rel, err := w.relativePath(path); err == nil {
				if _, skip := w.ignored[rel]; skip {
					return filepath.SkipDir
				}
			}
		}

		return w.watcher.Add(path)
	})
}

func (w *VaultWatcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}

	rel, err := w.relativePath(event.Name)
	if err != nil || rel == "" {
		return "", false
	}

	if strings.HasPrefix(filepath.Base(rel), ".") || !pathutil.IsMarkdown(rel) {
		return "", false
	}

	return rel, true
}

func (w *VaultWatcher) relativePath(path string) (string, error) {
	rel, err := pathutil.VaultRelative(w.vault, pathutil.NormalizePath(path))
	if err != nil {
		return "", err
	}

	if rel == "." || rel == "" || strings.HasPrefix(rel, "..") {
		return "", nil
	}

	return rel, nil
}
