package cleaner

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// memStore is an in-memory Store. Paths listed in readErr or deleteErr fail
// with the given error.
type memStore struct {
	mu        sync.Mutex
	order     []string
	files     map[string]string
	readErr   map[string]error
	deleteErr map[string]error
	listErr   error
	deleted   []string
}

func newMemStore() *memStore {
	return &memStore{
		files:     make(map[string]string),
		readErr:   make(map[string]error),
		deleteErr: make(map[string]error),
	}
}

func (m *memStore) add(p, content string) *memStore {
	m.order = append(m.order, p)
	m.files[p] = content
	return m
}

func (m *memStore) ListMarkdownFiles(context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]string(nil), m.order...), nil
}

func (m *memStore) ReadFile(_ context.Context, p string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readErr[p]; err != nil {
		return "", err
	}
	content, ok := m.files[p]
	if !ok {
		return "", fs.ErrNotExist
	}
	return content, nil
}

func (m *memStore) DeleteFile(_ context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[p]; err != nil {
		return err
	}
	if _, ok := m.files[p]; !ok {
		return fs.ErrNotExist
	}
	delete(m.files, p)
	m.deleted = append(m.deleted, p)
	return nil
}

func (m *memStore) Basename(p string) string {
	return strings.TrimSuffix(path.Base(p), ".md")
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

type recordingOpener struct {
	path    string
	newView bool
	err     error
}

func (o *recordingOpener) OpenFile(p string, newView bool) error {
	o.path = p
	o.newView = newView
	return o.err
}

var errDenied = errors.New("permission denied")

func newTestSession(t *testing.T, store *memStore, opts Options) (*Session, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return NewSession(store, n, &recordingOpener{}, zerolog.Nop(), opts), n
}

func scanned(t *testing.T, store *memStore, opts Options) (*Session, *recordingNotifier) {
	t.Helper()
	s, n := newTestSession(t, store, opts)
	if _, err := s.Scan(context.Background(), nil); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	return s, n
}

func assertConsistent(t *testing.T, s *Session) {
	t.Helper()
	if !s.Consistent() {
		t.Fatalf("session inconsistent: selectedCount=%d recount=%d len=%d", s.SelectedCount(), s.Recount(), s.Len())
	}
}
