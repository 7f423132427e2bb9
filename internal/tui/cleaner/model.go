// Package cleaner is the full-screen review of blank notes: it drives a scan
// one batch per message, then lets the user select, open and delete notes.
package cleaner

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/Paintersrp/sweep/internal/cache"
	"github.com/Paintersrp/sweep/internal/cleaner"
	"github.com/Paintersrp/sweep/internal/constants"
	"github.com/Paintersrp/sweep/internal/fzf"
	"github.com/Paintersrp/sweep/internal/state"
)

// Notices collects the session's transient messages; the newest one is shown
// in the status line.
type Notices struct {
	messages []string
}

func (n *Notices) Notify(message string) {
	n.messages = append(n.messages, message)
}

func (n *Notices) last() string {
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

type Deps struct {
	Workflow *cleaner.Workflow
	// Notices must be the notifier the workflow was built with.
	Notices *Notices
	Opener  *ExecOpener
	Reader  fzf.Reader
	Watcher *state.VaultWatcher
}

type Model struct {
	ctx     context.Context
	session *cleaner.Session
	scanner *cleaner.Scanner
	notices *Notices
	opener  *ExecOpener
	reader  fzf.Reader
	watcher *state.VaultWatcher

	keys keyMap
	help help.Model

	visible    []int
	cursor     int
	filter     string
	filtering  bool
	confirming bool
	deletedAny bool
	stale      bool
	status     string
	noticeSeen int

	showPreview bool
	previews    *cache.LRU[string, string]

	width  int
	height int
}

type scanStartMsg struct{}

type scanStepMsg struct{}

type editorClosedMsg struct {
	pending *pendingLaunch
	err     error
}

func NewModel(ctx context.Context, deps Deps) *Model {
	notices := deps.Notices
	if notices == nil {
		notices = &Notices{}
	}

	return &Model{
		ctx:      ctx,
		session:  deps.Workflow.NewSession(),
		notices:  notices,
		opener:   deps.Opener,
		reader:   deps.Reader,
		watcher:  deps.Watcher,
		keys:     newKeyMap(),
		help:     help.New(),
		previews: cache.NewLRU[string, string](constants.PreviewCacheSize),
	}
}

// Session exposes the review state, mainly for callers that report on it
// after the program exits.
func (m *Model) Session() *cleaner.Session {
	return m.session
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{func() tea.Msg { return scanStartMsg{} }}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	return tea.Batch(cmds...)
}

func step() tea.Msg { return scanStepMsg{} }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case scanStartMsg:
		return m, m.beginScan()

	case scanStepMsg:
		if m.scanner == nil {
			return m, nil
		}
		_, err := m.scanner.Step(m.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			m.status = fmt.Sprintf("Scan failed: %v", err)
		}
		if !m.scanner.Finished() {
			return m, step
		}
		m.scanner = nil
		m.refilter()
		m.refreshPreview()
		return m, nil

	case editorClosedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Editor exited with error: %v", msg.err)
		} else if err := m.opener.finished(msg.pending); err != nil {
			m.status = fmt.Sprintf("post-open hook failed: %v", err)
		}
		return m, nil

	case state.VaultNoteChangedMsg:
		if _, listed := m.session.Candidate(msg.Path); listed || !msg.Removed {
			m.stale = true
		}
		return m, m.watcher.Start()

	case state.VaultWatcherErrMsg:
		m.status = fmt.Sprintf("Watcher error: %v", msg.Err)
		return m, m.watcher.Start()

	case tea.KeyMsg:
		if m.filtering {
			return m, m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) beginScan() tea.Cmd {
	sc, err := m.session.BeginScan(m.ctx)
	if err != nil {
		m.status = fmt.Sprintf("Scan failed: %v", err)
		return nil
	}
	m.scanner = sc
	m.cursor = 0
	m.stale = false
	m.confirming = false
	m.deletedAny = false
	m.previews = cache.NewLRU[string, string](constants.PreviewCacheSize)
	if sc.Finished() {
		m.scanner = nil
		m.refilter()
		return nil
	}
	return step
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming && msg.Type != tea.KeyCtrlC {
		m.confirming = false
		if key.Matches(msg, m.keys.deleteSelected) {
			m.deleteSelected()
		} else {
			m.status = "Canceled batch delete."
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.quit) {
		if msg.Type == tea.KeyEsc && m.filter != "" {
			m.filter = ""
			m.refilter()
			return m, nil
		}
		return m, tea.Quit
	}

	if m.session.State() == cleaner.StateScanning {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.rescan):
		return m, m.beginScan()
	case key.Matches(msg, m.keys.up):
		m.move(-1)
	case key.Matches(msg, m.keys.down):
		m.move(1)
	case key.Matches(msg, m.keys.toggle):
		if path, ok := m.current(); ok {
			m.toggle(path)
		}
	case key.Matches(msg, m.keys.selectAll):
		m.session.ToggleAll()
	case key.Matches(msg, m.keys.deleteOne):
		if path, ok := m.current(); ok {
			if err := m.session.DeleteOne(m.ctx, path); err == nil {
				m.deletedAny = true
				m.previews.Remove(path)
				m.refilter()
				m.refreshPreview()
			}
			m.syncNotice()
		}
	case key.Matches(msg, m.keys.deleteSelected):
		if m.session.SelectedCount() > 0 && m.session.State() == cleaner.StateReviewing {
			m.confirming = true
		}
	case key.Matches(msg, m.keys.open), key.Matches(msg, m.keys.openNewView):
		return m, m.open(key.Matches(msg, m.keys.openNewView))
	case key.Matches(msg, m.keys.preview):
		m.showPreview = !m.showPreview
		m.refreshPreview()
	case key.Matches(msg, m.keys.filter):
		m.filtering = true
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
	case tea.KeyBackspace:
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filter += string(msg.Runes)
	case tea.KeyCtrlC:
		return tea.Quit
	default:
		return nil
	}
	m.refilter()
	m.refreshPreview()
	return nil
}

func (m *Model) deleteSelected() {
	res := m.session.DeleteSelected(m.ctx)
	if res.Deleted() > 0 {
		m.deletedAny = true
	}
	for _, item := range res.Items {
		if item.Outcome == cleaner.Deleted {
			m.previews.Remove(item.Path)
		}
	}
	m.syncNotice()
	if n := res.Failed(); n > 0 {
		m.status = fmt.Sprintf("Deleted %d files, %d failed and stay selected", res.Deleted(), n)
	}
	m.refilter()
	m.refreshPreview()
}

func (m *Model) toggle(path string) {
	if err := m.session.Toggle(path); err != nil {
		m.status = fmt.Sprintf("Failed to select %s: %v", path, err)
	}
}

func (m *Model) open(newView bool) tea.Cmd {
	path, ok := m.current()
	if !ok {
		return nil
	}

	var err error
	if newView {
		err = m.session.Open(path)
	} else {
		err = m.session.OpenInPlace(path)
	}
	if err != nil {
		m.status = fmt.Sprintf("Failed to open %s: %v", path, err)
		return nil
	}

	pending := m.opener.take()
	if pending == nil {
		m.status = fmt.Sprintf("Opened %s", path)
		return nil
	}

	return tea.ExecProcess(pending.launch.Cmd, func(err error) tea.Msg {
		return editorClosedMsg{pending: pending, err: err}
	})
}

// syncNotice surfaces the newest notice the session produced since the last
// call.
func (m *Model) syncNotice() {
	if len(m.notices.messages) != m.noticeSeen {
		m.noticeSeen = len(m.notices.messages)
		m.status = m.notices.last()
	}
}

func (m *Model) current() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return "", false
	}
	cands := m.session.Candidates()
	return cands[m.visible[m.cursor]].Path, true
}

func (m *Model) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	m.refreshPreview()
}

// candidateSource adapts the candidate list for fuzzy matching on title and
// path.
type candidateSource struct {
	cands    []cleaner.Candidate
	basename func(string) string
}

func (s candidateSource) String(i int) string {
	c := s.cands[i]
	return c.DisplayTitle(s.basename(c.Path)) + " " + c.Path
}

func (s candidateSource) Len() int { return len(s.cands) }

// refilter recomputes which candidates are shown. The filter only changes
// the display; selection and batch deletes still see every candidate.
func (m *Model) refilter() {
	cands := m.session.Candidates()

	m.visible = m.visible[:0]
	if m.filter == "" {
		for i := range cands {
			m.visible = append(m.visible, i)
		}
	} else {
		for _, match := range fuzzy.FindFrom(m.filter, candidateSource{cands: cands, basename: m.session.Basename}) {
			m.visible = append(m.visible, match.Index)
		}
	}

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refreshPreview() {
	if !m.showPreview || m.reader == nil {
		return
	}
	path, ok := m.current()
	if !ok {
		return
	}
	if _, cached := m.previews.Get(path); cached {
		return
	}

	content, err := m.reader.ReadFile(m.ctx, path)
	if err != nil {
		m.previews.Put(path, fmt.Sprintf("Error reading file: %v", err))
		return
	}

	rendered, err := fzf.RenderMarkdown(content, m.previewWidth())
	if err != nil {
		rendered = "Error rendering markdown"
	}
	m.previews.Put(path, rendered)
}

func (m *Model) previewWidth() int {
	if m.width <= 0 {
		return 0
	}
	return m.width / 2
}

func (m *Model) snapshot() View {
	v := View{
		State:         m.session.State(),
		Candidates:    m.session.Candidates(),
		SelectedCount: m.session.SelectedCount(),
		AllSelected:   m.session.AllSelected(),
		Visible:       m.visible,
		Cursor:        m.cursor,
		Basename:      m.session.Basename,
		DeletedAny:    m.deletedAny,
		Filter:        m.filter,
		Filtering:     m.filtering,
		Confirming:    m.confirming,
		Stale:         m.stale,
		Status:        m.status,
		Help:          m.help.View(m.keys),
	}
	if m.scanner != nil {
		v.Progress = m.scanner.Progress()
	}
	if m.height > 0 {
		v.Height = m.height - 14
		if v.Height < 3 {
			v.Height = 3
		}
	}
	if m.showPreview {
		if path, ok := m.current(); ok {
			v.Preview, _ = m.previews.Get(path)
		}
	}
	return v
}

func (m *Model) View() string {
	return Render(m.snapshot())
}
