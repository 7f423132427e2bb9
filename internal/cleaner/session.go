// Package cleaner runs the scan, review and delete workflow over a vault of
// notes. A Session owns the review list and its selection bookkeeping; the
// vault itself, user notices and editors are reached through small interfaces.
package cleaner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the vault the workflow reads from and deletes in.
type Store interface {
	ListMarkdownFiles(ctx context.Context) ([]string, error)
	ReadFile(ctx context.Context, path string) (string, error)
	DeleteFile(ctx context.Context, path string) error
	Basename(path string) string
}

// Notifier shows a short-lived message to the user.
type Notifier interface {
	Notify(message string)
}

// Opener presents a note to the user, either in place or in a new view.
type Opener interface {
	OpenFile(path string, newView bool) error
}

// NotifyFunc adapts a plain function to Notifier.
type NotifyFunc func(message string)

func (f NotifyFunc) Notify(message string) { f(message) }

type discardNotifier struct{}

func (discardNotifier) Notify(string) {}

// State is the phase a review session is in.
type State int

const (
	StateScanning State = iota
	StateReviewing
	StateDeleting
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateReviewing:
		return "reviewing"
	case StateDeleting:
		return "deleting"
	case StateEmpty:
		return "empty"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Candidate is a blank note awaiting a decision.
type Candidate struct {
	Path          string
	Title         string
	ContentLength int
	Selected      bool
}

// DisplayTitle returns the title, or the fallback name when the first line
// of the note was blank.
func (c Candidate) DisplayTitle(fallback string) string {
	if c.Title == "" {
		return fallback
	}
	return c.Title
}

// Options configures a single review session. Template and Debug are read
// once, when the session is created.
type Options struct {
	Template      string
	Debug         bool
	BatchSize     int
	DeleteWorkers int
}

// DefaultBatchSize is how many files a scan reads between progress reports.
const DefaultBatchSize = 10

// Session is the in-memory state of one review. It is not safe for
// concurrent use; all mutation must come from a single goroutine.
type Session struct {
	ID string

	store    Store
	notifier Notifier
	opener   Opener
	log      zerolog.Logger
	opts     Options

	state         State
	candidates    []Candidate
	index         map[string]int
	selectedCount int
	selectAll     bool
}

// NewSession creates a session in the scanning state. A nil notifier discards
// notices; a nil opener makes Open report an error.
func NewSession(store Store, notifier Notifier, opener Opener, log zerolog.Logger, opts Options) *Session {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.DeleteWorkers <= 0 {
		opts.DeleteWorkers = 1
	}

	id := uuid.NewString()
	return &Session{
		ID:       id,
		store:    store,
		notifier: notifier,
		opener:   opener,
		log:      log.With().Str("session", id).Logger(),
		opts:     opts,
		state:    StateScanning,
		index:    make(map[string]int),
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) Template() string { return s.opts.Template }

func (s *Session) Len() int { return len(s.candidates) }

func (s *Session) SelectedCount() int { return s.selectedCount }

// Candidates returns a copy of the review list in scan order.
func (s *Session) Candidates() []Candidate {
	out := make([]Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Candidate looks up a single candidate by path.
func (s *Session) Candidate(path string) (Candidate, bool) {
	i, ok := s.index[path]
	if !ok {
		return Candidate{}, false
	}
	return s.candidates[i], true
}

// Basename returns the store's display name for path.
func (s *Session) Basename(path string) string {
	if s.store == nil {
		return path
	}
	return s.store.Basename(path)
}

// Toggle flips the selection of one candidate.
func (s *Session) Toggle(path string) error {
	i, ok := s.index[path]
	if !ok {
		return fmt.Errorf("toggle %s: %w", path, ErrUnknownCandidate)
	}

	c := &s.candidates[i]
	c.Selected = !c.Selected
	if c.Selected {
		s.selectedCount++
	} else {
		s.selectedCount--
	}
	return nil
}

// SelectAll sets every candidate to state.
func (s *Session) SelectAll(state bool) {
	for i := range s.candidates {
		s.candidates[i].Selected = state
	}
	if state {
		s.selectedCount = len(s.candidates)
	} else {
		s.selectedCount = 0
	}
	s.selectAll = state
}

// ToggleAll flips the select-all control from the last state it applied and
// returns the new state. It does not look at individual selections, so after
// deselecting a single item a second ToggleAll deselects everything.
func (s *Session) ToggleAll() bool {
	s.SelectAll(!s.selectAll)
	return s.selectAll
}

// SelectAllIntent is the state the select-all control last applied.
func (s *Session) SelectAllIntent() bool { return s.selectAll }

// AllSelected reports whether every candidate is selected. An empty list is
// never all-selected.
func (s *Session) AllSelected() bool {
	return len(s.candidates) > 0 && s.selectedCount == len(s.candidates)
}

// Recount counts selected candidates by walking the list.
func (s *Session) Recount() int {
	n := 0
	for _, c := range s.candidates {
		if c.Selected {
			n++
		}
	}
	return n
}

// Consistent reports whether the tracked selection count and the path index
// agree with the list.
func (s *Session) Consistent() bool {
	if s.selectedCount != s.Recount() || len(s.index) != len(s.candidates) {
		return false
	}
	for i, c := range s.candidates {
		if j, ok := s.index[c.Path]; !ok || j != i {
			return false
		}
	}
	return true
}

// Open presents a candidate in a new view.
func (s *Session) Open(path string) error {
	return s.open(path, true)
}

// OpenInPlace presents a candidate in the current view.
func (s *Session) OpenInPlace(path string) error {
	return s.open(path, false)
}

func (s *Session) open(path string, newView bool) error {
	if _, ok := s.index[path]; !ok {
		return fmt.Errorf("open %s: %w", path, ErrUnknownCandidate)
	}
	if s.opener == nil {
		return fmt.Errorf("open %s: no opener configured", path)
	}
	return s.opener.OpenFile(path, newView)
}

func (s *Session) settle() {
	if len(s.candidates) == 0 {
		s.state = StateEmpty
		return
	}
	s.state = StateReviewing
}

func (s *Session) reindex() {
	s.index = make(map[string]int, len(s.candidates))
	for i, c := range s.candidates {
		s.index[c.Path] = i
	}
}
