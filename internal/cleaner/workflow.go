package cleaner

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Settings are the user-facing options of the cleaner.
type Settings struct {
	DebugOutput     bool
	RunAtStartup    bool
	JournalTemplate string
	DeleteWorkers   int
}

// Deps are the collaborators a Workflow hands to every session.
type Deps struct {
	Store    Store
	Notifier Notifier
	Opener   Opener
	Logger   zerolog.Logger
}

// Workflow is the long-lived half of the cleaner: it owns settings and
// collaborators and opens a fresh Session per review.
type Workflow struct {
	settings Settings
	deps     Deps

	mu       sync.Mutex
	startup  *time.Timer
	disposed bool
}

// Initialize prepares a workflow. Call Dispose when the host shuts down.
func Initialize(settings Settings, deps Deps) *Workflow {
	return &Workflow{settings: settings, deps: deps}
}

func (w *Workflow) Settings() Settings { return w.settings }

// NewSession opens a review session with the current template and debug flag.
func (w *Workflow) NewSession() *Session {
	return NewSession(w.deps.Store, w.deps.Notifier, w.deps.Opener, w.deps.Logger, Options{
		Template:      w.settings.JournalTemplate,
		Debug:         w.settings.DebugOutput,
		DeleteWorkers: w.settings.DeleteWorkers,
	})
}

// OnStartup schedules fn to run once, delay after the call, with a new
// session. It does nothing unless RunAtStartup is set, and it reports whether
// a run was scheduled. A second call replaces a pending run.
func (w *Workflow) OnStartup(delay time.Duration, fn func(*Session)) bool {
	if !w.settings.RunAtStartup || fn == nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return false
	}
	if w.startup != nil {
		w.startup.Stop()
	}
	w.startup = time.AfterFunc(delay, func() {
		fn(w.NewSession())
	})
	w.deps.Logger.Debug().Dur("delay", delay).Msg("startup scan scheduled")
	return true
}

// Dispose cancels a pending startup run. The workflow cannot schedule again
// afterwards.
func (w *Workflow) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.startup != nil {
		w.startup.Stop()
		w.startup = nil
	}
	w.disposed = true
}
