package cleaner

import (
	"path/filepath"

	"github.com/Paintersrp/sweep/internal/note"
)

// ExecOpener opens notes for the review screen. Editors that need the
// terminal are parked in pending so the model can hand them to
// tea.ExecProcess; everything else starts right away.
type ExecOpener struct {
	launcher *note.Launcher
	pending  *pendingLaunch
}

type pendingLaunch struct {
	launch *note.EditorLaunch
	path   string
}

func NewExecOpener(launcher *note.Launcher) *ExecOpener {
	return &ExecOpener{launcher: launcher}
}

func (o *ExecOpener) OpenFile(rel string, newView bool) error {
	if newView || o.launcher.Vault == "" {
		return o.launcher.OpenFile(rel, newView)
	}

	abs := filepath.Join(o.launcher.Vault, filepath.FromSlash(rel))
	launch, err := o.launcher.Launch(abs, false)
	if err != nil {
		return err
	}
	if !launch.Wait {
		return o.launcher.OpenFile(rel, false)
	}

	if err := o.launcher.RunHooks("pre_open", o.launcher.Hooks.PreOpen, abs); err != nil {
		return err
	}
	o.pending = &pendingLaunch{launch: launch, path: abs}
	return nil
}

// take hands over the parked launch, if any.
func (o *ExecOpener) take() *pendingLaunch {
	if o == nil {
		return nil
	}
	p := o.pending
	o.pending = nil
	return p
}

func (o *ExecOpener) finished(p *pendingLaunch) error {
	return o.launcher.RunHooks("post_open", o.launcher.Hooks.PostOpen, p.path)
}
