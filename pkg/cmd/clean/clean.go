/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package clean

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sweep/internal/state"
	tui "github.com/Paintersrp/sweep/internal/tui/cleaner"
)

// runProgram is swapped out in tests.
var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

func NewCmdClean(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clean",
		Aliases: []string{"c"},
		Short:   "Review and delete blank notes.",
		Long: heredoc.Doc(`
			Scans the vault for blank notes and opens a review screen where notes
			can be selected, previewed, opened and deleted.

			A note is blank when it holds at most a title line, when every line
			after the title is whitespace, or when it matches the configured
			journal template.

			Keys:
			  space  toggle the current note     a  select or deselect all
			  d      delete the current note     D  delete selected (press twice)
			  enter  open in your editor         o  open in Obsidian
			  p      toggle preview              /  filter
			  r      rescan                      q  quit
		`),
		Example: "sweep clean",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, s)
		},
	}

	return cmd
}

// Run starts the review screen for the active workspace.
func Run(cmd *cobra.Command, s *state.State) error {
	// The screen owns the terminal, so logs go to the config dir.
	if err := s.LogToFile(); err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := s.NewStore(ctx, state.StoreOptions{})
	if err != nil {
		return err
	}

	notices := &tui.Notices{}
	opener := tui.NewExecOpener(s.Launcher)
	wf, err := s.Workflow(store, notices, opener)
	if err != nil {
		return err
	}
	defer wf.Dispose()

	var watcher *state.VaultWatcher
	if !s.IsRemote() {
		watcher, err = state.NewVaultWatcher(s.Vault, s.Workspace.Cleaner.IgnoredFolders)
		if err != nil {
			s.Logger.Warn().Err(err).Msg("vault watcher disabled")
		} else {
			defer watcher.Close()
		}
	}

	m := tui.NewModel(ctx, tui.Deps{
		Workflow: wf,
		Notices:  notices,
		Opener:   opener,
		Reader:   store,
		Watcher:  watcher,
	})

	final, err := runProgram(m)
	if err != nil {
		return fmt.Errorf("review screen: %w", err)
	}

	if fm, ok := final.(*tui.Model); ok {
		session := fm.Session()
		s.Logger.Info().
			Int("remaining", session.Len()).
			Int("selected", session.SelectedCount()).
			Msg("review closed")
	}
	return nil
}
