package pick

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sweep/internal/cleaner"
	"github.com/Paintersrp/sweep/internal/fzf"
	"github.com/Paintersrp/sweep/internal/state"
	cmdpkg "github.com/Paintersrp/sweep/pkg/cmd"
)

type picker interface {
	PickOne(query string) (cleaner.Candidate, error)
	PickMany(query string) ([]cleaner.Candidate, error)
}

// newPicker is swapped out in tests.
var newPicker = func(s *cleaner.Session, reader fzf.Reader, cmd *cobra.Command) picker {
	p := fzf.NewPicker(cmd.Context(), reader, s.Candidates(), s.Basename)
	p.Header = "tab: mark  enter: confirm  esc: cancel"
	return p
}

func NewCmdPick(s *state.State) *cobra.Command {
	var (
		open  bool
		yes   bool
		query string
	)

	cmd := &cobra.Command{
		Use:     "pick",
		Aliases: []string{"p"},
		Short:   "Fuzzy find blank notes to delete or open.",
		Long: heredoc.Doc(`
			Scans the vault and opens a fuzzy finder over the blank notes, with a
			rendered preview of each one. Mark notes with tab and press enter to
			delete them as a batch after a confirmation.

			With --open a single note is picked and opened in your editor instead.

			Examples:
			  sweep pick
			  sweep pick --open --query journal
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := s.NewStore(ctx, state.StoreOptions{})
			if err != nil {
				return err
			}

			wf, err := s.Workflow(store, cleaner.NotifyFunc(func(msg string) {
				s.Logger.Info().Msg(msg)
			}), nil)
			if err != nil {
				return err
			}
			defer wf.Dispose()

			session := wf.NewSession()
			if _, err := cmdpkg.ScanWithProgress(ctx, cmd.ErrOrStderr(), session); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			if session.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No blank notes found in your vault.")
				return nil
			}

			p := newPicker(session, store, cmd)
			if open {
				c, err := p.PickOne(query)
				if errors.Is(err, fzf.ErrAbort) {
					return nil
				}
				if err != nil {
					return err
				}
				return session.OpenInPlace(c.Path)
			}

			picked, err := p.PickMany(query)
			if errors.Is(err, fzf.ErrAbort) {
				return nil
			}
			if err != nil {
				return err
			}
			if len(picked) == 0 {
				return nil
			}

			for _, c := range picked {
				if err := session.Toggle(c.Path); err != nil {
					return err
				}
			}

			prompt := fmt.Sprintf("Delete %d selected notes?", session.SelectedCount())
			if err := cmdpkg.Confirm(prompt, yes); err != nil {
				return err
			}

			return cmdpkg.ReportBatch(cmd.OutOrStdout(), session.DeleteSelected(ctx))
		},
	}

	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the picked note instead of deleting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the delete confirmation")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Initial finder query")

	return cmd
}
