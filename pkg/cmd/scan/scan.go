package scan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/araddon/dateparse"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sweep/internal/handler"
	"github.com/Paintersrp/sweep/internal/state"
	cmdpkg "github.com/Paintersrp/sweep/pkg/cmd"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

type options struct {
	delete bool
	yes    bool
	copy   bool
	before string
}

func NewCmdScan(s *state.State) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "scan [subdir]",
		Short: "List blank notes without opening the review screen.",
		Long: heredoc.Doc(`
			Scans the vault, or one of its subdirectories, and prints every blank
			note as "title (path)". Progress is written to stderr so the list can
			be piped.

			With --delete every note found is deleted after a confirmation. When
			stdin is not a terminal the confirmation cannot be shown and --yes is
			required.

			Examples:
			  sweep scan
			  sweep scan journal --before "2024-01-01"
			  sweep scan --delete --yes
		`),
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return completeSubdir(s, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.delete, "delete", "d", false, "Delete every blank note found")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the delete confirmation")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy the paths of the blank notes to the clipboard")
	cmd.Flags().StringVar(&opts.before, "before", "", "Only consider notes last modified before this date")

	return cmd
}

func completeSubdir(s *state.State, args []string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || s.Workspace == nil || s.IsRemote() {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	h, err := handler.NewFileHandler(s.Vault, handler.Options{
		IgnoredFolders: s.Workspace.Cleaner.IgnoredFolders,
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	dirs, err := h.Subdirectories()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return dirs, cobra.ShellCompDirectiveNoFileComp
}

func run(cmd *cobra.Command, s *state.State, args []string, opts options) error {
	storeOpts := state.StoreOptions{}

	if len(args) == 1 {
		if s.IsRemote() {
			return errors.New("a subdirectory can only be scanned in a local vault")
		}
		root, err := cmdpkg.ResolveSubdir(s, args[0])
		if err != nil {
			return err
		}
		storeOpts.Root = root
	}

	if opts.before != "" {
		t, err := dateparse.ParseLocal(opts.before)
		if err != nil {
			return fmt.Errorf("invalid --before date %q: %w", opts.before, err)
		}
		storeOpts.ModifiedBefore = t
	}

	ctx := cmd.Context()
	store, err := s.NewStore(ctx, storeOpts)
	if err != nil {
		return err
	}

	wf, err := s.Workflow(store, nil, nil)
	if err != nil {
		return err
	}
	defer wf.Dispose()

	session := wf.NewSession()
	start := time.Now()
	p, err := cmdpkg.ScanWithProgress(ctx, cmd.ErrOrStderr(), session)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	s.Logger.Debug().
		Int("files", p.Total).
		Int("blank", p.Blank).
		Dur("took", time.Since(start)).
		Msg("scan finished")

	out := cmd.OutOrStdout()
	if session.Len() == 0 {
		fmt.Fprintln(out, "No blank notes found in your vault.")
		return nil
	}
	cmdpkg.PrintCandidates(out, session)

	if opts.copy {
		paths := make([]string, 0, session.Len())
		for _, c := range session.Candidates() {
			paths = append(paths, c.Path)
		}
		if err := writeClipboard(strings.Join(paths, "\n")); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Copied %d paths to the clipboard\n", len(paths))
	}

	if !opts.delete {
		return nil
	}

	prompt := fmt.Sprintf("Delete %d blank notes?", session.Len())
	if err := cmdpkg.Confirm(prompt, opts.yes); err != nil {
		return err
	}

	session.SelectAll(true)
	return cmdpkg.ReportBatch(out, session.DeleteSelected(ctx))
}
