package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sweep/internal/blank"
	"github.com/Paintersrp/sweep/internal/cleaner"
	"github.com/Paintersrp/sweep/internal/handler"
	"github.com/Paintersrp/sweep/internal/state"
)

func NewCmdWatch(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Watch the vault and report notes that are left blank.",
		Long: heredoc.Doc(`
			Runs in the foreground and reports every note that is blank after it
			is created or written. When run_at_startup is set, a full scan runs
			once after startup_delay.

			Stop with ctrl+c.

			Example:
			  sweep watch
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(ctx, s, cmd.OutOrStdout())
		},
	}

	return cmd
}

// reporter serialises report lines from the startup scan and the watcher.
type reporter struct {
	mu  sync.Mutex
	out io.Writer
}

func (r *reporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// Run hosts the workflow until ctx is done.
func Run(ctx context.Context, s *state.State, out io.Writer) error {
	if s.IsRemote() {
		return errors.New("watch needs a local vault")
	}

	store, err := s.NewStore(ctx, state.StoreOptions{})
	if err != nil {
		return err
	}
	fh, ok := store.(*handler.FileHandler)
	if !ok {
		return fmt.Errorf("watch needs a local vault, got %T", store)
	}

	log := s.Logger.With().Str("component", "watch").Logger()
	wf, err := s.Workflow(store, cleaner.NotifyFunc(func(msg string) {
		log.Info().Msg(msg)
	}), nil)
	if err != nil {
		return err
	}
	defer wf.Dispose()

	r := &reporter{out: out}
	template := wf.Settings().JournalTemplate

	delay := s.Workspace.StartupDelay()
	if wf.OnStartup(delay, func(session *cleaner.Session) {
		p, err := session.Scan(ctx, nil)
		if err != nil {
			log.Error().Err(err).Msg("startup scan failed")
			return
		}
		log.Info().Int("files", p.Total).Int("blank", p.Blank).Msg("startup scan finished")
		for _, c := range session.Candidates() {
			r.printf("blank: %s (%s)\n", c.DisplayTitle(session.Basename(c.Path)), c.Path)
		}
	}) {
		log.Debug().Dur("delay", delay).Msg("startup scan scheduled")
	}

	watcher, err := state.NewVaultWatcher(s.Vault, s.Workspace.Cleaner.IgnoredFolders)
	if err != nil {
		return fmt.Errorf("watch vault: %w", err)
	}
	defer watcher.Close()

	log.Info().Str("vault", s.Vault).Msg("watching")
	watcher.Run(ctx, func(msg state.VaultNoteChangedMsg) {
		if msg.Removed || !fh.Includes(msg.Path) {
			return
		}
		summary, isBlank, err := classify(ctx, fh, template, msg.Path)
		if err != nil {
			log.Debug().Err(err).Str("path", msg.Path).Msg("skip unreadable note")
			return
		}
		if isBlank {
			log.Debug().Str("path", msg.Path).Int("length", summary.ContentLength).Msg("blank note")
			title := summary.Title
			if title == "" {
				title = fh.Basename(msg.Path)
			}
			r.printf("blank: %s (%s)\n", title, msg.Path)
		}
	}, func(err error) {
		log.Warn().Err(err).Msg("watcher error")
	})

	return nil
}

func classify(ctx context.Context, store cleaner.Store, template, path string) (blank.Summary, bool, error) {
	content, err := store.ReadFile(ctx, path)
	if err != nil {
		return blank.Summary{}, false, err
	}
	summary, isBlank := blank.Classify(content, template, store.Basename(path))
	return summary, isBlank, nil
}
