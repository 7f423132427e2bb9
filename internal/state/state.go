package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Paintersrp/sweep/internal/cleaner"
	"github.com/Paintersrp/sweep/internal/config"
	"github.com/Paintersrp/sweep/internal/constants"
	"github.com/Paintersrp/sweep/internal/handler"
	"github.com/Paintersrp/sweep/internal/logging"
	"github.com/Paintersrp/sweep/internal/note"
	"github.com/Paintersrp/sweep/internal/remote"
)

type Options struct {
	Workspace string
	// Remote overrides the workspace store with an s3://bucket/prefix location.
	Remote string
	Debug  bool
	// LogOutput defaults to stderr.
	LogOutput io.Writer
}

type State struct {
	Config        *config.Config
	Workspace     *config.Workspace
	WorkspaceName string
	Home          string
	Vault         string
	Logger        zerolog.Logger
	Launcher      *note.Launcher
	Debug         bool

	closers []io.Closer
}

// StoreOptions narrow a single run's view of the vault.
type StoreOptions struct {
	Root           string
	ModifiedBefore time.Time
}

func NewState(opts Options) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	return FromConfig(home, cfg, opts)
}

// FromConfig builds a state around an already loaded config.
func FromConfig(home string, cfg *config.Config, opts Options) (*State, error) {
	if opts.Workspace != "" {
		if err := cfg.ActivateWorkspace(opts.Workspace); err != nil {
			return nil, err
		}
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}

	if opts.Remote != "" {
		bucket, prefix, err := remote.ParseURL(opts.Remote)
		if err != nil {
			return nil, err
		}
		// The override is for this run only and must not reach a later Save.
		override := *ws
		override.Remote.Bucket = bucket
		override.Remote.Prefix = prefix
		ws = &override
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	debug := opts.Debug || ws.Cleaner.DebugOutput

	return &State{
		Config:        cfg,
		Workspace:     ws,
		WorkspaceName: cfg.CurrentWorkspace,
		Home:          home,
		Vault:         ws.VaultDir,
		Logger:        logging.New(out, debug).With().Str("workspace", cfg.CurrentWorkspace).Logger(),
		Launcher:      note.NewLauncher(ws),
		Debug:         debug,
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	_ = viper.ReadInConfig()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// LogToFile redirects the logger into the config directory, for commands
// that take over the terminal.
func (s *State) LogToFile() error {
	logger, closer, err := logging.NewFile(config.GetLogPath(s.Home), s.Debug)
	if err != nil {
		return err
	}
	s.Logger = logger.With().Str("workspace", s.WorkspaceName).Logger()
	s.closers = append(s.closers, closer)
	return nil
}

// IsRemote reports whether notes live in a bucket rather than on disk.
func (s *State) IsRemote() bool {
	return s.Workspace.Remote.Enabled()
}

// NewStore opens the workspace's note store.
func (s *State) NewStore(ctx context.Context, opts StoreOptions) (cleaner.Store, error) {
	if err := config.ValidateWorkspace(s.WorkspaceName, s.Workspace); err != nil {
		return nil, err
	}

	c := s.Workspace.Cleaner
	if s.IsRemote() {
		store, err := remote.New(ctx, s.Workspace.Remote, remote.Options{
			IgnoredFolders: c.IgnoredFolders,
			IgnorePatterns: c.IgnorePatterns,
			ModifiedBefore: opts.ModifiedBefore,
			Logger:         s.Logger,
		})
		if err != nil {
			return nil, err
		}
		s.Logger.Debug().Str("store", store.Location()).Msg("using remote store")
		return store, nil
	}

	return handler.NewFileHandler(s.Vault, handler.Options{
		Root:           opts.Root,
		IgnoredFolders: c.IgnoredFolders,
		IgnorePatterns: c.IgnorePatterns,
		ModifiedBefore: opts.ModifiedBefore,
		PostDelete:     s.Launcher.PostDelete,
		Logger:         s.Logger,
	})
}

// Settings resolves the cleaner settings of the active workspace, loading
// the template file when one is configured.
func (s *State) Settings() (cleaner.Settings, error) {
	c := s.Workspace.Cleaner
	tmpl, err := s.Workspace.JournalTemplate()
	if err != nil {
		return cleaner.Settings{}, err
	}

	return cleaner.Settings{
		DebugOutput:     s.Debug,
		RunAtStartup:    c.RunAtStartup,
		JournalTemplate: tmpl,
		DeleteWorkers:   c.DeleteWorkers,
	}, nil
}

// Workflow wires a cleaner workflow to store. A nil notifier drops notices.
func (s *State) Workflow(store cleaner.Store, notifier cleaner.Notifier, opener cleaner.Opener) (*cleaner.Workflow, error) {
	settings, err := s.Settings()
	if err != nil {
		return nil, err
	}
	if opener == nil {
		opener = s.Launcher
	}

	return cleaner.Initialize(settings, cleaner.Deps{
		Store:    store,
		Notifier: notifier,
		Opener:   opener,
		Logger:   s.Logger,
	}), nil
}

func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil

	return errors.Join(errs...)
}
