package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/sweep/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// GetLogPath is where the review screen writes its log while it owns the
// terminal.
func GetLogPath(homeDir string) string {
	return filepath.Join(homeDir, constants.ConfigDir, constants.LogFile)
}

// EnsureConfigExists creates an empty config file when there is none yet.
func EnsureConfigExists(homeDir string) error {
	configPath := GetConfigPath(homeDir)
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		file.Close()
	} else if err != nil {
		return fmt.Errorf("failed to check config file existence: %w", err)
	}

	return nil
}

// Validate reports whether the active workspace can be scanned.
func (cfg *Config) Validate() error {
	if cfg.CurrentWorkspace == "" {
		return &ConfigInitError{
			Reason: "no current workspace is configured",
			Hint:   constants.AppName + " init --vault <dir>",
		}
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	return ValidateWorkspace(cfg.CurrentWorkspace, ws)
}

// ValidateWorkspace reports whether ws can be scanned: it needs a vault
// directory or a remote bucket.
func ValidateWorkspace(name string, ws *Workspace) error {
	if ws == nil || (strings.TrimSpace(ws.VaultDir) == "" && !ws.Remote.Enabled()) {
		return &ConfigInitError{
			Workspace: name,
			Reason:    "no vaultdir or remote bucket",
			Hint:      constants.AppName + " init --vault <dir>",
		}
	}

	return nil
}
