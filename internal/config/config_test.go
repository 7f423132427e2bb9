package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/sweep/internal/config"
)

func writeConfig(t *testing.T, home string, data map[string]any) {
	t.Helper()

	configPath := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal config data: %v", err)
	}

	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadAcceptsSupportedEditors(t *testing.T) {
	for _, editor := range []string{"nvim", "obsidian", "vscode", "vim", "nano"} {
		t.Run(editor, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, map[string]any{
				"current_workspace": "main",
				"workspaces": map[string]any{
					"main": map[string]any{
						"vaultdir": filepath.Join(home, "vault"),
						"editor":   editor,
					},
				},
			})

			cfg, err := config.Load(home)
			if err != nil {
				t.Fatalf("expected load to succeed for editor %q: %v", editor, err)
			}

			if got := cfg.MustWorkspace().Editor; got != editor {
				t.Fatalf("expected editor %q, got %q", editor, got)
			}
		})
	}
}

func TestLoadRejectsUnsupportedEditor(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"workspaces": map[string]any{
			"main": map[string]any{"editor": "unsupported"},
		},
	})

	if _, err := config.Load(home); err == nil {
		t.Fatal("expected unsupported editor to be rejected")
	}
}

func TestLoadEmptyFileCreatesDefaultWorkspace(t *testing.T) {
	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists: %v", err)
	}

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CurrentWorkspace != "default" {
		t.Fatalf("current workspace = %q, want default", cfg.CurrentWorkspace)
	}

	ws := cfg.MustWorkspace()
	if diff := cmp.Diff([]string{"archive", "trash", "templates"}, ws.Cleaner.IgnoredFolders); diff != "" {
		t.Fatalf("ignored folders mismatch (-want +got):\n%s", diff)
	}
	if ws.Cleaner.DeleteWorkers != 1 {
		t.Fatalf("delete workers = %d, want 1", ws.Cleaner.DeleteWorkers)
	}
	if ws.StartupDelay() != 2*time.Second {
		t.Fatalf("startup delay = %v, want 2s", ws.StartupDelay())
	}

	var initErr *config.ConfigInitError
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation to fail without a vault")
	} else if !errors.As(err, &initErr) {
		t.Fatalf("err = %T, want *ConfigInitError", err)
	} else if initErr.Workspace != "default" {
		t.Fatalf("workspace = %q, want default", initErr.Workspace)
	}
}

func TestSaveRoundTripsCleanerSettings(t *testing.T) {
	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists: %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ws := config.NewWorkspace()
	ws.VaultDir = filepath.Join(home, "vault")
	ws.Editor = "nvim"
	if err := cfg.AddWorkspace("notes", ws, true); err != nil {
		t.Fatalf("AddWorkspace: %v", err)
	}

	for key, value := range map[string]string{
		"debug-output":     "true",
		"run-at-startup":   "true",
		"journal-template": "## Gratitude\n- ",
		"delete-workers":   "4",
		"startup-delay":    "500ms",
	} {
		if err := cfg.SetCleanerValue(key, value); err != nil {
			t.Fatalf("SetCleanerValue(%s): %v", key, err)
		}
	}

	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CurrentWorkspace != "notes" {
		t.Fatalf("current workspace = %q, want notes", reloaded.CurrentWorkspace)
	}

	got := reloaded.MustWorkspace().Cleaner
	want := config.CleanerConfig{
		DebugOutput:     true,
		RunAtStartup:    true,
		JournalTemplate: "## Gratitude\n- ",
		IgnoredFolders:  []string{"archive", "trash", "templates"},
		DeleteWorkers:   4,
		StartupDelay:    "500ms",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cleaner config mismatch (-want +got):\n%s", diff)
	}
	if err := reloaded.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSetCleanerValueRejectsBadInput(t *testing.T) {
	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists: %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cases := map[string]string{
		"debug-output":   "maybe",
		"delete-workers": "0",
		"startup-delay":  "soon",
		"no-such-key":    "x",
	}
	for key, value := range cases {
		if err := cfg.SetCleanerValue(key, value); err == nil {
			t.Fatalf("expected %s=%q to be rejected", key, value)
		}
	}
}

func TestJournalTemplatePrefersInlineText(t *testing.T) {
	vault := t.TempDir()
	if err := os.WriteFile(filepath.Join(vault, "tpl.md"), []byte("From file"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	ws := config.NewWorkspace()
	ws.VaultDir = vault
	ws.Cleaner.TemplateFile = "tpl.md"

	got, err := ws.JournalTemplate()
	if err != nil || got != "From file" {
		t.Fatalf("JournalTemplate() = %q, %v; want file contents", got, err)
	}

	ws.Cleaner.JournalTemplate = "Inline"
	if got, _ := ws.JournalTemplate(); got != "Inline" {
		t.Fatalf("JournalTemplate() = %q, want inline text", got)
	}

	ws.Cleaner.JournalTemplate = ""
	ws.Cleaner.TemplateFile = "missing.md"
	if _, err := ws.JournalTemplate(); err == nil {
		t.Fatal("expected missing template file to error")
	}
}

func TestValidateWorkspaceAcceptsRemoteOnly(t *testing.T) {
	ws := config.NewWorkspace()
	if err := config.ValidateWorkspace("notes", ws); err == nil {
		t.Fatal("expected a workspace without vault or bucket to fail")
	}

	ws.Remote = config.RemoteConfig{Bucket: "notes", Prefix: "vault"}
	if err := config.ValidateWorkspace("notes", ws); err != nil {
		t.Fatalf("ValidateWorkspace: %v", err)
	}

	var initErr *config.ConfigInitError
	if err := config.ValidateWorkspace("empty", nil); !errors.As(err, &initErr) || initErr.Workspace != "empty" {
		t.Fatalf("err = %v, want *ConfigInitError for workspace empty", err)
	}
}
