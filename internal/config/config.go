package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/sweep/internal/constants"
)

type CommandTemplate struct {
	Exec    string   `yaml:"exec"    json:"exec"`
	Args    []string `yaml:"args"    json:"args"`
	Wait    *bool    `yaml:"wait"    json:"wait"`
	Silence *bool    `yaml:"silence" json:"silence"`
}

type HookConfig struct {
	PreOpen    []CommandTemplate `yaml:"pre_open"    json:"pre_open"`
	PostOpen   []CommandTemplate `yaml:"post_open"   json:"post_open"`
	PostDelete []CommandTemplate `yaml:"post_delete" json:"post_delete"`
}

// CleanerConfig holds the blank-note settings of a workspace.
type CleanerConfig struct {
	DebugOutput     bool     `yaml:"debug_output"     json:"debug_output"`
	RunAtStartup    bool     `yaml:"run_at_startup"   json:"run_at_startup"`
	JournalTemplate string   `yaml:"journal_template" json:"journal_template"`
	TemplateFile    string   `yaml:"template_file"    json:"template_file"`
	IgnoredFolders  []string `yaml:"ignored_folders"  json:"ignored_folders"`
	IgnorePatterns  []string `yaml:"ignore_patterns"  json:"ignore_patterns"`
	DeleteWorkers   int      `yaml:"delete_workers"   json:"delete_workers"`
	StartupDelay    string   `yaml:"startup_delay"    json:"startup_delay"`
}

// RemoteConfig points a workspace at an S3 bucket instead of a local vault.
type RemoteConfig struct {
	Bucket          string `yaml:"bucket"            json:"bucket"`
	Prefix          string `yaml:"prefix"            json:"prefix"`
	Region          string `yaml:"region"            json:"region"`
	Endpoint        string `yaml:"endpoint"          json:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"     json:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"        json:"path_style"`
}

func (r RemoteConfig) Enabled() bool {
	return strings.TrimSpace(r.Bucket) != ""
}

type Workspace struct {
	VaultDir       string          `yaml:"vaultdir"        json:"vault_dir"`
	Editor         string          `yaml:"editor"          json:"editor"`
	NvimArgs       string          `yaml:"nvimargs"        json:"nvim_args"`
	EditorTemplate CommandTemplate `yaml:"editor_template" json:"editor_template"`
	Hooks          HookConfig      `yaml:"hooks"           json:"hooks"`
	Cleaner        CleanerConfig   `yaml:"cleaner"         json:"cleaner"`
	Remote         RemoteConfig    `yaml:"remote"          json:"remote"`
}

type Config struct {
	Workspaces       map[string]*Workspace `yaml:"workspaces"        json:"workspaces"`
	CurrentWorkspace string                `yaml:"current_workspace" json:"current_workspace"`

	home   string     `yaml:"-"`
	active *Workspace `yaml:"-"`
}

const defaultWorkspaceName = "default"

var validEditorNames = []string{"nvim", "obsidian", "vscode", "code", "vim", "nano", "custom"}

var ValidEditors = func() map[string]bool {
	editors := make(map[string]bool, len(validEditorNames))
	for _, editor := range validEditorNames {
		editors[editor] = true
	}

	return editors
}()

func ValidateEditor(editor string) error {
	if _, valid := ValidEditors[editor]; valid {
		return nil
	}

	return fmt.Errorf(
		"invalid editor: %q. Please choose from %s.",
		editor,
		validEditorList(),
	)
}

func validEditorList() string {
	quoted := make([]string, len(validEditorNames))
	for i, name := range validEditorNames {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}

	if len(quoted) == 1 {
		return quoted[0]
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

func NewWorkspace() *Workspace {
	ws := &Workspace{}
	ws.ensureDefaults()
	return ws
}

func (ws *Workspace) ensureDefaults() {
	if ws.Cleaner.IgnoredFolders == nil {
		ws.Cleaner.IgnoredFolders = append([]string(nil), constants.DefaultIgnoredFolders...)
	}
	if ws.Cleaner.DeleteWorkers <= 0 {
		ws.Cleaner.DeleteWorkers = 1
	}
	if strings.TrimSpace(ws.Cleaner.StartupDelay) == "" {
		ws.Cleaner.StartupDelay = constants.StartupDelay
	}
}

// StartupDelay parses the configured delay, falling back to the default when
// it is malformed.
func (ws *Workspace) StartupDelay() time.Duration {
	d, err := time.ParseDuration(ws.Cleaner.StartupDelay)
	if err != nil || d < 0 {
		d, _ = time.ParseDuration(constants.StartupDelay)
	}
	return d
}

// JournalTemplate returns the template text used to spot unfilled journal
// notes. Inline text wins; otherwise template_file is read, relative to the
// vault unless absolute. No template at all yields "".
func (ws *Workspace) JournalTemplate() (string, error) {
	if strings.TrimSpace(ws.Cleaner.JournalTemplate) != "" {
		return ws.Cleaner.JournalTemplate, nil
	}

	file := strings.TrimSpace(ws.Cleaner.TemplateFile)
	if file == "" {
		return "", nil
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(ws.VaultDir, file)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read template file: %w", err)
	}
	return string(data), nil
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.home = home

	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}

	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}

	if cfg.CurrentWorkspace == "" {
		if len(cfg.Workspaces) == 0 {
			cfg.Workspaces[defaultWorkspaceName] = NewWorkspace()
			cfg.CurrentWorkspace = defaultWorkspaceName
		} else {
			cfg.CurrentWorkspace = cfg.WorkspaceNames()[0]
		}
	}

	return cfg.setActiveWorkspace(cfg.CurrentWorkspace)
}

func (cfg *Config) setActiveWorkspace(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	ws, ok := cfg.Workspaces[name]
	if !ok {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if ws == nil {
		ws = NewWorkspace()
		cfg.Workspaces[name] = ws
	}

	ws.ensureDefaults()
	cfg.CurrentWorkspace = name
	cfg.active = ws

	syncWorkspaceWithViper(ws)

	return nil
}

// syncWorkspaceWithViper publishes the keys the editor launcher and hooks
// read at run time.
func syncWorkspaceWithViper(ws *Workspace) {
	viper.Set("vaultdir", ws.VaultDir)
	viper.Set("editor", ws.Editor)
	viper.Set("nvimargs", ws.NvimArgs)
	viper.Set("editor_template", ws.EditorTemplate)
	viper.Set("workspace_hooks", ws.Hooks)
	viper.Set("cleaner", ws.Cleaner)
}

func (cfg *Config) ActiveWorkspace() (*Workspace, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}

	if cfg.CurrentWorkspace == "" {
		return nil, fmt.Errorf("no workspace is currently selected")
	}

	if err := cfg.setActiveWorkspace(cfg.CurrentWorkspace); err != nil {
		return nil, err
	}

	return cfg.active, nil
}

func (cfg *Config) MustWorkspace() *Workspace {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		panic(err)
	}
	return ws
}

func (cfg *Config) WorkspaceNames() []string {
	names := make([]string, 0, len(cfg.Workspaces))
	for name := range cfg.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cfg *Config) ActivateWorkspace(name string) error {
	return cfg.setActiveWorkspace(name)
}

// AddWorkspace stores ws under name, optionally making it current, and
// saves. An existing workspace of the same name is replaced.
func (cfg *Config) AddWorkspace(name string, ws *Workspace, makeCurrent bool) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}

	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}
	if ws == nil {
		ws = NewWorkspace()
	}
	ws.ensureDefaults()
	cfg.Workspaces[trimmed] = ws

	if cfg.CurrentWorkspace == "" || makeCurrent || cfg.CurrentWorkspace == trimmed {
		if err := cfg.setActiveWorkspace(trimmed); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) GetConfigPath() string {
	home := cfg.home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return GetConfigPath(home)
}

// CleanerKeys lists the keys accepted by SetCleanerValue.
var CleanerKeys = []string{
	"debug-output",
	"run-at-startup",
	"journal-template",
	"template-file",
	"delete-workers",
	"startup-delay",
}

// SetCleanerValue updates one cleaner setting of the active workspace from
// its string form and saves.
func (cfg *Config) SetCleanerValue(key, value string) error {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	c := &ws.Cleaner
	switch key {
	case "debug-output":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug-output must be true or false: %w", err)
		}
		c.DebugOutput = b
	case "run-at-startup":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("run-at-startup must be true or false: %w", err)
		}
		c.RunAtStartup = b
	case "journal-template":
		c.JournalTemplate = value
	case "template-file":
		c.TemplateFile = strings.TrimSpace(value)
	case "delete-workers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("delete-workers must be a positive integer, got %q", value)
		}
		c.DeleteWorkers = n
	case "startup-delay":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("startup-delay must be a duration such as 2s: %w", err)
		}
		c.StartupDelay = value
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(CleanerKeys, ", "))
	}

	return cfg.Save()
}

func (cfg *Config) Save() error {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return err
		}
	}

	syncWorkspaceWithViper(ws)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return atomic.WriteFile(configPath, bytes.NewReader(data))
}
