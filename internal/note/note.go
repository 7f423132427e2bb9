// Package note launches editors on vault notes and runs workspace hooks
// around those launches and around deletions.
package note

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Paintersrp/sweep/internal/config"
	"github.com/Paintersrp/sweep/internal/pathutil"
)

// Launcher knows how to open a note of one vault. Paths passed to OpenFile are
// vault-relative; every other method takes absolute paths.
type Launcher struct {
	Vault    string
	Editor   string
	NvimArgs string
	Template config.CommandTemplate
	Hooks    config.HookConfig
}

func NewLauncher(ws *config.Workspace) *Launcher {
	return &Launcher{
		Vault:    ws.VaultDir,
		Editor:   strings.TrimSpace(ws.Editor),
		NvimArgs: ws.NvimArgs,
		Template: ws.EditorTemplate,
		Hooks:    ws.Hooks,
	}
}

// EditorLaunch is a prepared, unstarted editor process. Wait reports whether
// the editor needs the terminal until it exits.
type EditorLaunch struct {
	Cmd  *exec.Cmd
	Wait bool
}

type editorCommand struct {
	command string
	args    []string
	wait    bool
	silence bool
}

func (c editorCommand) launch() *EditorLaunch {
	cmd := exec.Command(c.command, c.args...)
	if c.silence {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	}
	return &EditorLaunch{Cmd: cmd, Wait: c.wait}
}

// OpenFile satisfies the cleaner's opener contract. A new view means the
// Obsidian app; otherwise the configured editor.
func (l *Launcher) OpenFile(rel string, newView bool) error {
	if strings.TrimSpace(l.Vault) == "" {
		return fmt.Errorf("opening notes requires a local vault")
	}
	return l.Open(filepath.Join(l.Vault, filepath.FromSlash(rel)), newView)
}

// Launch prepares the editor command for path without starting it.
func (l *Launcher) Launch(path string, obsidian bool) (*EditorLaunch, error) {
	editor := l.Editor
	if obsidian {
		editor = "obsidian"
	}

	base, baseErr := l.editorCommand(path, editor)

	if !obsidian && strings.TrimSpace(l.Template.Exec) != "" {
		wrapped, err := applyEditorTemplate(l.Template, l.placeholders(path, editor, base), base)
		if err != nil {
			return nil, err
		}
		return wrapped.launch(), nil
	}

	if baseErr != nil {
		return nil, baseErr
	}
	return base.launch(), nil
}

// Open runs the pre-open hooks, the editor and then the post-open hooks. A
// waiting editor inherits the terminal.
func (l *Launcher) Open(path string, obsidian bool) error {
	launch, err := l.Launch(path, obsidian)
	if err != nil {
		return err
	}

	if err := l.RunHooks("pre_open", l.Hooks.PreOpen, path); err != nil {
		return fmt.Errorf("pre-open hook failed: %w", err)
	}

	if launch.Wait {
		if launch.Cmd.Stdin == nil {
			launch.Cmd.Stdin = os.Stdin
		}
		if launch.Cmd.Stdout == nil {
			launch.Cmd.Stdout = os.Stdout
		}
		if launch.Cmd.Stderr == nil {
			launch.Cmd.Stderr = os.Stderr
		}
	}

	if err := launch.Cmd.Start(); err != nil {
		return fmt.Errorf("failed to start editor: %w", err)
	}

	if launch.Wait {
		if err := launch.Cmd.Wait(); err != nil {
			return fmt.Errorf("editor exited with error: %w", err)
		}
	} else if err := launch.Cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release editor: %w", err)
	}

	if err := l.RunHooks("post_open", l.Hooks.PostOpen, path); err != nil {
		return fmt.Errorf("post-open hook failed: %w", err)
	}

	return nil
}

func (l *Launcher) editorCommand(path, editor string) (*editorCommand, error) {
	switch editor {
	case "nvim":
		args := strings.Fields(l.NvimArgs)
		return &editorCommand{command: "nvim", args: append(args, path), wait: true}, nil
	case "vim", "nano":
		return &editorCommand{command: editor, args: []string{path}, wait: true}, nil
	case "vscode", "code":
		return vscodeCommand(path)
	case "obsidian":
		return l.obsidianCommand(path)
	case "custom":
		return nil, fmt.Errorf("custom editor requires an editor_template command")
	case "":
		return nil, fmt.Errorf("editor not configured")
	default:
		return nil, fmt.Errorf("unsupported editor: %s", editor)
	}
}

func vscodeCommand(path string) (*editorCommand, error) {
	switch runtime.GOOS {
	case "darwin":
		return &editorCommand{command: "open", args: []string{"-n", "-b", "com.microsoft.VSCode", "--args", path}, silence: true}, nil
	case "linux":
		return &editorCommand{command: "code", args: []string{path}, silence: true}, nil
	case "windows":
		return &editorCommand{command: "cmd", args: []string{"/c", "code", path}, silence: true}, nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// ObsidianURI addresses path inside the vault named after the vault folder.
func (l *Launcher) ObsidianURI(path string) (string, error) {
	vaultName := filepath.Base(pathutil.NormalizePath(l.Vault))
	rel, err := pathutil.VaultRelative(l.Vault, path)
	if err != nil {
		return "", fmt.Errorf("unable to determine relative path for obsidian: %w", err)
	}
	return fmt.Sprintf("obsidian://open?vault=%s&file=%s", vaultName, rel), nil
}

func (l *Launcher) obsidianCommand(path string) (*editorCommand, error) {
	uri, err := l.ObsidianURI(path)
	if err != nil {
		return nil, err
	}

	switch runtime.GOOS {
	case "darwin":
		return &editorCommand{command: "open", args: []string{uri}, silence: true}, nil
	case "linux":
		return &editorCommand{command: "xdg-open", args: []string{uri}, silence: true}, nil
	case "windows":
		return &editorCommand{command: "cmd", args: []string{"/c", "start", uri}, silence: true}, nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

func applyEditorTemplate(template config.CommandTemplate, p placeholders, base *editorCommand) (*editorCommand, error) {
	execName := strings.TrimSpace(p.expand(template.Exec))
	if execName == "" {
		return nil, fmt.Errorf("editor_template.exec must not be empty")
	}

	var baseArgs []string
	wait, silence := true, false
	if base != nil {
		baseArgs = base.args
		wait, silence = base.wait, base.silence
	}
	if template.Wait != nil {
		wait = *template.Wait
	}
	if template.Silence != nil {
		silence = *template.Silence
	}

	args := make([]string, 0, len(template.Args))
	for _, token := range template.Args {
		if strings.TrimSpace(token) == "{args}" {
			args = append(args, baseArgs...)
			continue
		}
		expanded := p.expand(token)
		expanded = strings.ReplaceAll(expanded, "{args}", strings.Join(baseArgs, " "))
		args = append(args, expanded)
	}

	return &editorCommand{command: execName, args: args, wait: wait, silence: silence}, nil
}
