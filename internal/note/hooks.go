package note

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/sweep/internal/config"
	"github.com/Paintersrp/sweep/internal/pathutil"
)

type placeholders struct {
	File     string
	Vault    string
	Relative string
	Filename string
	Editor   string
	BaseCmd  string
}

func (l *Launcher) placeholders(path, editor string, base *editorCommand) placeholders {
	relative, err := pathutil.VaultRelative(l.Vault, path)
	if err != nil {
		relative = path
	}

	p := placeholders{
		File:     path,
		Vault:    l.Vault,
		Relative: relative,
		Filename: filepath.Base(path),
		Editor:   editor,
		BaseCmd:  editor,
	}
	if base != nil && base.command != "" {
		p.BaseCmd = base.command
	}
	return p
}

func (p placeholders) expand(value string) string {
	return strings.NewReplacer(
		"{file}", p.File,
		"{vault}", p.Vault,
		"{relative}", p.Relative,
		"{filename}", p.Filename,
		"{cmd}", p.BaseCmd,
		"{editor}", p.Editor,
	).Replace(value)
}

// PostDelete runs the post_delete hooks for a note that was just removed.
func (l *Launcher) PostDelete(path string) error {
	return l.RunHooks("post_delete", l.Hooks.PostDelete, path)
}

// RunHooks runs each command in order. Commands wait for completion unless
// their template says otherwise; a failure stops the remaining commands.
func (l *Launcher) RunHooks(phase string, commands []config.CommandTemplate, path string) error {
	if len(commands) == 0 {
		return nil
	}

	p := l.placeholders(path, l.Editor, nil)
	for _, command := range commands {
		cmd, wait := buildHookCommand(command, p)
		if cmd == nil {
			continue
		}
		name := cmd.Args[0]

		if err := cmd.Start(); err != nil {
			return fmt.Errorf("%s hook %q failed to start: %w", phase, name, err)
		}

		if wait {
			if err := cmd.Wait(); err != nil {
				return fmt.Errorf("%s hook %q failed: %w", phase, name, err)
			}
			continue
		}

		if err := cmd.Process.Release(); err != nil {
			return fmt.Errorf("%s hook %q release failed: %w", phase, name, err)
		}
	}

	return nil
}

func buildHookCommand(template config.CommandTemplate, p placeholders) (*exec.Cmd, bool) {
	execName := strings.TrimSpace(p.expand(template.Exec))
	if execName == "" {
		return nil, false
	}

	args := make([]string, 0, len(template.Args))
	for _, arg := range template.Args {
		args = append(args, p.expand(arg))
	}

	cmd := exec.Command(execName, args...)
	if template.Silence != nil && *template.Silence {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	}

	wait := true
	if template.Wait != nil {
		wait = *template.Wait
	}

	return cmd, wait
}
