package settings

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/sweep/internal/config"
	"github.com/Paintersrp/sweep/internal/state"
)

// Prompts are swapped out in tests.
var (
	selectKey = func(keys []string) (string, error) {
		return selection.New("Which setting do you want to change?", keys).RunPrompt()
	}
	readValue = func(key, current string) (string, error) {
		input := textinput.New(fmt.Sprintf("New value for %s:", key))
		input.InitialValue = current
		return input.RunPrompt()
	}
)

func NewCmdSettings(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"s"},
		Short:   "Show or change the blank note settings of the workspace.",
		Long: heredoc.Doc(`
			Without a subcommand, prompts for a setting and its new value.

			Settings:
			  debug-output      log every skipped file and decision
			  run-at-startup    scan once when "sweep watch" starts
			  journal-template  text of a template that counts as blank
			  template-file     file to read the template from when journal-template is empty
			  delete-workers    deletes run in parallel during a batch
			  startup-delay     wait before the startup scan, e.g. 2s
		`),
		Example: "sweep settings set run-at-startup true",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := selectKey(config.CleanerKeys)
			if err != nil {
				return err
			}
			value, err := readValue(key, currentValue(s.Config.MustWorkspace().Cleaner, key))
			if err != nil {
				return err
			}
			return set(cmd.OutOrStdout(), s, key, value)
		},
	}

	cmd.AddCommand(newCmdShow(s), newCmdSet(s))

	return cmd
}

func newCmdShow(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the blank note settings as YAML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd.OutOrStdout(), s.WorkspaceName, s.Config.MustWorkspace().Cleaner)
		},
	}
}

func newCmdSet(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one blank note setting.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.CleanerKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return set(cmd.OutOrStdout(), s, args[0], args[1])
		},
	}
}

func show(w io.Writer, workspace string, c config.CleanerConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# workspace: %s\n%s", workspace, data)
	return nil
}

func set(w io.Writer, s *state.State, key, value string) error {
	if err := s.Config.SetCleanerValue(key, value); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s set to %q\n", key, value)
	return nil
}

func currentValue(c config.CleanerConfig, key string) string {
	switch key {
	case "debug-output":
		return fmt.Sprint(c.DebugOutput)
	case "run-at-startup":
		return fmt.Sprint(c.RunAtStartup)
	case "journal-template":
		return c.JournalTemplate
	case "template-file":
		return c.TemplateFile
	case "delete-workers":
		return fmt.Sprint(c.DeleteWorkers)
	case "startup-delay":
		return c.StartupDelay
	}
	return ""
}
