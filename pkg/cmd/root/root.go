/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/sweep/internal/constants"
	"github.com/Paintersrp/sweep/internal/state"
	"github.com/Paintersrp/sweep/pkg/cmd/clean"
	"github.com/Paintersrp/sweep/pkg/cmd/initialize"
	"github.com/Paintersrp/sweep/pkg/cmd/pick"
	"github.com/Paintersrp/sweep/pkg/cmd/scan"
	"github.com/Paintersrp/sweep/pkg/cmd/settings"
	"github.com/Paintersrp/sweep/pkg/cmd/watch"
)

// LoadFunc builds the state for one invocation from the global flags.
type LoadFunc func(opts state.Options) (*state.State, error)

// NewCmdRoot wires the command tree. The state is filled in by load before
// any command runs, so subcommands only read it inside RunE.
func NewCmdRoot(s *state.State, load LoadFunc) *cobra.Command {
	var opts state.Options

	cmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Find and delete blank notes in a Markdown vault.",
		Long: heredoc.Doc(`
			Finds notes that were created and never written: notes holding only
			a title line, notes whose body is whitespace, and untouched copies of
			your journal template. Review them, open them, or delete them.

			Run without a command to open the review screen.

			  sweep                    review blank notes
			  sweep scan --delete      delete every blank note after a confirmation
			  sweep pick               fuzzy find notes to delete
		`),
		Version:      constants.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Debug = opts.Debug || viper.GetBool("debug")
			loaded, err := load(opts)
			if err != nil {
				return err
			}
			*s = *loaded
			s.Logger.Debug().Str("command", cmd.Name()).Msg("state loaded")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return clean.Run(cmd, s)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.Workspace, "workspace", "w", "", "Workspace to use instead of the current one")
	flags.StringVar(&opts.Remote, "remote", "", "Scan an S3 location (s3://bucket/prefix) instead of the vault")
	flags.BoolVar(&opts.Debug, "debug", false, "Log debug output")
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))

	cmd.AddCommand(
		clean.NewCmdClean(s),
		scan.NewCmdScan(s),
		pick.NewCmdPick(s),
		watch.NewCmdWatch(s),
		settings.NewCmdSettings(s),
		initialize.NewCmdInit(s),
	)

	return cmd
}
