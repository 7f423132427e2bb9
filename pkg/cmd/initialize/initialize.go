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
package initialize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sweep/internal/config"
	"github.com/Paintersrp/sweep/internal/state"
)

type options struct {
	vault    string
	editor   string
	name     string
	nvimArgs string
}

func NewCmdInit(s *state.State) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"i", "initialize"},
		Short:   "Point a workspace at a vault.",
		Long: heredoc.Doc(`
			Creates or updates a workspace and makes it the current one. Cleaner
			settings of an existing workspace are kept.

			Example:
			  sweep init --vault ~/notes --editor nvim
			  sweep init --vault ~/work-notes --name work --editor obsidian
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, opts)
		},
	}

	cmd.Flags().StringVar(&opts.vault, "vault", "", "Vault directory")
	cmd.Flags().StringVarP(&opts.editor, "editor", "e", "nvim", "Editor used to open notes")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Workspace name (defaults to the current workspace)")
	cmd.Flags().StringVar(&opts.nvimArgs, "nvim-args", "", "Extra arguments passed to nvim")
	_ = cmd.MarkFlagRequired("vault")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, opts options) error {
	if err := config.ValidateEditor(opts.editor); err != nil {
		return err
	}

	vault, err := filepath.Abs(opts.vault)
	if err != nil {
		return fmt.Errorf("resolve vault: %w", err)
	}
	info, err := os.Stat(vault)
	if err != nil {
		return fmt.Errorf("vault %s: %w", vault, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault %s is not a directory", vault)
	}

	name := opts.name
	if name == "" {
		name = s.Config.CurrentWorkspace
	}
	if name == "" {
		name = "default"
	}

	ws := config.NewWorkspace()
	if existing, ok := s.Config.Workspaces[name]; ok && existing != nil {
		copied := *existing
		ws = &copied
	}
	ws.VaultDir = vault
	if ws.Editor == "" || cmd.Flags().Changed("editor") {
		ws.Editor = opts.editor
	}
	if opts.nvimArgs != "" {
		ws.NvimArgs = opts.nvimArgs
	}

	if err := s.Config.AddWorkspace(name, ws, true); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Workspace %q now points at %s\n", name, vault)
	return nil
}
