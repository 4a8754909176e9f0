// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/configcmd.go
// Summary: Configuration inspection commands.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/framegrace/tilewm/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	var (
		format string
		color  string
	)
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return encode(cmd.OutOrStdout(), config.System(), format, color)
		},
	}
	show.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	show.Flags().StringVar(&color, "color", "auto", "colorize output: auto, always or never")

	paths := &cobra.Command{
		Use:   "paths",
		Short: "Print where configuration, store and log files live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := GetPaths(config.System())
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), p, "yaml", "never")
		},
	}

	cmd.AddCommand(show, paths)
	return cmd
}
