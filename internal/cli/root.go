// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/root.go
// Summary: Root cobra command and persistent flags.
// Usage: cmd/tilewm calls Execute with a signal-aware context.

// Package cli implements the tilewm command line.
//
// Commands:
//   - sim: interactive terminal simulator driving the engine
//   - replay: run scenario files and report the resulting trees
//   - dump: print the last stored tree snapshot or remembered windows
//   - config: show the configuration and where files live
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/framegrace/tilewm/config"
	"github.com/framegrace/tilewm/internal/logging"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the values shown by --version. main sets them from
// ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "tilewm",
		Short:        "Tiling window-manager core with a simulated compositor",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.UseFile(configPath)
				if err := config.Reload(); err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			level := logging.ParseLevel(config.System().GetString("", "log_level", "info"))
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(cmd.ErrOrStderr(), level)))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("tilewm %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: user config dir)")

	root.AddCommand(newSimCmd())
	root.AddCommand(newReplayCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// Execute runs the command line.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
