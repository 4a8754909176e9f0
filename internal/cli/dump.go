// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/dump.go
// Summary: Prints the stored tree snapshot or remembered windows.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framegrace/tilewm/config"
	"github.com/framegrace/tilewm/store"
)

func newDumpCmd() *cobra.Command {
	var (
		format  string
		color   string
		windows bool
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the last stored tree or the remembered window modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(config.System())
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			if windows {
				recs, err := st.Windows()
				if err != nil {
					return err
				}
				if format == "text" {
					format = "yaml"
				}
				return encode(out, recs, format, color)
			}

			snap, err := st.Latest()
			if errors.Is(err, store.ErrNoSnapshot) {
				return fmt.Errorf("nothing stored yet, run `tilewm sim` first")
			}
			if err != nil {
				return err
			}
			if format == "text" {
				fmt.Fprintf(out, "# %s (%s)\n", snap.TakenAt.Format("2006-01-02 15:04:05"), snap.Hash[:8])
				return encode(out, snap.Tree, format, color)
			}
			return encode(out, snap, format, color)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, yaml or json")
	cmd.Flags().StringVar(&color, "color", "auto", "colorize output: auto, always or never")
	cmd.Flags().BoolVar(&windows, "windows", false, "list remembered windows instead of the tree")
	return cmd
}
