// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/replay.go
// Summary: Scenario replay command.

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/framegrace/tilewm/internal/logging"
	"github.com/framegrace/tilewm/internal/scenario"
	"github.com/framegrace/tilewm/internal/treefmt"
)

func newReplayCmd() *cobra.Command {
	var (
		format    string
		color     string
		keepGoing bool
		showTree  bool
	)

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>...",
		Short: "Replay scenario files against the simulated compositor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)
			out := cmd.OutOrStdout()

			// Replays never touch the user's window store.
			a, err := newApp(logger, false)
			if err != nil {
				return err
			}
			defer a.close()

			failed := 0
			var reports []scenario.Report
			for _, path := range args {
				sc, err := scenario.Load(path)
				if err != nil {
					return err
				}
				runner, err := scenario.NewRunner(sc, a.opts)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				runner.AddPresets(a.presets)
				report, err := runner.Run(ctx, keepGoing)
				if err != nil {
					failed++
					logger.Debug("scenario failed", "name", sc.Name, "err", err)
				}
				reports = append(reports, report)
			}

			if format == "" || format == string(treefmt.FormatText) {
				writeReports(out, reports, showTree)
			} else if err := encode(out, reports, format, color); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, yaml or json")
	cmd.Flags().StringVar(&color, "color", "auto", "colorize output: auto, always or never")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "run remaining steps after a failure")
	cmd.Flags().BoolVar(&showTree, "tree", false, "print the final tree of each scenario")
	return cmd
}

func writeReports(w io.Writer, reports []scenario.Report, showTree bool) {
	for _, r := range reports {
		status := "PASS"
		if !r.OK() {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s %s (%d steps, %d renders)\n", status, r.Name, len(r.Steps), r.Renders)
		for _, s := range r.Steps {
			if !s.OK {
				fmt.Fprintf(w, "  step %d %s: %s\n", s.Step, s.Action, s.Error)
			}
		}
		if showTree {
			treefmt.WriteText(w, r.Tree)
		}
	}
}
