// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/sim.go
// Summary: Interactive simulator command.

package cli

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/compositor/sim"
	"github.com/framegrace/tilewm/config"
	"github.com/framegrace/tilewm/internal/logging"
	"github.com/framegrace/tilewm/internal/termview"
	"github.com/framegrace/tilewm/layout"
	"github.com/framegrace/tilewm/mainloop"
	"github.com/framegrace/tilewm/wm"
)

const simHelp = `Keys:
  n new window     x close        tab next focus
  f float center   h/l halves     t tile
  z maximize       i minimize     u unminimize all
  g grab (arrows drag while grabbed)
  m next workspace o next monitor 1-9 switch workspace
  a add workspace  D remove workspace
  d show desktop   r reload       q quit`

func monitorRects(n int) []compositor.Rect {
	if n < 1 {
		n = 1
	}
	rects := make([]compositor.Rect, n)
	for i := range rects {
		rects[i] = compositor.Rect{X: i * 1920, Width: 1920, Height: 1080}
	}
	return rects
}

func newSimCmd() *cobra.Command {
	var (
		monitors    int
		workspaces  int
		metricsAddr string
		logFile     string
		noStore     bool
	)

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the engine against an interactive simulated desktop",
		Long:  "Run the engine against an interactive simulated desktop.\n\n" + simHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.System()

			paths, err := GetPaths(cfg)
			if err != nil {
				return err
			}
			if logFile == "" {
				if err := paths.EnsureConfigDir(); err != nil {
					return fmt.Errorf("create config dir: %w", err)
				}
				logFile = paths.LogPath
			}
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			// The terminal belongs to the view; log to the file instead.
			logger := logging.New(f, logging.FromContext(ctx).GetLevel())

			a, err := newApp(logger, !noStore)
			if err != nil {
				return err
			}
			defer a.close()

			comp := sim.New(monitorRects(monitors), workspaces)
			loop := mainloop.New()
			engine := wm.New(comp, loop, layout.NewTiler(cfg.GetInt("layout", "gap", 8)), a.opts)

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("create screen: %w", err)
			}
			driver := termview.NewTcellScreenDriver(screen)
			if err := driver.Init(); err != nil {
				return fmt.Errorf("init screen: %w", err)
			}
			defer driver.Fini()

			view := termview.New(driver, comp, engine, loop, termview.Options{
				Presets: a.presets,
				Logger:  logger,
			})
			engine.Enable()
			defer engine.Disable()

			if metricsAddr == "" {
				metricsAddr = cfg.GetString("metrics", "addr", "")
			}
			if metricsAddr != "" {
				go serveDebug(ctx, metricsAddr, newDebugRouter(loop, engine, a.metrics, logger), logger)
			}
			logger.Info("simulator started", "monitors", monitors, "workspaces", workspaces)
			return view.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&monitors, "monitors", 1, "number of simulated monitors")
	cmd.Flags().IntVar(&workspaces, "workspaces", 4, "number of workspaces")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /tree on this address")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file (default: tilewm.log next to the config)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not remember window modes")
	return cmd
}
