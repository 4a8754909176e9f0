// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/app.go
// Summary: Shared wiring of config, metrics and the snapshot store.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/framegrace/tilewm/config"
	"github.com/framegrace/tilewm/internal/metrics"
	"github.com/framegrace/tilewm/internal/treefmt"
	"github.com/framegrace/tilewm/store"
	"github.com/framegrace/tilewm/wm"
)

// app holds what every engine-running command needs.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	opts    wm.Options
	presets map[string]wm.Action
	metrics *metrics.Metrics
	store   *store.Store
}

// newApp reads the system config. withStore opens the snapshot store when
// the config enables it and hands it to the engine as mode memory.
func newApp(logger *log.Logger, withStore bool) (*app, error) {
	cfg := config.System()
	if err := config.Err(); err != nil {
		logger.Warn("config load failed, using defaults", "err", err)
	}

	opts, unknown := wm.OptionsFromConfig(cfg)
	for _, name := range unknown {
		logger.Warn("unknown window type in config", "type", name)
	}
	presets, err := wm.PresetsFromConfig(cfg)
	if err != nil {
		logger.Warn("some command presets were skipped", "err", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		presets: presets,
		metrics: metrics.New(),
	}
	opts.Logger = logger
	opts.Metrics = a.metrics

	if withStore && cfg.GetBool("store", "enabled", true) {
		st, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		a.store = st
		opts.Memory = st
		logger.Debug("window store opened")
	}
	a.opts = opts
	return a, nil
}

func openStore(cfg config.Config) (*store.Store, error) {
	path, err := config.StorePath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return st, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing store failed", "err", err)
		}
	}
}

// colorEnabled resolves a --color flag value for w.
func colorEnabled(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// encode writes v in the requested format, highlighted when color applies.
func encode(w io.Writer, v any, format, color string) error {
	f, err := treefmt.ParseFormat(format)
	if err != nil {
		return err
	}
	if colorEnabled(w, color) {
		return treefmt.EncodeColor(w, v, f, "")
	}
	return treefmt.Encode(w, v, f)
}
