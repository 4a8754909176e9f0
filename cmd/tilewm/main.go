// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tilewm/main.go
// Summary: Entry point for the tilewm command.
// Usage: Run `tilewm sim` for the interactive simulator or `tilewm replay` for scenarios.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/framegrace/tilewm/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
