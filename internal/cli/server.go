// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/server.go
// Summary: Debug HTTP endpoint exposing metrics and the live tree.

package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/framegrace/tilewm/internal/metrics"
	"github.com/framegrace/tilewm/internal/treefmt"
	"github.com/framegrace/tilewm/mainloop"
	"github.com/framegrace/tilewm/tree"
	"github.com/framegrace/tilewm/wm"
)

const treeTimeout = 2 * time.Second

// onLoop runs fn on the loop goroutine and waits for its result.
func onLoop[T any](ctx context.Context, loop *mainloop.Loop, fn func() T) (T, error) {
	ch := make(chan T, 1)
	loop.Invoke(func() { ch <- fn() })
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// newDebugRouter serves /metrics, /tree and /healthz. The tree is captured
// on the loop so handlers never race the engine.
func newDebugRouter(loop *mainloop.Loop, engine *wm.Engine, m *metrics.Metrics, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	r.Get("/tree", func(w http.ResponseWriter, r *http.Request) {
		format, err := treefmt.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), treeTimeout)
		defer cancel()
		capture, err := onLoop(ctx, loop, func() tree.Capture { return engine.Capture() })
		if err != nil {
			http.Error(w, "tree unavailable: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		switch format {
		case treefmt.FormatJSON:
			w.Header().Set("Content-Type", "application/json")
		case treefmt.FormatYAML:
			w.Header().Set("Content-Type", "text/yaml")
		default:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		if err := treefmt.Encode(w, capture, format); err != nil {
			logger.Warn("tree encode failed", "err", err)
		}
	})
	return r
}

// serveDebug listens on addr until ctx is done.
func serveDebug(ctx context.Context, addr string, h http.Handler, logger *log.Logger) {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	logger.Info("debug endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("debug endpoint failed", "err", err)
	}
}
