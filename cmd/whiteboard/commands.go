/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"

	"whiteboard/internal/config"
	"whiteboard/internal/editor"
	applog "whiteboard/internal/log"
	"whiteboard/internal/render"
	"whiteboard/internal/script"
	"whiteboard/internal/session"
	"whiteboard/internal/ui"
	"whiteboard/internal/version"
)

func runConfig(cfg config.AppConfig, loadErr error, args []string, w io.Writer) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "path":
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, p)
	case "show":
		if loadErr != nil {
			return loadErr
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, _ = w.Write(data)
		for _, k := range config.EnvKeys() {
			if env, ok := config.EnvOverrideFor(k); ok {
				fmt.Fprintf(w, "# %s overridden by %s\n", k, env)
			}
		}
	case "save":
		if err := config.Save(config.Defaults()); err != nil {
			return err
		}
		p, _ := config.ConfigPath()
		fmt.Fprintln(w, "Wrote default configuration to", p)
	default:
		return errUsage
	}
	return nil
}

func runValidate(args []string, w io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	if _, err := script.Load(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(w, "ok", args[0])
	return nil
}

func runRender(cfg config.AppConfig, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.String("o", "whiteboard.png", "output file (.png or .pdf)")
	title := fs.String("title", "", "PDF title")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	l := applog.WithOperation(applog.WithComponent("cli"), "render")
	s, err := script.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	ed := editor.New(cfg.EditorOptions())
	ed.SetSize(cfg.RenderSize())
	n, err := s.Replay(ed)
	if err != nil {
		return err
	}
	frame := ed.Frame()

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(*out)) {
	case ".pdf":
		err = render.RenderPDF(f, frame, render.PDFOptions{Title: *title})
	case ".png", "":
		err = render.RenderPNG(f, frame)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(*out))
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", *out, err)
	}
	l.Info("snapshot written", slog.String("path", *out), slog.Int("events", n), slog.Int("shapes", len(frame.Shapes)))
	fmt.Fprintf(w, "Wrote %s (%d shapes, %d events applied)\n", *out, len(frame.Shapes), n)
	return nil
}

// newRouter mounts the live session endpoint and a health probe.
func newRouter(srv *session.Server) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","version":%q,"sessions":%d}`, version.Version, srv.Count())
	}).Methods(http.MethodGet)
	r.Handle("/ws", srv)
	return r
}

func runServe(ctx context.Context, cfg config.AppConfig, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}
	l := applog.WithComponent("server")
	opts := cfg.EditorOptions()
	srv := session.NewServer(session.Options{
		OriginPatterns: cfg.Server.AllowedOrigins,
		NewEditor:      func() *editor.Editor { return editor.New(opts) },
		Logger:         l,
	})
	hs := &http.Server{
		Addr:              *addr,
		Handler:           newRouter(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("listening", slog.String("addr", *addr))
		fmt.Fprintf(w, "Serving on %s (websocket at /ws)\n", *addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", *addr, err)
	case <-ctx.Done():
	}
	l.Info("shutting down", slog.Int("sessions", srv.Count()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Close()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runUI(cfg config.AppConfig, args []string) error {
	opts := ui.RunOptions{Editor: cfg.EditorOptions(), Width: cfg.Render.Width, Height: cfg.Render.Height}
	if len(args) > 0 {
		s, err := script.Load(args[0])
		if err != nil {
			return err
		}
		opts.Seed = s
	}
	return ui.Run(opts)
}
