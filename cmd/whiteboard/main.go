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
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"whiteboard/internal/config"
	"whiteboard/internal/crash"
	applog "whiteboard/internal/log"
	"whiteboard/internal/version"
)

// errUsage makes run print usage and exit 2.
var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, "Whiteboard: interactive canvas editor")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  whiteboard version|-v|--version                Show version")
	fmt.Fprintln(w, "  whiteboard config [show|path|save]             Show, locate or write the configuration")
	fmt.Fprintln(w, "  whiteboard render [-o out.png|out.pdf] <script> Replay a gesture script and write a snapshot")
	fmt.Fprintln(w, "  whiteboard validate <script>                   Check a gesture script against its schema")
	fmt.Fprintln(w, "  whiteboard serve [-addr :8080]                 Serve the editor over websockets")
	fmt.Fprintln(w, "  whiteboard ui [<script>]                       Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Defaults()
	}
	applog.Init(cfg.LogOptions())
	defer func() { _ = applog.Close() }()
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config ignored, using defaults", slog.Any("err", cfgErr))
	}

	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	cmd := args[0]
	defer crash.Recover(crash.Info{Command: cmd})
	l.Debug("start", slog.String("command", cmd), slog.Int("args", len(args)))

	var err error
	switch cmd {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "Whiteboard")
		fmt.Fprintln(stdout, version.String())
	case "config":
		err = runConfig(cfg, cfgErr, args[1:], stdout)
	case "render":
		err = runRender(cfg, args[1:], stdout)
	case "validate":
		err = runValidate(args[1:], stdout)
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = runServe(ctx, cfg, args[1:], stdout)
	case "ui":
		err = runUI(cfg, args[1:])
	case "help", "-h", "--help":
		usage(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		err = errUsage
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		usage(stderr)
		return 2
	default:
		l.Error("command failed", slog.String("command", cmd), slog.Any("err", err))
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}
