/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"whiteboard/internal/scene"
	"whiteboard/internal/viewport"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := writeFile(t, `
viewport:
  zoom_mode: Additive
  max_scale: 8
tools:
  locked: true
style:
  primary: "#ff0000"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Viewport.ZoomMode != "additive" || cfg.Viewport.MaxScale != 8 {
		t.Fatalf("viewport not merged: %+v", cfg.Viewport)
	}
	// keys absent from the file keep their defaults
	if cfg.Viewport.MinScale != 0.1 || !cfg.Viewport.ZoomRequiresCtrl || cfg.Handles.ScaleSize != 8 {
		t.Fatalf("defaults lost: %+v %+v", cfg.Viewport, cfg.Handles)
	}
	if !cfg.Tools.Locked || cfg.Style.Primary != "#ff0000" || cfg.Style.RectFill != "#ffd6e7" {
		t.Fatalf("tools/style merge: %+v %+v", cfg.Tools, cfg.Style)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "logging:\n  level: debug\nserver:\n  addr: \":9000\"\n")
	t.Setenv("WB_LOG_LEVEL", "error")
	t.Setenv("WB_ZOOM_REQUIRES_CTRL", "false")
	t.Setenv("WB_ALLOWED_ORIGINS", "localhost:5173,example.test")
	t.Setenv("WB_RENDER_WIDTH", "640")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
	if cfg.Viewport.ZoomRequiresCtrl {
		t.Fatalf("zoom_requires_ctrl not overridden")
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "example.test" {
		t.Fatalf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.Addr != ":9000" || cfg.Render.Width != 640 {
		t.Fatalf("server/render = %+v %+v", cfg.Server, cfg.Render)
	}
	if name, ok := EnvOverrideFor("logging.level"); !ok || name != "WB_LOG_LEVEL" {
		t.Fatalf("EnvOverrideFor = %q %v", name, ok)
	}
	if _, ok := EnvOverrideFor("logging.file"); ok {
		t.Fatalf("unset variable reported as override")
	}
	if _, ok := EnvOverrideFor("no.such.key"); ok {
		t.Fatalf("unknown key reported as override")
	}
}

func TestBadEnvValueIsInvalid(t *testing.T) {
	t.Setenv("WB_MIN_SCALE", "tiny")
	if _, err := LoadFile(writeFile(t, "{}\n")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*AppConfig)
	}{
		{"zero min scale", func(c *AppConfig) { c.Viewport.MinScale = 0 }},
		{"max below min", func(c *AppConfig) { c.Viewport.MaxScale = 0.05 }},
		{"factor not above one", func(c *AppConfig) { c.Viewport.ZoomFactor = 1 }},
		{"zero step", func(c *AppConfig) { c.Viewport.ZoomStep = 0 }},
		{"unknown zoom mode", func(c *AppConfig) { c.Viewport.ZoomMode = "log" }},
		{"zero handle", func(c *AppConfig) { c.Handles.RotateSize = 0 }},
		{"bad color", func(c *AppConfig) { c.Style.Background = "grey" }},
		{"bad dash", func(c *AppConfig) { c.Style.ArrowDash = "dotted" }},
		{"bad render size", func(c *AppConfig) { c.Render.Height = 0 }},
		{"bad log level", func(c *AppConfig) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mut(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
	if _, err := LoadFile(writeFile(t, "viewport: [1, 2\n")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for malformed yaml, got %v", err)
	}
	if _, err := LoadFile(writeFile(t, "config_version: 99\n")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for future version, got %v", err)
	}
	if _, err := LoadFile(writeFile(t, "viewport:\n  min_scale: -1\n")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for negative scale, got %v", err)
	}
}

func TestLoadWithoutUserFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("AppData", dir)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Width != 1280 {
		t.Fatalf("expected defaults, got %+v", cfg.Render)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.Tools.DragDeadZone = 5
	cfg.Server.AllowedOrigins = []string{"localhost:3000"}
	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Tools.DragDeadZone != 5 || len(got.Server.AllowedOrigins) != 1 {
		t.Fatalf("saved config = %+v", got)
	}
	bad := Defaults()
	bad.Handles.ScaleSize = -1
	if err := SaveFile(path, bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid when saving invalid config, got %v", err)
	}
}

func TestEditorOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Viewport.ZoomMode = "additive"
	cfg.Tools.Locked = true
	cfg.Style.ArrowDash = "dashed"
	cfg.Render.Labels = false
	o := cfg.EditorOptions()
	if o.Viewport.Mode != viewport.Additive || o.Viewport.MaxScale != 4 {
		t.Fatalf("viewport options = %+v", o.Viewport)
	}
	if !o.Locked || o.DefaultRectSize.W != 100 || o.DragDeadZone != 2 {
		t.Fatalf("tool options = %+v", o)
	}
	if o.Arrow.Dash != scene.Dashed || o.Arrow.Stroke != scene.MustHex("#222222") {
		t.Fatalf("arrow style = %+v", o.Arrow)
	}
	if o.Handles.ArrowHitWidth != 40 || o.Handles.HoverStroke == 0 {
		t.Fatalf("handles = %+v", o.Handles)
	}
	if o.Style.Labels {
		t.Fatalf("labels should be off")
	}
	if s := cfg.RenderSize(); s.W != 1280 || s.H != 800 {
		t.Fatalf("render size = %+v", s)
	}
}
