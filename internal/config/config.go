/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration: YAML defaults merged from
// a per-user file, then WB_* environment overrides on top. Environment
// values are never written back by Save.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"whiteboard/internal/connector"
	"whiteboard/internal/editor"
	"whiteboard/internal/geom"
	"whiteboard/internal/interact"
	applog "whiteboard/internal/log"
	"whiteboard/internal/scene"
	"whiteboard/internal/viewport"
)

// ErrInvalid is wrapped by every validation and parse failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is prepended to every override variable, e.g. WB_ZOOM_MODE.
const EnvPrefix = "WB"

// CurrentVersion is written by Save. Bump on incompatible layout changes.
const CurrentVersion = 1

type ViewportConfig struct {
	ZoomMode         string  `yaml:"zoom_mode"`
	ZoomFactor       float64 `yaml:"zoom_factor"`
	ZoomStep         float64 `yaml:"zoom_step"`
	MinScale         float64 `yaml:"min_scale"`
	MaxScale         float64 `yaml:"max_scale"`
	ZoomRequiresCtrl bool    `yaml:"zoom_requires_ctrl"`
}

// HandlesConfig sizes are screen pixels.
type HandlesConfig struct {
	ScaleSize     float64 `yaml:"scale_size"`
	RotateSize    float64 `yaml:"rotate_size"`
	ScaleOffset   float64 `yaml:"scale_offset"`
	ArrowRadius   float64 `yaml:"arrow_radius"`
	ArrowHitWidth float64 `yaml:"arrow_hit_width"`
}

type ToolsConfig struct {
	Locked            bool    `yaml:"locked"`
	DefaultRectWidth  float64 `yaml:"default_rect_width"`
	DefaultRectHeight float64 `yaml:"default_rect_height"`
	DragDeadZone      float64 `yaml:"drag_dead_zone"`
}

type StyleConfig struct {
	RectFill    string  `yaml:"rect_fill"`
	ArrowStroke string  `yaml:"arrow_stroke"`
	ArrowWidth  float64 `yaml:"arrow_width"`
	ArrowDash   string  `yaml:"arrow_dash"`
	Primary     string  `yaml:"primary"`
	Background  string  `yaml:"background"`
}

type RenderConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Labels bool `yaml:"labels"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	Viewport      ViewportConfig `yaml:"viewport"`
	Handles       HandlesConfig  `yaml:"handles"`
	Tools         ToolsConfig    `yaml:"tools"`
	Style         StyleConfig    `yaml:"style"`
	Render        RenderConfig   `yaml:"render"`
	Server        ServerConfig   `yaml:"server"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: CurrentVersion,
		Viewport: ViewportConfig{
			ZoomMode:         string(viewport.Multiplicative),
			ZoomFactor:       1.1,
			ZoomStep:         0.1,
			MinScale:         0.1,
			MaxScale:         4.0,
			ZoomRequiresCtrl: true,
		},
		Handles: HandlesConfig{ScaleSize: 8, RotateSize: 16, ScaleOffset: 4.5, ArrowRadius: 8, ArrowHitWidth: 40},
		Tools:   ToolsConfig{DefaultRectWidth: 100, DefaultRectHeight: 100, DragDeadZone: 2},
		Style: StyleConfig{
			RectFill:    "#ffd6e7",
			ArrowStroke: "#222222",
			ArrowWidth:  2,
			ArrowDash:   string(scene.Solid),
			Primary:     "#1677ff",
			Background:  "#f5f5f5",
		},
		Render:  RenderConfig{Width: 1280, Height: 800, Labels: true},
		Server:  ServerConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// envOverlay lists the overridable keys. Nil fields were not set.
type envOverlay struct {
	ZoomMode         *string  `envconfig:"ZOOM_MODE"`
	ZoomFactor       *float64 `envconfig:"ZOOM_FACTOR"`
	MinScale         *float64 `envconfig:"MIN_SCALE"`
	MaxScale         *float64 `envconfig:"MAX_SCALE"`
	ZoomRequiresCtrl *bool    `envconfig:"ZOOM_REQUIRES_CTRL"`
	ToolLocked       *bool    `envconfig:"TOOL_LOCKED"`
	RenderWidth      *int     `envconfig:"RENDER_WIDTH"`
	RenderHeight     *int     `envconfig:"RENDER_HEIGHT"`
	ServerAddr       *string  `envconfig:"ADDR"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
	LogLevel         *string  `envconfig:"LOG_LEVEL"`
	LogFormat        *string  `envconfig:"LOG_FORMAT"`
	LogSource        *bool    `envconfig:"LOG_SOURCE"`
	LogFile          *string  `envconfig:"LOG_FILE"`
}

// envKeys maps dotted config keys to their override variable.
var envKeys = map[string]string{
	"viewport.zoom_mode":          "ZOOM_MODE",
	"viewport.zoom_factor":        "ZOOM_FACTOR",
	"viewport.min_scale":          "MIN_SCALE",
	"viewport.max_scale":          "MAX_SCALE",
	"viewport.zoom_requires_ctrl": "ZOOM_REQUIRES_CTRL",
	"tools.locked":                "TOOL_LOCKED",
	"render.width":                "RENDER_WIDTH",
	"render.height":               "RENDER_HEIGHT",
	"server.addr":                 "ADDR",
	"server.allowed_origins":      "ALLOWED_ORIGINS",
	"logging.level":               "LOG_LEVEL",
	"logging.format":              "LOG_FORMAT",
	"logging.source":              "LOG_SOURCE",
	"logging.file":                "LOG_FILE",
}

// ConfigPath returns the per-user config file path: %AppData%\Whiteboard,
// ~/Library/Application Support/Whiteboard or $XDG_CONFIG_HOME/whiteboard.
func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	name := "whiteboard"
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		name = "Whiteboard"
	}
	return filepath.Join(base, name, "config.yaml"), nil
}

// Load reads the user config file if it exists, then applies env overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Defaults()
		if err := applyEnv(&cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// LoadFile reads path over the defaults, then applies env overrides and validates.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decode(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("%s: %w", path, err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// decode unmarshals YAML onto cfg. Keys absent from the file keep their current value.
func decode(data []byte, cfg *AppConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if cfg.ConfigVersion > CurrentVersion {
		return fmt.Errorf("%w: config_version %d is newer than supported %d", ErrInvalid, cfg.ConfigVersion, CurrentVersion)
	}
	cfg.Viewport.ZoomMode = strings.ToLower(strings.TrimSpace(cfg.Viewport.ZoomMode))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	return nil
}

func applyEnv(cfg *AppConfig) error {
	var o envOverlay
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return fmt.Errorf("%w: env: %v", ErrInvalid, err)
	}
	setString(&cfg.Viewport.ZoomMode, o.ZoomMode)
	setFloat(&cfg.Viewport.ZoomFactor, o.ZoomFactor)
	setFloat(&cfg.Viewport.MinScale, o.MinScale)
	setFloat(&cfg.Viewport.MaxScale, o.MaxScale)
	setBool(&cfg.Viewport.ZoomRequiresCtrl, o.ZoomRequiresCtrl)
	setBool(&cfg.Tools.Locked, o.ToolLocked)
	setInt(&cfg.Render.Width, o.RenderWidth)
	setInt(&cfg.Render.Height, o.RenderHeight)
	setString(&cfg.Server.Addr, o.ServerAddr)
	if len(o.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = o.AllowedOrigins
	}
	setString(&cfg.Logging.Level, o.LogLevel)
	setString(&cfg.Logging.Format, o.LogFormat)
	setBool(&cfg.Logging.Source, o.LogSource)
	setString(&cfg.Logging.File, o.LogFile)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*dst = strings.TrimSpace(*v)
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// EnvKeys lists the dotted keys that have an env override, sorted.
func EnvKeys() []string {
	keys := make([]string, 0, len(envKeys))
	for k := range envKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvOverrideFor returns the variable overriding the dotted key, if it is set.
func EnvOverrideFor(key string) (string, bool) {
	suffix, ok := envKeys[key]
	if !ok {
		return "", false
	}
	name := EnvPrefix + "_" + suffix
	if _, set := os.LookupEnv(name); set {
		return name, true
	}
	return "", false
}

// Validate reports the first invalid setting.
func (c AppConfig) Validate() error {
	v := c.Viewport
	switch viewport.ZoomMode(v.ZoomMode) {
	case viewport.Multiplicative, viewport.Additive:
	default:
		return fmt.Errorf("%w: viewport.zoom_mode %q", ErrInvalid, v.ZoomMode)
	}
	if v.MinScale <= 0 {
		return fmt.Errorf("%w: viewport.min_scale must be positive", ErrInvalid)
	}
	if v.MaxScale < v.MinScale {
		return fmt.Errorf("%w: viewport.max_scale %v is below min_scale %v", ErrInvalid, v.MaxScale, v.MinScale)
	}
	if v.ZoomFactor <= 1 {
		return fmt.Errorf("%w: viewport.zoom_factor must be greater than 1", ErrInvalid)
	}
	if v.ZoomStep <= 0 {
		return fmt.Errorf("%w: viewport.zoom_step must be positive", ErrInvalid)
	}
	h := c.Handles
	for name, size := range map[string]float64{
		"scale_size":      h.ScaleSize,
		"rotate_size":     h.RotateSize,
		"arrow_radius":    h.ArrowRadius,
		"arrow_hit_width": h.ArrowHitWidth,
	} {
		if size <= 0 {
			return fmt.Errorf("%w: handles.%s must be positive", ErrInvalid, name)
		}
	}
	if h.ScaleOffset < 0 {
		return fmt.Errorf("%w: handles.scale_offset must not be negative", ErrInvalid)
	}
	if c.Tools.DefaultRectWidth <= 0 || c.Tools.DefaultRectHeight <= 0 {
		return fmt.Errorf("%w: tools default rect size must be positive", ErrInvalid)
	}
	if c.Tools.DragDeadZone < 0 {
		return fmt.Errorf("%w: tools.drag_dead_zone must not be negative", ErrInvalid)
	}
	for name, hex := range map[string]string{
		"rect_fill":    c.Style.RectFill,
		"arrow_stroke": c.Style.ArrowStroke,
		"primary":      c.Style.Primary,
		"background":   c.Style.Background,
	} {
		if _, err := scene.ParseHex(hex); err != nil {
			return fmt.Errorf("%w: style.%s: %v", ErrInvalid, name, err)
		}
	}
	switch scene.Dash(c.Style.ArrowDash) {
	case scene.Solid, scene.Dashed:
	default:
		return fmt.Errorf("%w: style.arrow_dash %q", ErrInvalid, c.Style.ArrowDash)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: render size %dx%d", ErrInvalid, c.Render.Width, c.Render.Height)
	}
	if !applog.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// Save writes cfg to the user config path.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg as YAML to path, creating parent directories.
func SaveFile(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.ConfigVersion = CurrentVersion
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// EditorOptions builds editor options from a validated config.
func (c AppConfig) EditorOptions() editor.Options {
	o := editor.DefaultOptions()
	o.Viewport = viewport.Options{
		Mode:     viewport.ZoomMode(c.Viewport.ZoomMode),
		Factor:   c.Viewport.ZoomFactor,
		Step:     c.Viewport.ZoomStep,
		MinScale: c.Viewport.MinScale,
		MaxScale: c.Viewport.MaxScale,
	}
	o.ZoomRequiresCtrl = c.Viewport.ZoomRequiresCtrl
	o.Handles = interact.Metrics{
		ScaleSize:     c.Handles.ScaleSize,
		ScaleOffset:   c.Handles.ScaleOffset,
		RotateSize:    c.Handles.RotateSize,
		ArrowRadius:   c.Handles.ArrowRadius,
		ArrowHitWidth: c.Handles.ArrowHitWidth,
		HoverStroke:   o.Handles.HoverStroke,
		OutlineStroke: o.Handles.OutlineStroke,
	}
	o.Locked = c.Tools.Locked
	o.DefaultRectSize = geom.Size{W: c.Tools.DefaultRectWidth, H: c.Tools.DefaultRectHeight}
	o.DragDeadZone = c.Tools.DragDeadZone
	o.RectFill = mustColor(c.Style.RectFill, o.RectFill)
	o.Arrow = connector.Style{
		Stroke:      mustColor(c.Style.ArrowStroke, o.Arrow.Stroke),
		Fill:        mustColor(c.Style.ArrowStroke, o.Arrow.Fill),
		StrokeWidth: c.Style.ArrowWidth,
		Dash:        scene.Dash(c.Style.ArrowDash),
		HeadAtEnd:   true,
	}
	if o.Arrow.StrokeWidth <= 0 {
		o.Arrow.StrokeWidth = connector.DefaultStyle().StrokeWidth
	}
	o.Style = editor.Style{
		Primary:    mustColor(c.Style.Primary, o.Style.Primary),
		Background: mustColor(c.Style.Background, o.Style.Background),
		Labels:     c.Render.Labels,
	}
	return o
}

// LogOptions maps the logging section onto logger options.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File}
}

// RenderSize is the snapshot canvas size.
func (c AppConfig) RenderSize() geom.Size {
	return geom.Size{W: float64(c.Render.Width), H: float64(c.Render.Height)}
}

func mustColor(hex string, fallback scene.Color) scene.Color {
	c, err := scene.ParseHex(hex)
	if err != nil {
		return fallback
	}
	return c
}
