/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script loads and replays gesture scripts: JSON documents listing
// pointer, wheel and key events (plus a few editor commands) that drive an
// Editor without a display. Documents are checked against an embedded JSON
// Schema before they are decoded.
package script

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"whiteboard/internal/editor"
	"whiteboard/internal/geom"
	"whiteboard/internal/input"
	"whiteboard/internal/scene"
	"whiteboard/internal/tool"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalid is returned for documents that fail schema validation or
// reference unknown values.
var ErrInvalid = errors.New("invalid gesture script")

// Event type names.
const (
	EventDown  = "down"
	EventMove  = "move"
	EventUp    = "up"
	EventWheel = "wheel"
	EventKey   = "key"
	EventTool  = "tool"
	EventLock  = "lock"
	EventReset = "reset"
	EventClear = "clear"
)

type Script struct {
	Version int     `json:"version,omitempty"`
	Size    *Size   `json:"size,omitempty"`
	Shapes  []Shape `json:"shapes,omitempty"`
	Events  []Event `json:"events"`
}

type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Shape seeds the scene before events run. Rects use x/y as the center.
type Shape struct {
	Kind        string       `json:"kind"`
	ID          string       `json:"id,omitempty"`
	Fill        string       `json:"fill,omitempty"`
	X           float64      `json:"x,omitempty"`
	Y           float64      `json:"y,omitempty"`
	W           float64      `json:"w,omitempty"`
	H           float64      `json:"h,omitempty"`
	Rotation    float64      `json:"rotation,omitempty"`
	Points      [][2]float64 `json:"points,omitempty"`
	Stroke      string       `json:"stroke,omitempty"`
	StrokeWidth float64      `json:"strokeWidth,omitempty"`
	Dash        string       `json:"dash,omitempty"`
	HeadAtEnd   *bool        `json:"headAtEnd,omitempty"`
	From        string       `json:"from,omitempty"`
	To          string       `json:"to,omitempty"`
}

// Event is one step. Which fields matter depends on Type.
type Event struct {
	Type    string   `json:"type"`
	X       float64  `json:"x,omitempty"`
	Y       float64  `json:"y,omitempty"`
	Pointer int      `json:"pointer,omitempty"`
	DX      float64  `json:"dx,omitempty"`
	DY      float64  `json:"dy,omitempty"`
	Key     string   `json:"key,omitempty"`
	Release bool     `json:"release,omitempty"`
	Tool    string   `json:"tool,omitempty"`
	Locked  *bool    `json:"locked,omitempty"`
	Mods    []string `json:"mods,omitempty"`
}

// Validate checks data against the gesture script schema. Every schema
// violation is listed in the returned error.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Parse validates and decodes a script document.
func Parse(data []byte) (*Script, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &s, nil
}

// Read parses a script from r.
func Read(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Load parses the script file at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Error locates a replay failure.
type Error struct {
	Index int
	Type  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("event %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Replay seeds e with the script's shapes and feeds its events in order.
// It returns the number of events that changed the editor.
func (s *Script) Replay(e *editor.Editor) (int, error) {
	if s.Size != nil {
		e.SetSize(geom.Size{W: s.Size.W, H: s.Size.H})
	}
	for i, sh := range s.Shapes {
		shape, err := sh.build()
		if err != nil {
			return 0, &Error{Index: i, Type: "shape", Err: err}
		}
		if _, err := e.Add(shape); err != nil {
			return 0, &Error{Index: i, Type: "shape", Err: err}
		}
	}
	changed := 0
	for i, ev := range s.Events {
		ok, err := ev.apply(e)
		if err != nil {
			return changed, &Error{Index: i, Type: ev.Type, Err: err}
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

func (ev Event) apply(e *editor.Editor) (bool, error) {
	mods := parseMods(ev.Mods)
	at := geom.P(ev.X, ev.Y)
	switch ev.Type {
	case EventDown:
		return e.PointerDown(input.PointerEvent{Pointer: ev.Pointer, Screen: at, Mods: mods}), nil
	case EventMove:
		return e.PointerMove(input.PointerEvent{Pointer: ev.Pointer, Screen: at, Mods: mods}), nil
	case EventUp:
		return e.PointerUp(input.PointerEvent{Pointer: ev.Pointer, Screen: at, Mods: mods}), nil
	case EventWheel:
		return e.Wheel(input.WheelEvent{Screen: at, Delta: geom.P(ev.DX, ev.DY), Mods: mods}), nil
	case EventKey:
		k := input.KeyEvent{Key: ev.Key, Mods: mods}
		if ev.Release {
			return e.KeyUp(k), nil
		}
		return e.KeyDown(k), nil
	case EventTool:
		t, err := tool.Parse(ev.Tool)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		return e.SetTool(t), nil
	case EventLock:
		if ev.Locked == nil {
			return e.ToggleLock(), nil
		}
		return e.SetLocked(*ev.Locked), nil
	case EventReset:
		return e.ResetZoom(), nil
	case EventClear:
		return e.ClearScene(), nil
	}
	return false, fmt.Errorf("%w: unknown event type %q", ErrInvalid, ev.Type)
}

func parseMods(names []string) input.Modifiers {
	var m input.Modifiers
	for _, n := range names {
		switch n {
		case "shift":
			m |= input.ModShift
		case "ctrl":
			m |= input.ModCtrl
		case "alt":
			m |= input.ModAlt
		case "meta":
			m |= input.ModMeta
		}
	}
	return m
}

func (sh Shape) build() (scene.Shape, error) {
	switch scene.Kind(sh.Kind) {
	case scene.KindRect:
		fill := scene.MustHex("#ffd6e7")
		if sh.Fill != "" {
			c, err := scene.ParseHex(sh.Fill)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
			}
			fill = c
		}
		return &scene.Rect{
			ID:       sh.ID,
			Fill:     fill,
			Position: geom.P(sh.X, sh.Y),
			Size:     geom.Size{W: sh.W, H: sh.H},
			Rotation: sh.Rotation,
		}, nil
	case scene.KindArrow:
		a := &scene.Arrow{
			ID:          sh.ID,
			Stroke:      scene.MustHex("#222222"),
			StrokeWidth: 2,
			Dash:        scene.Solid,
			HeadAtEnd:   true,
			From:        sh.From,
			To:          sh.To,
		}
		for _, p := range sh.Points {
			a.Points = append(a.Points, geom.P(p[0], p[1]))
		}
		if sh.Stroke != "" {
			c, err := scene.ParseHex(sh.Stroke)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
			}
			a.Stroke = c
		}
		if sh.Fill != "" {
			c, err := scene.ParseHex(sh.Fill)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
			}
			a.Fill = c
		}
		if sh.StrokeWidth > 0 {
			a.StrokeWidth = sh.StrokeWidth
		}
		if sh.Dash != "" {
			a.Dash = scene.Dash(sh.Dash)
		}
		if sh.HeadAtEnd != nil {
			a.HeadAtEnd = *sh.HeadAtEnd
		}
		return a, nil
	}
	return nil, fmt.Errorf("%w: unknown shape kind %q", ErrInvalid, sh.Kind)
}
