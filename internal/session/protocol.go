/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"encoding/json"
	"strings"

	"whiteboard/internal/editor"
	"whiteboard/internal/geom"
	"whiteboard/internal/input"
	"whiteboard/internal/render"
)

// Message is the envelope for both directions.
type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"
	TypeWheel       = "wheel"
	TypeKeyDown     = "key.down"
	TypeKeyUp       = "key.up"
	TypeResize      = "resize"
	TypeTool        = "tool"
	TypeLock        = "lock"
	TypeZoom        = "zoom"
	TypeClear       = "clear"

	// Server to client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeError   = "error"
)

// ModifierState mirrors the DOM event modifier flags.
type ModifierState struct {
	Shift bool `json:"shiftKey,omitempty"`
	Ctrl  bool `json:"ctrlKey,omitempty"`
	Alt   bool `json:"altKey,omitempty"`
	Meta  bool `json:"metaKey,omitempty"`
}

func (m ModifierState) mods() input.Modifiers {
	var out input.Modifiers
	if m.Shift {
		out |= input.ModShift
	}
	if m.Ctrl {
		out |= input.ModCtrl
	}
	if m.Alt {
		out |= input.ModAlt
	}
	if m.Meta {
		out |= input.ModMeta
	}
	return out
}

type PointerPayload struct {
	PointerID int     `json:"pointerId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ModifierState
}

func (p PointerPayload) event() input.PointerEvent {
	return input.PointerEvent{Pointer: p.PointerID, Screen: geom.P(p.X, p.Y), Mods: p.mods()}
}

type WheelPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
	ModifierState
}

func (p WheelPayload) event() input.WheelEvent {
	return input.WheelEvent{Screen: geom.P(p.X, p.Y), Delta: geom.P(p.DeltaX, p.DeltaY), Mods: p.mods()}
}

type KeyPayload struct {
	Key string `json:"key"`
	ModifierState
}

// event lowercases printable keys; named keys pass through.
func (p KeyPayload) event() input.KeyEvent {
	key := p.Key
	if len([]rune(key)) == 1 {
		key = strings.ToLower(key)
	}
	return input.KeyEvent{Key: key, Mods: p.mods()}
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ToolPayload struct {
	Tool string `json:"tool"`
}

// LockPayload toggles the lock when Locked is omitted.
type LockPayload struct {
	Locked *bool `json:"locked,omitempty"`
}

// ZoomPayload carries "in", "out" or "reset".
type ZoomPayload struct {
	Action string `json:"action"`
}

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	Version  string `json:"version"`
}

// FramePayload is a full redraw: the snapshot plus its compiled commands.
type FramePayload struct {
	Frame    editor.Frame         `json:"frame"`
	Percent  int                  `json:"percent"`
	Commands []render.DrawCommand `json:"commands"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func sizeOf(p ResizePayload) geom.Size { return geom.Size{W: p.Width, H: p.Height} }
