/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package input defines the surface-independent events fed into the editor.
package input

import "whiteboard/internal/geom"

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Meta() bool  { return m&ModMeta != 0 }

// Command reports Ctrl or Meta, the zoom gate on every platform.
func (m Modifiers) Command() bool { return m.Ctrl() || m.Meta() }

// PointerEvent carries a screen-space position. Pointer identifies the
// pointer (mouse is 0, touches start at 1) for capture.
type PointerEvent struct {
	Pointer int       `json:"pointer"`
	Screen  geom.Pt   `json:"screen"`
	Mods    Modifiers `json:"mods"`
}

// WheelEvent carries a wheel delta in screen pixels. Positive DY scrolls down.
type WheelEvent struct {
	Screen geom.Pt   `json:"screen"`
	Delta  geom.Pt   `json:"delta"`
	Mods   Modifiers `json:"mods"`
}

// Key names understood by the editor. Printable keys use their lowercase rune.
const (
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
	KeyShift     = "Shift"
	KeyControl   = "Control"
	KeyMeta      = "Meta"
)

type KeyEvent struct {
	Key  string    `json:"key"`
	Mods Modifiers `json:"mods"`
}
