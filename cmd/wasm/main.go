//go:build js && wasm

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Command wasm exposes the editor to a browser page as the global
// "whiteboard" object. DOM pointer, wheel and keyboard events are passed
// in as they are; every change calls the onChange callback with the draw
// command buffer as a JSON string.
package main

import (
	"log/slog"
	"strings"
	"syscall/js"

	"whiteboard/internal/editor"
	"whiteboard/internal/geom"
	"whiteboard/internal/input"
	applog "whiteboard/internal/log"
	"whiteboard/internal/render"
	"whiteboard/internal/tool"
	"whiteboard/internal/version"
)

// canvasSurface captures pointers on the canvas element.
type canvasSurface struct {
	el js.Value
}

func (c canvasSurface) CapturePointer(id int) { c.el.Call("setPointerCapture", id) }
func (c canvasSurface) ReleasePointer(id int) {
	if c.el.Call("hasPointerCapture", id).Bool() {
		c.el.Call("releasePointerCapture", id)
	}
}

type bridge struct {
	editor   *editor.Editor
	log      *slog.Logger
	onChange js.Value
}

func mods(ev js.Value) input.Modifiers {
	var m input.Modifiers
	if ev.Get("shiftKey").Truthy() {
		m |= input.ModShift
	}
	if ev.Get("ctrlKey").Truthy() {
		m |= input.ModCtrl
	}
	if ev.Get("altKey").Truthy() {
		m |= input.ModAlt
	}
	if ev.Get("metaKey").Truthy() {
		m |= input.ModMeta
	}
	return m
}

func pointerEvent(ev js.Value) input.PointerEvent {
	return input.PointerEvent{
		Pointer: ev.Get("pointerId").Int(),
		Screen:  geom.P(ev.Get("offsetX").Float(), ev.Get("offsetY").Float()),
		Mods:    mods(ev),
	}
}

func keyEvent(ev js.Value) input.KeyEvent {
	k := ev.Get("key").String()
	if len([]rune(k)) == 1 {
		k = strings.ToLower(k)
	}
	return input.KeyEvent{Key: k, Mods: mods(ev)}
}

// handled wraps an event handler and calls preventDefault when the editor
// consumed the event.
func handled(fn func(ev js.Value) bool) js.Func {
	return js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return false
		}
		ok := fn(args[0])
		if ok && args[0].Get("preventDefault").Type() == js.TypeFunction {
			args[0].Call("preventDefault")
		}
		return ok
	})
}

func (b *bridge) commands() string {
	data, err := render.ToJSON(render.Compile(b.editor.Frame()))
	if err != nil {
		b.log.Error("encode commands", slog.Any("err", err))
		return "[]"
	}
	return string(data)
}

func (b *bridge) exports() map[string]any {
	e := b.editor
	return map[string]any{
		"version":     version.String(),
		"pointerDown": handled(func(ev js.Value) bool { return e.PointerDown(pointerEvent(ev)) }),
		"pointerMove": handled(func(ev js.Value) bool { return e.PointerMove(pointerEvent(ev)) }),
		"pointerUp":   handled(func(ev js.Value) bool { return e.PointerUp(pointerEvent(ev)) }),
		"wheel": handled(func(ev js.Value) bool {
			return e.Wheel(input.WheelEvent{
				Screen: geom.P(ev.Get("offsetX").Float(), ev.Get("offsetY").Float()),
				Delta:  geom.P(ev.Get("deltaX").Float(), ev.Get("deltaY").Float()),
				Mods:   mods(ev),
			})
		}),
		"keyDown": handled(func(ev js.Value) bool { return e.KeyDown(keyEvent(ev)) }),
		"keyUp":   handled(func(ev js.Value) bool { return e.KeyUp(keyEvent(ev)) }),
		"setTool": js.FuncOf(func(_ js.Value, args []js.Value) any {
			t, err := tool.Parse(args[0].String())
			if err != nil {
				b.log.Warn("unknown tool", slog.String("tool", args[0].String()))
				return false
			}
			return e.SetTool(t)
		}),
		"setLocked": js.FuncOf(func(_ js.Value, args []js.Value) any { return e.SetLocked(args[0].Truthy()) }),
		"zoomIn":    js.FuncOf(func(js.Value, []js.Value) any { return e.ZoomIn() }),
		"zoomOut":   js.FuncOf(func(js.Value, []js.Value) any { return e.ZoomOut() }),
		"resetZoom": js.FuncOf(func(js.Value, []js.Value) any { return e.ResetZoom() }),
		"clear":     js.FuncOf(func(js.Value, []js.Value) any { return e.ClearScene() }),
		"resize": js.FuncOf(func(_ js.Value, args []js.Value) any {
			e.SetSize(geom.Size{W: args[0].Float(), H: args[1].Float()})
			return nil
		}),
		"zoomPercent": js.FuncOf(func(js.Value, []js.Value) any { return e.Viewport().Percent() }),
		"cursor":      js.FuncOf(func(js.Value, []js.Value) any { return string(e.Frame().Cursor) }),
		"commands":    js.FuncOf(func(js.Value, []js.Value) any { return b.commands() }),
		"attach": js.FuncOf(func(_ js.Value, args []js.Value) any {
			e.SetSurface(canvasSurface{el: args[0]})
			return nil
		}),
		"onChange": js.FuncOf(func(_ js.Value, args []js.Value) any {
			b.onChange = args[0]
			return nil
		}),
	}
}

func main() {
	applog.Init(applog.Options{Level: "info", Format: "console"})
	l := applog.WithComponent("wasm")
	ed := editor.New(editor.DefaultOptions())
	b := &bridge{editor: ed, log: l}
	ed.OnChange(func(editor.Frame) {
		if b.onChange.Type() == js.TypeFunction {
			b.onChange.Invoke(b.commands())
		}
	})
	js.Global().Set("whiteboard", js.ValueOf(b.exports()))
	l.Info("whiteboard bridge ready", slog.String("version", version.String()))
	select {}
}
