/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"
	"strings"

	"whiteboard/internal/connector"
	"whiteboard/internal/geom"
	"whiteboard/internal/input"
	"whiteboard/internal/interact"
	"whiteboard/internal/scene"
	"whiteboard/internal/tool"
)

func (e *Editor) toWorld(screen geom.Pt) geom.Pt { return e.view.Viewport().ScreenToWorld(screen) }
func (e *Editor) scale() float64                 { return e.view.Viewport().Scale }

func (e *Editor) capture(id int) {
	e.pointer = id
	if e.surface != nil {
		e.surface.CapturePointer(id)
	}
}

func (e *Editor) release() {
	if e.surface != nil {
		e.surface.ReleasePointer(e.pointer)
	}
	e.mode = modeIdle
	e.moved = false
	e.pressedID = ""
}

// PointerDown starts a gesture according to the active tool. It reports
// whether anything changed.
func (e *Editor) PointerDown(ev input.PointerEvent) bool {
	if e.mode != modeIdle {
		return false
	}
	world := e.toWorld(ev.Screen)
	e.pressScreen, e.lastScreen, e.moved = ev.Screen, ev.Screen, false
	l := e.log.With(slog.String("op", "pointer-down"))

	switch e.tools.Active {
	case tool.DrawRect:
		e.rects.begin(world, e.opts.RectFill)
		e.mode = modeRectDraw
	case tool.DrawArrow:
		e.arrows.Begin(world)
		e.mode = modeArrowDraw
	default:
		e.mode = e.cursorDown(world)
	}
	e.capture(ev.Pointer)
	e.refreshCursor()
	l.Debug("gesture started", slog.String("gesture", e.mode.String()), slog.Int("pointer", ev.Pointer))
	return e.changed(true)
}

// cursorDown routes a press with the Cursor tool: handles of the selected
// shape first, then the topmost shape body, then the empty canvas.
func (e *Editor) cursorDown(world geom.Pt) mode {
	scale := e.scale()
	if id, ok := e.sel.Primary(); ok {
		if r, ok := e.model.Rect(id); ok {
			if h, hit := e.opts.Handles.HandleAt(r, world, scale); hit {
				if err := e.shapes.BeginHandle(id, h, world); err == nil {
					return modeShape
				}
			}
		}
		if a, ok := e.model.Arrow(id); ok {
			if h := connector.HandleAt(a, world, e.opts.Handles.ArrowHandleRadius(scale)); h != connector.HandleNone {
				if err := e.handles.Begin(id, h, world); err == nil {
					return modeArrowHandle
				}
			}
		}
	}
	s, ok := e.model.ShapeAt(world, e.opts.Handles.HitTolerance(scale))
	if !ok {
		e.sel.Clear()
		return modePan
	}
	switch s.Kind() {
	case scene.KindRect:
		e.sel.Select(s.ShapeID())
		if err := e.shapes.BeginDrag(s.ShapeID(), world); err == nil {
			return modeShape
		}
	case scene.KindArrow:
		e.pressedID = s.ShapeID()
		return modePress
	}
	return modePan
}

// PointerMove advances the gesture in progress or updates hover when idle.
// Events from pointers other than the captured one are ignored.
func (e *Editor) PointerMove(ev input.PointerEvent) bool {
	world := e.toWorld(ev.Screen)
	if e.mode == modeIdle {
		return e.changed(e.updateHover(world))
	}
	if ev.Pointer != e.pointer {
		return false
	}
	if ev.Screen.Dist(e.pressScreen) > e.opts.DragDeadZone {
		e.moved = true
	}
	square := ev.Mods.Shift() || e.held.Shift()
	delta := ev.Screen.Sub(e.lastScreen)
	e.lastScreen = ev.Screen

	changed := false
	switch e.mode {
	case modeRectDraw:
		e.rects.move(world, square)
		changed = true
	case modeArrowDraw:
		changed = e.arrows.Move(world)
	case modeShape:
		ok, err := e.shapes.Move(world, square)
		if err != nil {
			e.log.Warn("shape gesture failed", slog.String("op", e.shapes.Gesture().String()), slog.Any("err", err))
			e.cancelGesture()
			return e.changed(true)
		}
		changed = ok
	case modeArrowHandle:
		if err := e.handles.Move(world); err != nil {
			e.log.Warn("arrow handle failed", slog.String("op", "arrow-handle"), slog.Any("err", err))
			e.cancelGesture()
			return e.changed(true)
		}
		changed = true
	case modePan:
		changed = e.view.Pan(delta)
	}
	e.refreshCursor()
	return e.changed(changed)
}

// PointerUp commits the gesture in progress and releases pointer capture.
func (e *Editor) PointerUp(ev input.PointerEvent) bool {
	if e.mode == modeIdle || ev.Pointer != e.pointer {
		return false
	}
	world := e.toWorld(ev.Screen)
	if ev.Screen.Dist(e.pressScreen) > e.opts.DragDeadZone {
		e.moved = true
	}
	l := e.log.With(slog.String("op", "pointer-up"), slog.String("gesture", e.mode.String()))

	switch e.mode {
	case modeRectDraw:
		e.rects.move(world, ev.Mods.Shift() || e.held.Shift())
		r := e.rects.commit(!e.moved, e.opts.DefaultRectSize)
		if r != nil {
			if id, err := e.model.Add(r); err != nil {
				l.Warn("rect commit failed", slog.Any("err", err))
			} else {
				e.sel.Select(id)
				l.Debug("rect committed", slog.String("id", id))
			}
		}
		e.tools.Completed()
	case modeArrowDraw:
		id, ok, err := e.arrows.End(world)
		switch {
		case err != nil:
			l.Warn("arrow commit failed", slog.Any("err", err))
		case ok:
			l.Debug("arrow committed", slog.String("id", id))
		}
		e.tools.Completed()
	case modeShape:
		g, id := e.shapes.End()
		if g == interact.GestureDrag {
			e.sel.Select(id)
		}
		l.Debug("shape gesture ended", slog.String("kind", g.String()), slog.String("id", id))
	case modeArrowHandle:
		id := e.handles.End()
		l.Debug("arrow handle released", slog.String("id", id))
	case modePress:
		e.sel.Select(e.pressedID)
	}
	e.release()
	e.updateHover(world)
	e.refreshCursor()
	return e.changed(true)
}

// CancelGesture abandons the gesture in progress. Drafts are discarded;
// geometry already applied by drag, resize or rotate ticks stays.
func (e *Editor) CancelGesture() bool {
	if e.mode == modeIdle {
		return false
	}
	e.cancelGesture()
	return e.changed(true)
}

func (e *Editor) cancelGesture() {
	switch e.mode {
	case modeRectDraw:
		e.rects.cancel()
	case modeArrowDraw:
		e.arrows.Cancel()
	case modeShape:
		e.shapes.End()
	case modeArrowHandle:
		e.handles.End()
	}
	e.log.Debug("gesture cancelled", slog.String("op", "cancel"), slog.String("gesture", e.mode.String()))
	e.release()
	e.refreshCursor()
}

// Wheel zooms about the pointer when Ctrl or Meta is held, or always when
// zoom does not require a modifier. Otherwise it pans.
func (e *Editor) Wheel(ev input.WheelEvent) bool {
	mods := ev.Mods | e.held
	if mods.Command() || !e.opts.ZoomRequiresCtrl {
		dir := 1
		if ev.Delta.Y > 0 {
			dir = -1
		} else if ev.Delta.Y == 0 {
			return false
		}
		return e.changed(e.view.Zoom(ev.Screen, dir))
	}
	return e.changed(e.view.Pan(ev.Delta.Mul(-1)))
}

// KeyDown handles editing shortcuts.
func (e *Editor) KeyDown(ev input.KeyEvent) bool {
	switch ev.Key {
	case input.KeyShift:
		e.held |= input.ModShift
		return false
	case input.KeyControl:
		e.held |= input.ModCtrl
		return false
	case input.KeyMeta:
		e.held |= input.ModMeta
		return false
	case input.KeyDelete, input.KeyBackspace:
		if e.mode != modeIdle {
			return false
		}
		return e.DeleteSelected()
	case input.KeyEscape:
		if e.mode != modeIdle {
			return e.CancelGesture()
		}
		return e.Select("")
	}
	key := strings.ToLower(ev.Key)
	if (ev.Mods | e.held).Command() {
		switch key {
		case "=", "+":
			return e.ZoomIn()
		case "-":
			return e.ZoomOut()
		case "0":
			return e.ResetZoom()
		}
		return false
	}
	switch key {
	case "l":
		return e.ToggleLock()
	case "v":
		return e.SetTool(tool.Cursor)
	case "r":
		return e.SetTool(tool.DrawRect)
	case "a":
		return e.SetTool(tool.DrawArrow)
	}
	return false
}

// KeyUp clears held modifiers.
func (e *Editor) KeyUp(ev input.KeyEvent) bool {
	switch ev.Key {
	case input.KeyShift:
		e.held &^= input.ModShift
	case input.KeyControl:
		e.held &^= input.ModCtrl
	case input.KeyMeta:
		e.held &^= input.ModMeta
	}
	return false
}

// updateHover tracks the shape under the pointer in Cursor mode.
func (e *Editor) updateHover(world geom.Pt) bool {
	next := ""
	if e.tools.Active == tool.Cursor {
		if id, ok := e.HitTestWorld(world); ok {
			next = id
		}
	}
	cursor := e.cursor
	e.cursor = e.idleCursor(world)
	changed := next != e.hover || cursor != e.cursor
	e.hover = next
	return changed
}

// idleCursor is the affordance under world point p when no gesture runs.
func (e *Editor) idleCursor(p geom.Pt) interact.Cursor {
	if e.tools.Active != tool.Cursor {
		return interact.CursorCrosshair
	}
	id, ok := e.sel.Primary()
	if !ok {
		return interact.CursorDefault
	}
	scale := e.scale()
	if r, ok := e.model.Rect(id); ok {
		if h, hit := e.opts.Handles.HandleAt(r, p, scale); hit {
			return h.Cursor()
		}
	}
	if a, ok := e.model.Arrow(id); ok {
		if connector.HandleAt(a, p, e.opts.Handles.ArrowHandleRadius(scale)) != connector.HandleNone {
			return interact.CursorPointer
		}
	}
	return interact.CursorDefault
}

// refreshCursor sets the cursor for the gesture in progress.
func (e *Editor) refreshCursor() {
	switch e.mode {
	case modeIdle:
		if e.tools.Active != tool.Cursor {
			e.cursor = interact.CursorCrosshair
		} else if e.cursor == interact.CursorCrosshair || e.cursor == interact.CursorGrabbing {
			e.cursor = interact.CursorDefault
		}
	case modeRectDraw, modeArrowDraw:
		e.cursor = interact.CursorCrosshair
	case modePan:
		if e.moved {
			e.cursor = interact.CursorGrabbing
		}
	case modeShape:
		switch e.shapes.Gesture() {
		case interact.GestureResize:
			e.cursor = interact.ResizeCursor(e.shapes.Corner())
		case interact.GestureRotate:
			e.cursor = interact.CursorRotate
		}
	case modeArrowHandle:
		e.cursor = interact.CursorPointer
	}
}
