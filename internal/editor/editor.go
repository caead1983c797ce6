/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the application-state object of the whiteboard. It owns
// the shape model, viewport, tool state and selection, and routes pointer,
// wheel and key events from a rendering surface to the interaction and
// connector logic. All methods run synchronously on the caller's goroutine.
package editor

import (
	"log/slog"

	"whiteboard/internal/connector"
	"whiteboard/internal/geom"
	"whiteboard/internal/input"
	"whiteboard/internal/interact"
	applog "whiteboard/internal/log"
	"whiteboard/internal/scene"
	"whiteboard/internal/tool"
	"whiteboard/internal/viewport"
)

// Surface is the pointer-capture capability of the host. It is optional.
type Surface interface {
	CapturePointer(id int)
	ReleasePointer(id int)
}

type Options struct {
	Viewport viewport.Options
	Handles  interact.Metrics
	Locked   bool
	// DefaultRectSize is used when a rect is placed with a click.
	DefaultRectSize geom.Size
	// DragDeadZone in screen pixels separates a click from a drag.
	DragDeadZone     float64
	RectFill         scene.Color
	Arrow            connector.Style
	ZoomRequiresCtrl bool
	Style            Style
	Logger           *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Viewport:         viewport.DefaultOptions(),
		Handles:          interact.DefaultMetrics(),
		DefaultRectSize:  geom.Size{W: 100, H: 100},
		DragDeadZone:     2,
		RectFill:         scene.MustHex("#ffd6e7"),
		Arrow:            connector.DefaultStyle(),
		ZoomRequiresCtrl: true,
		Style:            Style{Primary: scene.MustHex("#1677ff"), Background: scene.MustHex("#f5f5f5"), Labels: true},
	}
}

// mode is the pointer gesture in progress.
// modeIdle: none; modeShape: rect drag/resize/rotate; modeArrowHandle: arrow
// handle edit; modeArrowDraw and modeRectDraw: drawing; modePress: pressed on
// an arrow body, selects on release; modePan: background pan.
type mode int

const (
	modeIdle mode = iota
	modeShape
	modeArrowHandle
	modeArrowDraw
	modeRectDraw
	modePress
	modePan
)

func (m mode) String() string {
	switch m {
	case modeShape:
		return "shape"
	case modeArrowHandle:
		return "arrow-handle"
	case modeArrowDraw:
		return "arrow-draw"
	case modeRectDraw:
		return "rect-draw"
	case modePress:
		return "press"
	case modePan:
		return "pan"
	}
	return "idle"
}

type Editor struct {
	opts Options
	log  *slog.Logger

	model   *scene.Model
	view    *viewport.Controller
	tools   tool.State
	sel     tool.Selection
	shapes  *interact.Controller
	arrows  *connector.Drawer
	handles *connector.HandleDrag
	rects   rectDrawer

	surface Surface
	size    geom.Size

	mode        mode
	pointer     int
	pressScreen geom.Pt
	lastScreen  geom.Pt
	moved       bool
	pressedID   string

	// held tracks modifiers from key events for hosts whose pointer and
	// wheel events carry none.
	held input.Modifiers

	hover  string
	cursor interact.Cursor

	listeners []func(Frame)
}

func New(opts Options) *Editor {
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("editor")
	}
	m := scene.NewModel()
	return &Editor{
		opts:    opts,
		log:     l,
		model:   m,
		view:    viewport.NewController(opts.Viewport),
		tools:   tool.NewState(opts.Locked),
		shapes:  interact.NewController(m),
		arrows:  connector.NewDrawer(m, opts.Arrow),
		handles: connector.NewHandleDrag(m),
		cursor:  interact.CursorDefault,
	}
}

// SetSurface installs the pointer-capture capability. nil disables capture.
func (e *Editor) SetSurface(s Surface) { e.surface = s }

// SetSize records the surface size in screen pixels; keyboard zoom is centered on it.
func (e *Editor) SetSize(s geom.Size) { e.size = s }

// OnChange registers fn to receive a fresh Frame after every mutating event.
func (e *Editor) OnChange(fn func(Frame)) {
	if fn != nil {
		e.listeners = append(e.listeners, fn)
	}
}

func (e *Editor) notify() {
	if len(e.listeners) == 0 {
		return
	}
	f := e.Frame()
	for _, fn := range e.listeners {
		fn(f)
	}
}

// changed notifies listeners when ok is set and passes ok through.
func (e *Editor) changed(ok bool) bool {
	if ok {
		e.notify()
	}
	return ok
}

func (e *Editor) Viewport() viewport.Viewport { return e.view.Viewport() }
func (e *Editor) Tool() tool.State            { return e.tools }
func (e *Editor) Selection() []string         { return e.sel.IDs() }
func (e *Editor) Shapes() []scene.Shape       { return e.model.Shapes() }

func (e *Editor) Rect(id string) (scene.Rect, bool)   { return e.model.Rect(id) }
func (e *Editor) Arrow(id string) (scene.Arrow, bool) { return e.model.Arrow(id) }

// Frame returns a snapshot of the current state.
func (e *Editor) Frame() Frame {
	f := Frame{
		Shapes:    e.model.Shapes(),
		Selection: e.sel.IDs(),
		Viewport:  e.view.Viewport(),
		Tool:      e.tools,
		Hover:     e.hover,
		Cursor:    e.cursor,
		Gesture:   e.mode.String(),
		Version:   e.model.Version(),
		Size:      e.size,
		Handles:   e.opts.Handles,
		Style:     e.opts.Style,
	}
	if a, ok := e.arrows.Draft(); ok {
		f.Draft = &a
	} else if r, ok := e.rects.snapshot(); ok {
		f.Draft = &r
	}
	return f
}

// Add inserts a shape and returns its id.
func (e *Editor) Add(s scene.Shape) (string, error) {
	id, err := e.model.Add(s)
	if err != nil {
		return "", err
	}
	e.changed(true)
	return id, nil
}

// Remove deletes the shape with id and drops it from the selection.
func (e *Editor) Remove(id string) error {
	if e.mode != modeIdle {
		e.cancelGesture()
	}
	if _, err := e.model.Remove(id); err != nil {
		return err
	}
	e.sel.Prune(e.model.Has)
	if e.hover == id {
		e.hover = ""
	}
	e.log.Debug("shape removed", slog.String("op", "remove"), slog.String("id", id))
	e.changed(true)
	return nil
}

// Select makes id the only selected shape. An empty or unknown id clears the selection.
func (e *Editor) Select(id string) bool {
	if id != "" && !e.model.Has(id) {
		id = ""
	}
	before, _ := e.sel.Primary()
	e.sel.Select(id)
	return e.changed(before != id)
}

// SetTool switches the active tool and clears the selection.
func (e *Editor) SetTool(t tool.Tool) bool {
	if e.mode != modeIdle {
		e.cancelGesture()
	}
	changed := e.tools.Active != t || !e.sel.Empty()
	e.tools.Active = t
	e.sel.Clear()
	e.refreshCursor()
	e.log.Debug("tool changed", slog.String("op", "tool"), slog.String("tool", string(t)))
	return e.changed(changed)
}

func (e *Editor) SetLocked(locked bool) bool {
	if e.tools.Locked == locked {
		return false
	}
	e.tools.Locked = locked
	return e.changed(true)
}

func (e *Editor) ToggleLock() bool { return e.SetLocked(!e.tools.Locked) }

func (e *Editor) center() geom.Pt { return e.size.Half() }

// ZoomIn steps the zoom about the surface center.
func (e *Editor) ZoomIn() bool  { return e.changed(e.view.Zoom(e.center(), 1)) }
func (e *Editor) ZoomOut() bool { return e.changed(e.view.Zoom(e.center(), -1)) }

func (e *Editor) ResetZoom() bool { return e.changed(e.view.ResetZoom()) }

// ClearScene removes every shape and resets selection, drafts and hover.
func (e *Editor) ClearScene() bool {
	if e.mode != modeIdle {
		e.cancelGesture()
	}
	ids := e.model.Clear()
	e.sel.Clear()
	e.hover = ""
	e.refreshCursor()
	e.log.Debug("scene cleared", slog.String("op", "clear"), slog.Int("removed", len(ids)))
	return e.changed(true)
}

// DeleteSelected removes the selected shape, or the newest shape when nothing is selected.
func (e *Editor) DeleteSelected() bool {
	if id, ok := e.sel.Primary(); ok {
		return e.Remove(id) == nil
	}
	s, ok := e.model.RemoveLast()
	if !ok {
		return false
	}
	e.sel.Prune(e.model.Has)
	if e.hover == s.ShapeID() {
		e.hover = ""
	}
	e.log.Debug("shape removed", slog.String("op", "remove-last"), slog.String("id", s.ShapeID()))
	return e.changed(true)
}

// HitTest returns the topmost shape under a screen point.
func (e *Editor) HitTest(screen geom.Pt) (string, bool) {
	return e.HitTestWorld(e.view.Viewport().ScreenToWorld(screen))
}

// HitTestWorld returns the topmost shape at a world point.
func (e *Editor) HitTestWorld(world geom.Pt) (string, bool) {
	s, ok := e.model.ShapeAt(world, e.opts.Handles.HitTolerance(e.view.Viewport().Scale))
	if !ok {
		return "", false
	}
	return s.ShapeID(), true
}
