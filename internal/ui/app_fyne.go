//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"whiteboard/internal/crash"
	"whiteboard/internal/editor"
	"whiteboard/internal/geom"
	"whiteboard/internal/input"
	"whiteboard/internal/interact"
	applog "whiteboard/internal/log"
	"whiteboard/internal/render"
	"whiteboard/internal/tool"
)

// Run opens the editor window and blocks until it is closed.
func Run(opts RunOptions) error {
	opts = opts.withDefaults()
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	ed := editor.New(opts.Editor)
	defer crash.Recover(crash.Info{Command: "ui", Details: func() map[string]string {
		f := ed.Frame()
		return map[string]string{"shapes": fmt.Sprint(len(f.Shapes)), "gesture": f.Gesture, "tool": string(f.Tool.Active)}
	}})
	if opts.Seed != nil {
		if _, err := opts.Seed.Replay(ed); err != nil {
			return fmt.Errorf("replay seed script: %w", err)
		}
	}

	a := app.NewWithID("whiteboard")
	w := a.NewWindow(opts.Title)
	prefs := a.Preferences()
	winW := prefs.IntWithFallback("window.width", opts.Width)
	winH := prefs.IntWithFallback("window.height", opts.Height)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	board := NewBoardCanvas(ed, l)
	status := widget.NewLabel("")
	zoomLabel := widget.NewLabel("100%")

	toolButtons := map[tool.Tool]*widget.Button{}
	for _, t := range []struct {
		tool  tool.Tool
		label string
	}{{tool.Cursor, "Select (V)"}, {tool.DrawRect, "Rectangle (R)"}, {tool.DrawArrow, "Arrow (A)"}} {
		toolButtons[t.tool] = widget.NewButton(t.label, func() {
			ed.SetTool(t.tool)
			board.focus()
		})
	}
	lock := widget.NewCheck("Lock tool (L)", func(on bool) { ed.SetLocked(on) })

	refresh := func(f editor.Frame) {
		for t, b := range toolButtons {
			if t == f.Tool.Active {
				b.Importance = widget.HighImportance
			} else {
				b.Importance = widget.MediumImportance
			}
			b.Refresh()
		}
		if lock.Checked != f.Tool.Locked {
			lock.SetChecked(f.Tool.Locked)
		}
		zoomLabel.SetText(fmt.Sprintf("%d%%", f.Viewport.Percent()))
		sel := "nothing selected"
		if len(f.Selection) > 0 {
			sel = "selected " + f.Selection[0]
		}
		status.SetText(fmt.Sprintf("%d shapes, %s, %s", len(f.Shapes), sel, f.Gesture))
	}
	ed.OnChange(refresh)

	export := func(kind string) {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if wc == nil {
				return
			}
			defer wc.Close()
			if err := writeSnapshot(wc, kind, ed.Frame()); err != nil {
				l.Error("export failed", slog.String("kind", kind), slog.Any("err", err))
				dialog.ShowError(err, w)
				return
			}
			l.Info("exported snapshot", slog.String("kind", kind), slog.String("uri", wc.URI().String()))
		}, w)
	}

	toolbar := container.NewHBox(
		toolButtons[tool.Cursor], toolButtons[tool.DrawRect], toolButtons[tool.DrawArrow], lock,
		widget.NewSeparator(),
		widget.NewButton("-", func() { ed.ZoomOut() }), zoomLabel, widget.NewButton("+", func() { ed.ZoomIn() }),
		widget.NewButton("Reset zoom", func() { ed.ResetZoom() }),
		widget.NewSeparator(),
		widget.NewButton("Clear", func() {
			dialog.ShowConfirm("Clear scene", "Remove every shape?", func(ok bool) {
				if ok {
					ed.ClearScene()
				}
			}, w)
		}),
		widget.NewButton("Export PNG", func() { export("png") }),
		widget.NewButton("Export PDF", func() { export("pdf") }),
	)

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, board))
	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		l.Info("UI closed")
	})
	refresh(ed.Frame())
	w.Canvas().Focus(board)
	w.ShowAndRun()
	return nil
}

func writeSnapshot(w io.Writer, kind string, f editor.Frame) error {
	if kind == "pdf" {
		return render.RenderPDF(w, f, render.PDFOptions{})
	}
	return render.RenderPNG(w, f)
}

// BoardCanvas shows the editor's frame and feeds it desktop input.
type BoardCanvas struct {
	widget.BaseWidget
	editor *editor.Editor
	log    *slog.Logger
	raster *canvas.Raster

	pressed bool
	last    fyne.Position
	mods    input.Modifiers
}

var (
	_ desktop.Mouseable  = (*BoardCanvas)(nil)
	_ desktop.Hoverable  = (*BoardCanvas)(nil)
	_ desktop.Keyable    = (*BoardCanvas)(nil)
	_ desktop.Cursorable = (*BoardCanvas)(nil)
	_ fyne.Draggable     = (*BoardCanvas)(nil)
	_ fyne.Scrollable    = (*BoardCanvas)(nil)
)

func NewBoardCanvas(ed *editor.Editor, l *slog.Logger) *BoardCanvas {
	b := &BoardCanvas{editor: ed, log: l}
	b.raster = canvas.NewRaster(b.draw)
	ed.OnChange(func(editor.Frame) { b.raster.Refresh() })
	b.ExtendBaseWidget(b)
	return b
}

// draw renders at the logical size; fyne scales the image to w x h pixels.
func (b *BoardCanvas) draw(w, h int) image.Image {
	return render.RenderImage(b.editor.Frame())
}

func (b *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{board: b}
}

func (b *BoardCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

func (b *BoardCanvas) focus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
}

func (b *BoardCanvas) pointer(pos fyne.Position, m fyne.KeyModifier) input.PointerEvent {
	return input.PointerEvent{Screen: toPt(pos), Mods: b.mods | modsOf(m)}
}

func (b *BoardCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.focus()
	b.pressed = true
	b.last = e.Position
	b.editor.PointerDown(b.pointer(e.Position, e.Modifier))
}

func (b *BoardCanvas) MouseUp(e *desktop.MouseEvent) {
	if !b.pressed || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.pressed = false
	b.editor.PointerUp(b.pointer(e.Position, e.Modifier))
}

func (b *BoardCanvas) MouseIn(e *desktop.MouseEvent)    { b.editor.PointerMove(b.pointer(e.Position, e.Modifier)) }
func (b *BoardCanvas) MouseMoved(e *desktop.MouseEvent) { b.editor.PointerMove(b.pointer(e.Position, e.Modifier)) }
func (b *BoardCanvas) MouseOut()                        {}

// Dragged delivers pointer moves while the button is held.
func (b *BoardCanvas) Dragged(e *fyne.DragEvent) {
	b.last = e.Position
	b.editor.PointerMove(b.pointer(e.Position, 0))
}

// DragEnd ends a press whose MouseUp was not delivered to this widget.
func (b *BoardCanvas) DragEnd() {
	if !b.pressed {
		return
	}
	b.pressed = false
	b.editor.PointerUp(b.pointer(b.last, 0))
}

// Scrolled maps fyne's up-positive wheel delta to the editor's down-positive one.
func (b *BoardCanvas) Scrolled(e *fyne.ScrollEvent) {
	b.editor.Wheel(input.WheelEvent{
		Screen: toPt(e.Position),
		Delta:  geom.P(-float64(e.Scrolled.DX), -float64(e.Scrolled.DY)),
		Mods:   b.mods,
	})
}

func (b *BoardCanvas) FocusGained() {}

// FocusLost drops held modifiers; their key-up goes elsewhere.
func (b *BoardCanvas) FocusLost() {
	for _, k := range []string{input.KeyShift, input.KeyControl, input.KeyMeta} {
		b.editor.KeyUp(input.KeyEvent{Key: k})
	}
	b.mods = 0
}

func (b *BoardCanvas) TypedRune(rune)          {}
func (b *BoardCanvas) TypedKey(*fyne.KeyEvent) {}

func (b *BoardCanvas) KeyDown(e *fyne.KeyEvent) {
	name, ok := keyName(e.Name)
	if !ok {
		return
	}
	b.mods |= modOfKey(name)
	b.editor.KeyDown(input.KeyEvent{Key: name, Mods: b.mods})
}

func (b *BoardCanvas) KeyUp(e *fyne.KeyEvent) {
	name, ok := keyName(e.Name)
	if !ok {
		return
	}
	b.mods &^= modOfKey(name)
	b.editor.KeyUp(input.KeyEvent{Key: name, Mods: b.mods})
}

func (b *BoardCanvas) Cursor() desktop.Cursor { return cursorFor(b.editor.Frame().Cursor) }

type boardRenderer struct {
	board *BoardCanvas
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.board.raster.Resize(size)
	r.board.editor.SetSize(geom.Size{W: float64(size.Width), H: float64(size.Height)})
}

func (r *boardRenderer) MinSize() fyne.Size           { return r.board.MinSize() }
func (r *boardRenderer) Refresh()                     { r.board.raster.Refresh() }
func (r *boardRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.board.raster} }
func (r *boardRenderer) Destroy()                     {}

func toPt(p fyne.Position) geom.Pt { return geom.P(float64(p.X), float64(p.Y)) }

func modsOf(m fyne.KeyModifier) input.Modifiers {
	var out input.Modifiers
	if m&fyne.KeyModifierShift != 0 {
		out |= input.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= input.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= input.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= input.ModMeta
	}
	return out
}

func modOfKey(name string) input.Modifiers {
	switch name {
	case input.KeyShift:
		return input.ModShift
	case input.KeyControl:
		return input.ModCtrl
	case input.KeyMeta:
		return input.ModMeta
	}
	return 0
}

// keyName maps fyne key names onto the editor's. Unused keys report false.
func keyName(k fyne.KeyName) (string, bool) {
	switch k {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return input.KeyShift, true
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return input.KeyControl, true
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return input.KeyMeta, true
	case fyne.KeyDelete:
		return input.KeyDelete, true
	case fyne.KeyBackspace:
		return input.KeyBackspace, true
	case fyne.KeyEscape:
		return input.KeyEscape, true
	case fyne.KeyEqual, fyne.KeyMinus, fyne.Key0,
		fyne.KeyL, fyne.KeyV, fyne.KeyR, fyne.KeyA:
		return strings.ToLower(string(k)), true
	}
	return "", false
}

func cursorFor(c interact.Cursor) desktop.Cursor {
	switch c {
	case interact.CursorCrosshair, interact.CursorResizeNWSE, interact.CursorResizeNESW:
		return desktop.CrosshairCursor
	case interact.CursorPointer, interact.CursorRotate, interact.CursorGrabbing:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}
