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
	"io"
	"log/slog"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"whiteboard/internal/editor"
	"whiteboard/internal/input"
	"whiteboard/internal/interact"
	"whiteboard/internal/tool"
)

func newBoard(t *testing.T) (*BoardCanvas, *editor.Editor) {
	t.Helper()
	test.NewApp()
	opts := editor.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	ed := editor.New(opts)
	b := NewBoardCanvas(ed, opts.Logger)
	w := test.NewWindow(b)
	t.Cleanup(w.Close)
	w.Resize(fyne.NewSize(400, 300))
	b.Resize(fyne.NewSize(400, 300))
	return b, ed
}

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func TestBoardDrawsRect(t *testing.T) {
	b, ed := newBoard(t)
	ed.SetTool(tool.DrawRect)
	b.MouseDown(mouse(50, 50))
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(150, 130)}})
	b.MouseUp(mouse(150, 130))
	f := ed.Frame()
	if len(f.Shapes) != 1 {
		t.Fatalf("shapes = %d", len(f.Shapes))
	}
	if len(f.Selection) != 1 || f.Tool.Active != tool.Cursor {
		t.Fatalf("selection %v tool %s", f.Selection, f.Tool.Active)
	}
}

func TestBoardDragEndReleases(t *testing.T) {
	b, ed := newBoard(t)
	ed.SetTool(tool.DrawRect)
	b.MouseDown(mouse(20, 20))
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(80, 90)}})
	b.DragEnd()
	if n := len(ed.Frame().Shapes); n != 1 {
		t.Fatalf("shapes after drag end = %d", n)
	}
	if g := ed.Frame().Gesture; g != "idle" {
		t.Fatalf("gesture = %q", g)
	}
}

func TestBoardKeys(t *testing.T) {
	b, ed := newBoard(t)
	b.KeyDown(&fyne.KeyEvent{Name: fyne.KeyL})
	if !ed.Frame().Tool.Locked {
		t.Fatalf("L did not lock the tool")
	}
	b.KeyDown(&fyne.KeyEvent{Name: desktop.KeyControlLeft})
	if b.mods&input.ModCtrl == 0 {
		t.Fatalf("control not tracked")
	}
	b.FocusLost()
	if b.mods != 0 {
		t.Fatalf("modifiers kept after focus loss")
	}
}

func TestKeyName(t *testing.T) {
	cases := map[fyne.KeyName]string{
		desktop.KeyShiftRight: input.KeyShift,
		fyne.KeyDelete:        input.KeyDelete,
		fyne.KeyEscape:        input.KeyEscape,
		fyne.KeyV:             "v",
		fyne.KeyEqual:         "=",
	}
	for k, want := range cases {
		got, ok := keyName(k)
		if !ok || got != want {
			t.Fatalf("keyName(%s) = %q, %v", k, got, ok)
		}
	}
	if _, ok := keyName(fyne.KeyF5); ok {
		t.Fatalf("F5 should be ignored")
	}
}

func TestCursorFor(t *testing.T) {
	if cursorFor(interact.CursorCrosshair) != desktop.CrosshairCursor {
		t.Fatalf("crosshair")
	}
	if cursorFor(interact.CursorPointer) != desktop.PointerCursor {
		t.Fatalf("pointer")
	}
	if cursorFor(interact.CursorDefault) != desktop.DefaultCursor {
		t.Fatalf("default")
	}
}

func TestModsOf(t *testing.T) {
	m := modsOf(fyne.KeyModifierShift | fyne.KeyModifierSuper)
	if m&input.ModShift == 0 || m&input.ModMeta == 0 || m&input.ModCtrl != 0 {
		t.Fatalf("mods = %v", m)
	}
}
