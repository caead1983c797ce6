/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import (
	"math"
	"testing"

	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func newRect(t *testing.T, m *scene.Model) scene.Rect {
	t.Helper()
	if _, err := m.Add(&scene.Rect{ID: "r", Position: geom.P(200, 150), Size: geom.Size{W: 100, H: 100}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	r, _ := m.Rect("r")
	return r
}

func TestHandleAtPriorityAndScale(t *testing.T) {
	m := scene.NewModel()
	r := newRect(t, m)
	mt := DefaultMetrics()
	// bottom-right corner sits at (250, 200)
	h, ok := mt.HandleAt(r, geom.P(251, 201), 1)
	if !ok || h.Kind != ResizeHandle || h.Corner != geom.BottomRight {
		t.Fatalf("corner hit = %+v %v", h, ok)
	}
	if h.Cursor() != CursorResizeNWSE {
		t.Fatalf("cursor = %s", h.Cursor())
	}
	h, ok = mt.HandleAt(r, geom.P(260, 210), 1)
	if !ok || h.Kind != RotateHandle || h.Corner != geom.BottomRight {
		t.Fatalf("rotate hit = %+v %v", h, ok)
	}
	h, _ = mt.HandleAt(r, geom.P(140, 90), 1)
	if h.Kind != RotateHandle || h.Cursor() != CursorRotate {
		t.Fatalf("top-left rotate = %+v", h)
	}
	if _, ok := mt.HandleAt(r, geom.P(200, 150), 1); ok {
		t.Fatalf("center should not hit a handle")
	}
	// at 2x zoom handles shrink in world units
	if _, ok := mt.HandleAt(r, geom.P(260, 210), 2); ok {
		t.Fatalf("rotate region should shrink with zoom")
	}
	if ResizeCursor(geom.TopRight) != CursorResizeNESW {
		t.Fatalf("top-right cursor wrong")
	}
}

func TestResizeBottomRight(t *testing.T) {
	m := scene.NewModel()
	newRect(t, m)
	c := NewController(m)
	if err := c.BeginHandle("r", Handle{Kind: ResizeHandle, Corner: geom.BottomRight}, geom.P(250, 200)); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := c.Move(geom.P(300, 250), false); err != nil {
		t.Fatalf("move: %v", err)
	}
	r, _ := m.Rect("r")
	if r.Size.W != 150 || r.Size.H != 150 || r.Position != geom.P(225, 175) {
		t.Fatalf("after resize %+v", r)
	}
	// opposite corner stays fixed
	if tl := r.Corner(geom.TopLeft); !near(tl.X, 150) || !near(tl.Y, 100) {
		t.Fatalf("top-left moved to %v", tl)
	}
	if g, id := c.End(); g != GestureResize || id != "r" {
		t.Fatalf("End = %s %s", g, id)
	}
}

func TestResizeThroughOppositeEdgeFlipsCorner(t *testing.T) {
	m := scene.NewModel()
	newRect(t, m)
	c := NewController(m)
	_ = c.BeginHandle("r", Handle{Kind: ResizeHandle, Corner: geom.BottomRight}, geom.P(250, 200))
	_, _ = c.Move(geom.P(130, 200), false)
	r, _ := m.Rect("r")
	if r.Size.W != 20 {
		t.Fatalf("width = %v", r.Size.W)
	}
	if c.Corner() != geom.BottomLeft {
		t.Fatalf("corner = %s", c.Corner())
	}
}

func TestShiftResizeIsSquare(t *testing.T) {
	m := scene.NewModel()
	newRect(t, m)
	c := NewController(m)
	_ = c.BeginHandle("r", Handle{Kind: ResizeHandle, Corner: geom.BottomRight}, geom.P(250, 200))
	_, _ = c.Move(geom.P(290, 205), true)
	r, _ := m.Rect("r")
	if r.Size.W != r.Size.H {
		t.Fatalf("not square: %+v", r.Size)
	}
}

func TestRotateFollowsPointer(t *testing.T) {
	m := scene.NewModel()
	newRect(t, m)
	c := NewController(m)
	// grab to the right of the center, swing to below it
	if err := c.BeginHandle("r", Handle{Kind: RotateHandle, Corner: geom.BottomRight}, geom.P(300, 150)); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_, _ = c.Move(geom.P(200, 250), false)
	r, _ := m.Rect("r")
	if !near(r.Rotation, 90) {
		t.Fatalf("rotation = %v, want 90", r.Rotation)
	}
}

func TestFullTurnWrapsRotation(t *testing.T) {
	m := scene.NewModel()
	newRect(t, m)
	c := NewController(m)
	center := geom.P(200, 150)
	_ = c.BeginHandle("r", Handle{Kind: RotateHandle}, center.Add(geom.P(80, 0)))
	for i := 1; i <= 36; i++ {
		a := geom.Rad(float64(i * 10))
		_, _ = c.Move(center.Add(geom.P(80*math.Cos(a), 80*math.Sin(a))), false)
		r, _ := m.Rect("r")
		if r.Rotation < 0 || r.Rotation >= 360 {
			t.Fatalf("rotation %v out of range at step %d", r.Rotation, i)
		}
	}
	r, _ := m.Rect("r")
	if !near(r.Rotation, 0) && !near(r.Rotation, 360) {
		t.Fatalf("rotation after full turn = %v", r.Rotation)
	}
}

func TestDragCarriesAnchoredArrows(t *testing.T) {
	m := scene.NewModel()
	newRect(t, m)
	_, _ = m.Add(&scene.Arrow{ID: "a", Points: []geom.Pt{geom.P(200, 150), geom.P(500, 150)}, From: "r"})
	c := NewController(m)
	if err := c.BeginDrag("r", geom.P(200, 150)); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_, _ = c.Move(geom.P(210, 160), false)
	_, _ = c.Move(geom.P(230, 170), false)
	r, _ := m.Rect("r")
	if r.Position != geom.P(230, 170) {
		t.Fatalf("position = %v", r.Position)
	}
	a, _ := m.Arrow("a")
	if a.Start() != geom.P(230, 170) || a.End() != geom.P(500, 150) {
		t.Fatalf("arrow = %v", a.Points)
	}
	if err := c.BeginDrag("missing", geom.Pt{}); err == nil {
		t.Fatalf("expected error for unknown rect")
	}
}
