/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"whiteboard/internal/geom"
)

func rect(id string, x, y, w, h float64) *Rect {
	return &Rect{ID: id, Fill: MustHex("#ffd6e7"), Position: geom.Pt{X: x, Y: y}, Size: geom.Size{W: w, H: h}}
}

func arrow(id, from, to string, pts ...geom.Pt) *Arrow {
	return &Arrow{ID: id, Points: pts, Stroke: Black, StrokeWidth: 2, Dash: Solid, HeadAtEnd: true, From: from, To: to}
}

func TestAddAssignsTypedIDs(t *testing.T) {
	m := NewModel()
	id, err := m.Add(&Rect{Size: geom.Size{W: 10, H: 10}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.HasPrefix(id, "rect_") {
		t.Fatalf("unexpected id %q", id)
	}
	if err := ValidateID(id, KindRect); err != nil {
		t.Fatalf("ValidateID: %v", err)
	}
	aid, err := m.Add(&Arrow{Points: []geom.Pt{{}, {X: 1}}})
	if err != nil {
		t.Fatalf("add arrow: %v", err)
	}
	if err := ValidateID(aid, KindRect); err == nil {
		t.Fatalf("expected prefix mismatch for %q", aid)
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	m := NewModel()
	if _, err := m.Add(rect("r1", 0, 0, 10, 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := m.Add(rect("r1", 5, 5, 10, 10)); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := m.Remove("r1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := m.Add(rect("r1", 0, 0, 10, 10)); !errors.Is(err, ErrRetiredID) {
		t.Fatalf("expected ErrRetiredID, got %v", err)
	}
}

func TestCopiesDoNotAliasModel(t *testing.T) {
	m := NewModel()
	_, _ = m.Add(rect("r1", 0, 0, 10, 10))
	_, _ = m.Add(arrow("a1", "", "", geom.Pt{}, geom.Pt{X: 5}))
	r, _ := m.Rect("r1")
	r.Size.W = 999
	a, _ := m.Arrow("a1")
	a.Points[0] = geom.Pt{X: 42}
	if got, _ := m.Rect("r1"); got.Size.W != 10 {
		t.Fatalf("rect copy leaked into the model")
	}
	if got, _ := m.Arrow("a1"); got.Points[0].X != 0 {
		t.Fatalf("arrow copy leaked into the model")
	}
}

func TestUpdateRectNormalizes(t *testing.T) {
	m := NewModel()
	_, _ = m.Add(rect("r1", 0, 0, 10, 10))
	err := m.UpdateRect("r1", func(r *Rect) {
		r.ID = "hijack"
		r.Size = geom.Size{W: -20, H: 5}
		r.Rotation = -90
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	r, ok := m.Rect("r1")
	if !ok {
		t.Fatalf("id changed by update")
	}
	if r.Size.W != 20 || r.Rotation != 270 {
		t.Fatalf("not normalized: %+v", r)
	}
	if err := m.UpdateArrow("r1", func(*Arrow) {}); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if err := m.UpdateRect("nope", func(*Rect) {}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveClearsArrowRefs(t *testing.T) {
	m := NewModel()
	_, _ = m.Add(rect("r1", 0, 0, 10, 10))
	_, _ = m.Add(rect("r2", 50, 0, 10, 10))
	_, _ = m.Add(arrow("a1", "r1", "r2", geom.Pt{}, geom.Pt{X: 50}))
	if _, err := m.Remove("r2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	a, _ := m.Arrow("a1")
	if a.From != "r1" || a.To != "" {
		t.Fatalf("refs after remove: from=%q to=%q", a.From, a.To)
	}
}

func TestAddDropsDeadRefs(t *testing.T) {
	m := NewModel()
	_, _ = m.Add(arrow("a0", "", "", geom.Pt{}, geom.Pt{X: 1}))
	_, _ = m.Add(arrow("a1", "ghost", "a0", geom.Pt{}, geom.Pt{X: 1}))
	a, _ := m.Arrow("a1")
	if a.From != "" || a.To != "" {
		t.Fatalf("refs to missing or non-rect shapes kept: %+v", a)
	}
}

func TestRemoveLast(t *testing.T) {
	m := NewModel()
	for _, id := range []string{"s1", "s2", "s3"} {
		_, _ = m.Add(rect(id, 0, 0, 1, 1))
	}
	if s, ok := m.RemoveLast(); !ok || s.ShapeID() != "s3" {
		t.Fatalf("RemoveLast removed %v", s)
	}
	if got := strings.Join(m.IDs(), ","); got != "s1,s2" {
		t.Fatalf("ids = %s", got)
	}
	empty := NewModel()
	if _, ok := empty.RemoveLast(); ok {
		t.Fatalf("RemoveLast on empty model should report false")
	}
	if empty.Len() != 0 {
		t.Fatalf("empty model changed")
	}
}

func TestHitTestTopmostAndRotation(t *testing.T) {
	m := NewModel()
	_, _ = m.Add(rect("bottom", 0, 0, 100, 100))
	_, _ = m.Add(rect("top", 10, 0, 40, 40))
	s, ok := m.ShapeAt(geom.Pt{X: 10, Y: 0}, 0)
	if !ok || s.ShapeID() != "top" {
		t.Fatalf("expected topmost hit, got %v", s)
	}
	// a thin rect rotated 90 degrees becomes tall
	_, _ = m.Add(&Rect{ID: "bar", Position: geom.Pt{X: 500, Y: 500}, Size: geom.Size{W: 100, H: 10}, Rotation: 90})
	if _, ok := m.RectAt(geom.Pt{X: 500, Y: 540}); !ok {
		t.Fatalf("rotated rect should contain point along its long axis")
	}
	if _, ok := m.RectAt(geom.Pt{X: 540, Y: 500}); ok {
		t.Fatalf("rotated rect should not contain point on its old axis")
	}
}

func TestArrowHitAndJSON(t *testing.T) {
	a := arrow("a1", "r1", "", geom.Pt{}, geom.Pt{X: 100})
	if !a.Hit(geom.Pt{X: 50, Y: 15}, 20) || a.Hit(geom.Pt{X: 50, Y: 30}, 20) {
		t.Fatalf("arrow hit tolerance wrong")
	}
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"kind":"arrow"`) || !strings.Contains(s, `"from":"r1"`) || !strings.Contains(s, `"stroke":"#000000"`) {
		t.Fatalf("unexpected json: %s", s)
	}
	if got := a.Flat(); len(got) != 4 || got[2] != 100 {
		t.Fatalf("flat points = %v", got)
	}
}

func TestClearRetiresIDs(t *testing.T) {
	m := NewModel()
	_, _ = m.Add(rect("r1", 0, 0, 1, 1))
	if ids := m.Clear(); len(ids) != 1 || m.Len() != 0 {
		t.Fatalf("clear = %v, len %d", ids, m.Len())
	}
	if _, err := m.Add(rect("r1", 0, 0, 1, 1)); !errors.Is(err, ErrRetiredID) {
		t.Fatalf("expected retired id after clear, got %v", err)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#1677ff")
	if err != nil || c != (Color{0x16, 0x77, 0xff, 0xff}) {
		t.Fatalf("ParseHex = %+v, %v", c, err)
	}
	if c, _ := ParseHex("#fff"); c != White {
		t.Fatalf("short hex = %+v", c)
	}
	if _, err := ParseHex("nope"); err == nil {
		t.Fatalf("expected error")
	}
	if h := (Color{1, 2, 3, 4}).Hex(); h != "#01020304" {
		t.Fatalf("Hex = %s", h)
	}
}
