/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"math"
	"math/rand"
	"testing"

	"whiteboard/internal/geom"
)

func almostEq(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestScreenWorldRoundTrip(t *testing.T) {
	v := Viewport{Scale: 2, Offset: geom.Pt{X: 10, Y: -5}}
	w := v.ScreenToWorld(geom.Pt{X: 30, Y: 15})
	if w != (geom.Pt{X: 10, Y: 10}) {
		t.Fatalf("screenToWorld = %+v", w)
	}
	if s := v.WorldToScreen(w); s != (geom.Pt{X: 30, Y: 15}) {
		t.Fatalf("worldToScreen = %+v", s)
	}
	if s := v.Transform().Apply(w); s != (geom.Pt{X: 30, Y: 15}) {
		t.Fatalf("transform = %+v", s)
	}
}

func TestZoomKeepsPointerAnchored(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, mode := range []ZoomMode{Multiplicative, Additive} {
		opts := DefaultOptions()
		opts.Mode = mode
		c := NewController(opts)
		for i := 0; i < 500; i++ {
			p := geom.Pt{X: r.Float64() * 1600, Y: r.Float64() * 900}
			before := c.Viewport().ScreenToWorld(p)
			dir := 1
			if r.Intn(2) == 0 {
				dir = -1
			}
			c.Zoom(p, dir)
			after := c.Viewport().ScreenToWorld(p)
			if !almostEq(before.X, after.X, 1e-6) || !almostEq(before.Y, after.Y, 1e-6) {
				t.Fatalf("%s step %d: world under pointer moved %+v -> %+v", mode, i, before, after)
			}
		}
	}
}

func TestZoomClampsToBounds(t *testing.T) {
	c := NewController(DefaultOptions())
	for i := 0; i < 100; i++ {
		c.Zoom(geom.Pt{}, 1)
	}
	if s := c.Viewport().Scale; s != 4.0 {
		t.Fatalf("scale = %v, want max 4", s)
	}
	if c.Zoom(geom.Pt{}, 1) {
		t.Fatalf("zoom past max should report no change")
	}
	for i := 0; i < 100; i++ {
		c.Zoom(geom.Pt{}, -1)
	}
	if s := c.Viewport().Scale; s != 0.1 {
		t.Fatalf("scale = %v, want min 0.1", s)
	}
}

func TestAdditiveZoomRoundsToOneDecimal(t *testing.T) {
	c := NewController(Options{Mode: Additive, Step: 0.1, MinScale: 0.5, MaxScale: 2})
	c.Zoom(geom.Pt{}, 1)
	c.Zoom(geom.Pt{}, 1)
	c.Zoom(geom.Pt{}, 1)
	if s := c.Viewport().Scale; s != 1.3 {
		t.Fatalf("scale = %v, want 1.3", s)
	}
	if p := c.Viewport().Percent(); p != 130 {
		t.Fatalf("percent = %d", p)
	}
}

func TestPanAndReset(t *testing.T) {
	c := NewController(DefaultOptions())
	c.Pan(geom.Pt{X: 5, Y: 7})
	c.Zoom(geom.Pt{X: 100, Y: 100}, 1)
	if c.Viewport().Offset == (geom.Pt{}) {
		t.Fatalf("expected offset after pan")
	}
	if !c.ResetZoom() {
		t.Fatalf("reset should report a change")
	}
	if c.Viewport() != Identity() {
		t.Fatalf("reset viewport = %+v", c.Viewport())
	}
	if c.ResetZoom() {
		t.Fatalf("second reset should be a no-op")
	}
}
