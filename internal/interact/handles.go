/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package interact implements direct manipulation of rects: handle layout and
// hit-testing, cursor affordances, and the drag, resize and rotate gestures.
package interact

import (
	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

// Metrics are handle sizes in screen pixels. They are divided by the viewport
// scale so handles keep a constant on-screen size at any zoom.
type Metrics struct {
	ScaleSize     float64
	ScaleOffset   float64
	RotateSize    float64
	ArrowRadius   float64
	ArrowHitWidth float64
	HoverStroke   float64
	OutlineStroke float64
}

func DefaultMetrics() Metrics {
	return Metrics{
		ScaleSize:     8,
		ScaleOffset:   4.5,
		RotateSize:    16,
		ArrowRadius:   8,
		ArrowHitWidth: 40,
		HoverStroke:   4,
		OutlineStroke: 2,
	}
}

// HitTolerance is the world-space slack used when hit-testing arrow strokes.
func (m Metrics) HitTolerance(scale float64) float64 { return m.ArrowHitWidth / 2 / scale }

// ArrowHandleRadius is the world-space radius of arrow handles.
func (m Metrics) ArrowHandleRadius(scale float64) float64 { return m.ArrowRadius / scale }

// HandleKind distinguishes the two handle families of a selected rect.
type HandleKind int

const (
	NoHandle HandleKind = iota
	ResizeHandle
	RotateHandle
)

// Handle identifies a handle by family and corner.
type Handle struct {
	Kind   HandleKind
	Corner geom.Corner
}

// Boxes are the handle regions of one corner, in the rect's local frame.
type Boxes struct {
	Corner geom.Corner
	Resize geom.Rect
	Rotate geom.Rect
}

// Layout returns the handle regions of r at the given viewport scale. Resize
// squares are centered on the corners; rotate squares sit just outside them.
func (m Metrics) Layout(r scene.Rect, scale float64) [4]Boxes {
	ss, off, rs := m.ScaleSize/scale, m.ScaleOffset/scale, m.RotateSize/scale
	var out [4]Boxes
	for i, c := range geom.Corners {
		cl := c.Local(r.Size)
		sx, sy := c.Sign()
		rx, ry := cl.X, cl.Y
		if sx < 0 {
			rx -= rs
		}
		if sy < 0 {
			ry -= rs
		}
		out[i] = Boxes{
			Corner: c,
			Resize: geom.R(cl.X-off, cl.Y-off, ss, ss),
			Rotate: geom.R(rx, ry, rs, rs),
		}
	}
	return out
}

// HandleAt hit-tests the handles of r at world point p. Resize handles take
// priority over rotate regions.
func (m Metrics) HandleAt(r scene.Rect, p geom.Pt, scale float64) (Handle, bool) {
	l := r.ToLocal(p)
	boxes := m.Layout(r, scale)
	for _, b := range boxes {
		if b.Resize.Contains(l) {
			return Handle{Kind: ResizeHandle, Corner: b.Corner}, true
		}
	}
	for _, b := range boxes {
		if b.Rotate.Contains(l) {
			return Handle{Kind: RotateHandle, Corner: b.Corner}, true
		}
	}
	return Handle{}, false
}

// Cursor is the pointer affordance shown by the host.
type Cursor string

const (
	CursorDefault    Cursor = "default"
	CursorResizeNWSE Cursor = "nwse-resize"
	CursorResizeNESW Cursor = "nesw-resize"
	CursorRotate     Cursor = "rotate"
	CursorCrosshair  Cursor = "crosshair"
	CursorPointer    Cursor = "pointer"
	CursorGrabbing   Cursor = "grabbing"
)

// ResizeCursor maps a corner to its diagonal resize cursor.
func ResizeCursor(c geom.Corner) Cursor {
	switch c {
	case geom.TopLeft, geom.BottomRight:
		return CursorResizeNWSE
	}
	return CursorResizeNESW
}

// Cursor returns the affordance of a handle.
func (h Handle) Cursor() Cursor {
	switch h.Kind {
	case ResizeHandle:
		return ResizeCursor(h.Corner)
	case RotateHandle:
		return CursorRotate
	}
	return CursorDefault
}
