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

	"whiteboard/internal/geom"
)

// Kind tags the Shape variants.
type Kind string

const (
	KindRect  Kind = "rect"
	KindArrow Kind = "arrow"
)

// ArrowTension is the smoothing applied to arrows with a control point.
const ArrowTension = 0.25

// curveSteps is the sample count per curve segment for hit-testing and bounds.
const curveSteps = 16

// Shape is the tagged union of scene elements. The set is closed: *Rect and *Arrow.
type Shape interface {
	ShapeID() string
	Kind() Kind
	// Bounds is the world-space axis-aligned bounding box.
	Bounds() geom.Rect
	// Hit reports whether world point p lies on the shape, with tol slack for strokes.
	Hit(p geom.Pt, tol float64) bool
	clone() Shape
}

// Rect is a rectangle centered at Position, rotated by Rotation degrees about its center.
type Rect struct {
	ID       string    `json:"id"`
	Fill     Color     `json:"fill"`
	Position geom.Pt   `json:"position"`
	Size     geom.Size `json:"size"`
	Rotation float64   `json:"rotation"`
}

func (r *Rect) ShapeID() string { return r.ID }
func (r *Rect) Kind() Kind      { return KindRect }
func (r *Rect) clone() Shape    { c := *r; return &c }

// Frame maps local coordinates (origin at the unrotated top-left) to world space.
func (r *Rect) Frame() geom.Affine2D { return geom.LocalFrame(r.Position, r.Size, r.Rotation) }

// ToLocal maps a world point into the rect's local frame.
func (r *Rect) ToLocal(p geom.Pt) geom.Pt {
	return geom.ToLocal(p.Sub(r.Position), r.Rotation).Add(r.Size.Half())
}

// Corner returns the world position of corner c.
func (r *Rect) Corner(c geom.Corner) geom.Pt {
	return geom.CornerWorld(r.Position, r.Size, r.Rotation, c)
}

// Outline returns the four world-space corners in clockwise order from top-left.
func (r *Rect) Outline() [4]geom.Pt {
	var out [4]geom.Pt
	for i, c := range geom.Corners {
		out[i] = r.Corner(c)
	}
	return out
}

func (r *Rect) Bounds() geom.Rect {
	o := r.Outline()
	return geom.BoundsOf(o[:]...)
}

func (r *Rect) Hit(p geom.Pt, _ float64) bool {
	l := r.ToLocal(p)
	return l.X >= 0 && l.Y >= 0 && l.X <= r.Size.W && l.Y <= r.Size.H
}

func (r *Rect) MarshalJSON() ([]byte, error) {
	type plain Rect
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*plain
	}{KindRect, (*plain)(r)})
}

// Arrow is a connector. Points holds the start, an optional control point, and the end.
// From and To are ids of anchor rects, empty when unanchored.
type Arrow struct {
	ID          string    `json:"id"`
	Fill        Color     `json:"fill"`
	Points      []geom.Pt `json:"points"`
	Stroke      Color     `json:"stroke"`
	StrokeWidth float64   `json:"strokeWidth"`
	Dash        Dash      `json:"dash"`
	HeadAtEnd   bool      `json:"headAtEnd"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
}

func (a *Arrow) ShapeID() string { return a.ID }
func (a *Arrow) Kind() Kind      { return KindArrow }

func (a *Arrow) clone() Shape {
	c := *a
	c.Points = append([]geom.Pt(nil), a.Points...)
	return &c
}

func (a *Arrow) Start() geom.Pt {
	if len(a.Points) == 0 {
		return geom.Pt{}
	}
	return a.Points[0]
}

func (a *Arrow) End() geom.Pt {
	if len(a.Points) == 0 {
		return geom.Pt{}
	}
	return a.Points[len(a.Points)-1]
}

// Control returns the middle point of a curved arrow.
func (a *Arrow) Control() (geom.Pt, bool) {
	if len(a.Points) < 3 {
		return geom.Pt{}, false
	}
	return a.Points[len(a.Points)/2], true
}

// Flat returns the points as [x0, y0, x1, y1, ...].
func (a *Arrow) Flat() []float64 {
	out := make([]float64, 0, 2*len(a.Points))
	for _, p := range a.Points {
		out = append(out, p.X, p.Y)
	}
	return out
}

// Path is the rendered centerline: a tension curve when a control point exists.
func (a *Arrow) Path() geom.Path { return geom.Spline(a.Points, ArrowTension) }

// Polyline is the flattened centerline.
func (a *Arrow) Polyline() []geom.Pt {
	lines := a.Path().Flatten(curveSteps)
	if len(lines) == 0 {
		return nil
	}
	return lines[0]
}

func (a *Arrow) Bounds() geom.Rect { return geom.BoundsOf(a.Polyline()...) }

func (a *Arrow) Hit(p geom.Pt, tol float64) bool {
	return geom.PolylineDist(p, a.Polyline()) <= tol
}

// Anchored reports whether the arrow references id at either end.
func (a *Arrow) Anchored(id string) bool { return id != "" && (a.From == id || a.To == id) }

func (a *Arrow) MarshalJSON() ([]byte, error) {
	type plain Arrow
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*plain
	}{KindArrow, (*plain)(a)})
}
