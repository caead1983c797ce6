/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom holds the pure 2D math used by the editor: points, sizes,
// axis-aligned rects, affine transforms, rotation between a shape's local
// frame and world space, and pointer angles around a pivot.
package geom

import "math"

// Pt is a 2D point or vector.
type Pt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

func P(x, y float64) Pt             { return Pt{X: x, Y: y} }
func R(x, y, w, h float64) Rect     { return Rect{X: x, Y: y, W: w, H: h} }
func (p Pt) Add(o Pt) Pt            { return Pt{p.X + o.X, p.Y + o.Y} }
func (p Pt) Sub(o Pt) Pt            { return Pt{p.X - o.X, p.Y - o.Y} }
func (p Pt) Mul(k float64) Pt       { return Pt{p.X * k, p.Y * k} }
func (p Pt) Div(k float64) Pt       { return Pt{p.X / k, p.Y / k} }
func (p Pt) Len() float64           { return math.Hypot(p.X, p.Y) }
func (p Pt) Dist(o Pt) float64      { return p.Sub(o).Len() }
func (p Pt) Mid(o Pt) Pt            { return Pt{(p.X + o.X) / 2, (p.Y + o.Y) / 2} }
func (r Rect) Min() Pt              { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt              { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Pt           { return Pt{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Translate(d Pt) Rect  { return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H} }
func (s Size) Half() Pt             { return Pt{s.W / 2, s.H / 2} }
func (s Size) Abs() Size            { return Size{math.Abs(s.W), math.Abs(s.H)} }
func RectAround(c Pt, s Size) Rect  { return Rect{X: c.X - s.W/2, Y: c.Y - s.H/2, W: s.W, H: s.H} }
func SquareAround(c Pt, side float64) Rect { return RectAround(c, Size{side, side}) }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// BoundsOf returns the axis-aligned bounds of a point set. Empty input yields the zero Rect.
func BoundsOf(pts ...Pt) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
// stored as [a b c d e f].
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Slice returns [a b c d e f], the Canvas2D setTransform order.
func (m Affine2D) Slice() []float64 { return []float64{m.A, m.B, m.C, m.D, m.E, m.F} }

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }
func Rotate(rad float64) Affine2D {
	c := math.Cos(rad)
	s := math.Sin(rad)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// LocalFrame maps a shape's local coordinates (origin at its unrotated top-left
// corner) into world space for a shape centered at c with size s rotated by deg.
func LocalFrame(c Pt, s Size, deg float64) Affine2D {
	return Translate(c.X, c.Y).Mul(Rotate(Rad(deg))).Mul(Translate(-s.W/2, -s.H/2))
}

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180 / math.Pi }

// ToLocal rotates a world-space vector into a frame rotated by deg.
func ToLocal(v Pt, deg float64) Pt {
	sin, cos := math.Sincos(Rad(deg))
	return Pt{
		X: v.X*cos + v.Y*sin,
		Y: -v.X*sin + v.Y*cos,
	}
}

// ToWorld rotates a local vector back into world space. Inverse of ToLocal.
func ToWorld(v Pt, deg float64) Pt {
	sin, cos := math.Sincos(Rad(deg))
	return Pt{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// AngleDeg is the angle in degrees of p around pivot, atan2(p.y-c.y, p.x-c.x).
func AngleDeg(p, pivot Pt) float64 {
	return Deg(math.Atan2(p.Y-pivot.Y, p.X-pivot.X))
}

// WrapDeg folds an angle into [0, 360).
func WrapDeg(deg float64) float64 {
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	if w >= 360 {
		w = 0
	}
	return w
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// SegmentDist is the distance from p to the segment ab.
func SegmentDist(p, a, b Pt) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Mul(t)))
}

// PolylineDist is the minimum distance from p to any segment of pts.
func PolylineDist(p Pt, pts []Pt) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist(pts[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		best = math.Min(best, SegmentDist(p, pts[i-1], pts[i]))
	}
	return best
}
