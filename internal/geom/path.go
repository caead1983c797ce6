/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Path commands and tension curves.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	QuadTo  // quadratic bezier (cx, cy, x, y)
	CubicTo // cubic bezier (cx1, cy1, cx2, cy2, x, y)
	Close
)

func (op PathOp) String() string {
	switch op {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	case CubicTo:
		return "C"
	default:
		return "Z"
	}
}

type PathCmd struct {
	Op   PathOp
	Data [6]float64 // enough for cubic; unused slots are zero
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(pt Pt) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{pt.X, pt.Y}})
}
func (p *Path) LineTo(pt Pt) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{pt.X, pt.Y}})
}
func (p *Path) QuadTo(c, pt Pt) {
	p.Cmds = append(p.Cmds, PathCmd{Op: QuadTo, Data: [6]float64{c.X, c.Y, pt.X, pt.Y}})
}
func (p *Path) CubicTo(c1, c2, pt Pt) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Data: [6]float64{c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Transform returns a copy of the path with every coordinate mapped through m.
func (p Path) Transform(m Affine2D) Path {
	out := Path{Cmds: make([]PathCmd, len(p.Cmds))}
	for i, c := range p.Cmds {
		nc := PathCmd{Op: c.Op}
		n := 0
		switch c.Op {
		case MoveTo, LineTo:
			n = 1
		case QuadTo:
			n = 2
		case CubicTo:
			n = 3
		}
		for k := 0; k < n; k++ {
			q := m.Apply(Pt{c.Data[2*k], c.Data[2*k+1]})
			nc.Data[2*k], nc.Data[2*k+1] = q.X, q.Y
		}
		out.Cmds[i] = nc
	}
	return out
}

// Flatten approximates the path by line segments, with steps samples per curve.
// Each subpath starts a new polyline.
func (p Path) Flatten(steps int) [][]Pt {
	if steps < 1 {
		steps = 1
	}
	var out [][]Pt
	var cur []Pt
	var start, last Pt
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			flush()
			last = Pt{c.Data[0], c.Data[1]}
			start = last
			cur = []Pt{last}
		case LineTo:
			last = Pt{c.Data[0], c.Data[1]}
			cur = append(cur, last)
		case QuadTo:
			c1, end := Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				cur = append(cur, last.Mul(u*u).Add(c1.Mul(2*u*t)).Add(end.Mul(t*t)))
			}
			last = end
		case CubicTo:
			c1, c2, end := Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}, Pt{c.Data[4], c.Data[5]}
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				cur = append(cur, last.Mul(u*u*u).Add(c1.Mul(3*u*u*t)).Add(c2.Mul(3*u*t*t)).Add(end.Mul(t*t*t)))
			}
			last = end
		case Close:
			cur = append(cur, start)
			last = start
		}
	}
	flush()
	return out
}

// Bounds returns an axis-aligned bounding box that contains all points and
// control points of the path.
func (p Path) Bounds() Rect {
	var pts []Pt
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo, LineTo:
			pts = append(pts, Pt{c.Data[0], c.Data[1]})
		case QuadTo:
			pts = append(pts, Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]})
		case CubicTo:
			pts = append(pts, Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}, Pt{c.Data[4], c.Data[5]})
		}
	}
	return BoundsOf(pts...)
}

// Polygon returns a closed path through pts.
func Polygon(pts ...Pt) Path {
	var p Path
	if len(pts) == 0 {
		return p
	}
	p.MoveTo(pts[0])
	for _, q := range pts[1:] {
		p.LineTo(q)
	}
	p.Close()
	return p
}

// Spline builds an open cardinal curve through pts. With tension 0 or fewer
// than three points it is a plain polyline. Interior points get a pair of
// control points along the chord of their neighbours, weighted by segment
// length; the outer segments are quadratic and the inner ones cubic.
func Spline(pts []Pt, tension float64) Path {
	var p Path
	if len(pts) == 0 {
		return p
	}
	p.MoveTo(pts[0])
	if tension == 0 || len(pts) < 3 {
		for _, q := range pts[1:] {
			p.LineTo(q)
		}
		return p
	}
	// ctl[i] holds the in/out control points of interior point i+1.
	ctl := make([][2]Pt, 0, len(pts)-2)
	for i := 1; i < len(pts)-1; i++ {
		ctl = append(ctl, controlPoints(pts[i-1], pts[i], pts[i+1], tension))
	}
	p.QuadTo(ctl[0][0], pts[1])
	for i := 1; i < len(ctl); i++ {
		p.CubicTo(ctl[i-1][1], ctl[i][0], pts[i+1])
	}
	p.QuadTo(ctl[len(ctl)-1][1], pts[len(pts)-1])
	return p
}

func controlPoints(p0, p1, p2 Pt, t float64) [2]Pt {
	d01 := p0.Dist(p1)
	d12 := p1.Dist(p2)
	if d01+d12 == 0 {
		return [2]Pt{p1, p1}
	}
	fa := t * d01 / (d01 + d12)
	fb := t * d12 / (d01 + d12)
	chord := p2.Sub(p0)
	return [2]Pt{p1.Sub(chord.Mul(fa)), p1.Add(chord.Mul(fb))}
}

// Circle approximates a circle with four cubic arcs.
func Circle(c Pt, r float64) Path {
	const k = 0.5522847498
	var p Path
	p.MoveTo(Pt{c.X + r, c.Y})
	p.CubicTo(Pt{c.X + r, c.Y + k*r}, Pt{c.X + k*r, c.Y + r}, Pt{c.X, c.Y + r})
	p.CubicTo(Pt{c.X - k*r, c.Y + r}, Pt{c.X - r, c.Y + k*r}, Pt{c.X - r, c.Y})
	p.CubicTo(Pt{c.X - r, c.Y - k*r}, Pt{c.X - k*r, c.Y - r}, Pt{c.X, c.Y - r})
	p.CubicTo(Pt{c.X + k*r, c.Y - r}, Pt{c.X + r, c.Y - k*r}, Pt{c.X + r, c.Y})
	p.Close()
	return p
}

// Canvas returns the path in Canvas2D segment form: ["M", x, y], ["Q", cx, cy, x, y], ...
func (p Path) Canvas() [][]any {
	out := make([][]any, 0, len(p.Cmds))
	for _, c := range p.Cmds {
		seg := []any{c.Op.String()}
		switch c.Op {
		case MoveTo, LineTo:
			seg = append(seg, c.Data[0], c.Data[1])
		case QuadTo:
			seg = append(seg, c.Data[0], c.Data[1], c.Data[2], c.Data[3])
		case CubicTo:
			seg = append(seg, c.Data[0], c.Data[1], c.Data[2], c.Data[3], c.Data[4], c.Data[5])
		}
		out = append(out, seg)
	}
	return out
}
