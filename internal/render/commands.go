/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render turns an editor Frame into draw commands and paints them,
// either into an anti-aliased RGBA image or into a PDF page.
package render

import (
	"encoding/json"
	"fmt"
	"math"

	"whiteboard/internal/connector"
	"whiteboard/internal/editor"
	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

// Arrowhead size in world units.
const (
	headLength = 10
	headWidth  = 10
)

// Label layout in screen pixels.
const (
	labelFontSize = 13
	labelIDOffset = 5
	labelWHOffset = 30
)

// DrawCommand is a single drawing operation in painter's order. Paths are in
// the local space of Transform, which maps all the way to screen pixels.
type DrawCommand struct {
	Op          string    `json:"op"` // "clear", "path", "text"
	ObjectID    string    `json:"objectId,omitempty"`
	Role        string    `json:"role,omitempty"`
	Transform   []float64 `json:"transform,omitempty"` // [a, b, c, d, e, f]
	Path        [][]any   `json:"path,omitempty"`
	Closed      bool      `json:"closed,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
	Opacity     float64   `json:"opacity,omitempty"`
	Text        string    `json:"text,omitempty"`
	X           float64   `json:"x,omitempty"`
	Y           float64   `json:"y,omitempty"`
	FontSize    float64   `json:"fontSize,omitempty"`

	geometry geom.Path
	matrix   geom.Affine2D
}

// Roles tag commands so hosts can style or skip overlays.
const (
	RoleShape   = "shape"
	RoleHead    = "head"
	RoleHover   = "hover"
	RoleOutline = "outline"
	RoleHandle  = "handle"
	RoleLabel   = "label"
	RoleDraft   = "draft"
)

func pathCmd(id, role string, m geom.Affine2D, p geom.Path) DrawCommand {
	closed := len(p.Cmds) > 0 && p.Cmds[len(p.Cmds)-1].Op == geom.Close
	return DrawCommand{
		Op:        "path",
		ObjectID:  id,
		Role:      role,
		Transform: m.Slice(),
		Path:      p.Canvas(),
		Closed:    closed,
		Opacity:   1,
		geometry:  p,
		matrix:    m,
	}
}

type compiler struct {
	f     editor.Frame
	vp    geom.Affine2D
	scale float64
	out   []DrawCommand
}

// Compile generates the command buffer for f. Shapes come first in model
// order, then the draft, then hover and selection overlays.
func Compile(f editor.Frame) []DrawCommand {
	c := &compiler{f: f, vp: f.Viewport.Transform(), scale: f.Viewport.Scale}
	if c.scale <= 0 {
		c.scale = 1
	}
	c.out = append(c.out, DrawCommand{Op: "clear", Fill: f.Style.Background.Hex(), Opacity: 1})
	idle := f.Gesture == "" || f.Gesture == "idle"
	for _, s := range f.Shapes {
		hovered := s.ShapeID() == f.Hover
		switch v := s.(type) {
		case *scene.Rect:
			c.rect(v, RoleShape)
			if hovered {
				c.rectOutline(v, RoleHover, f.Handles.HoverStroke)
			}
		case *scene.Arrow:
			c.arrow(v, RoleShape, hovered && idle)
		}
	}
	if f.Draft != nil {
		start := len(c.out)
		switch v := f.Draft.(type) {
		case *scene.Rect:
			c.rect(v, RoleDraft)
		case *scene.Arrow:
			c.arrow(v, RoleDraft, false)
		}
		for i := start; i < len(c.out); i++ {
			c.out[i].Opacity = 0.6
		}
	}
	if s, ok := f.Selected(); ok {
		switch v := s.(type) {
		case *scene.Rect:
			c.rectSelection(v)
		case *scene.Arrow:
			c.arrowSelection(v)
		}
	}
	return c.out
}

func (c *compiler) rect(r *scene.Rect, role string) {
	m := c.vp.Mul(r.Frame())
	cmd := pathCmd(r.ID, role, m, localBox(r.Size))
	cmd.Fill = r.Fill.Hex()
	c.out = append(c.out, cmd)
}

func localBox(s geom.Size) geom.Path {
	return geom.Polygon(geom.P(0, 0), geom.P(s.W, 0), geom.P(s.W, s.H), geom.P(0, s.H))
}

// rectOutline strokes r with a screen-constant width.
func (c *compiler) rectOutline(r *scene.Rect, role string, px float64) {
	cmd := pathCmd(r.ID, role, c.vp.Mul(r.Frame()), localBox(r.Size))
	cmd.Stroke = c.f.Style.Primary.Hex()
	cmd.StrokeWidth = px / c.scale
	c.out = append(c.out, cmd)
}

func (c *compiler) rectSelection(r *scene.Rect) {
	c.rectOutline(r, RoleOutline, 1)
	m := c.vp.Mul(r.Frame())
	for _, b := range c.f.Handles.Layout(*r, c.scale) {
		h := pathCmd(r.ID, RoleHandle, m, geom.Polygon(b.Resize.Min(), geom.P(b.Resize.X+b.Resize.W, b.Resize.Y), b.Resize.Max(), geom.P(b.Resize.X, b.Resize.Y+b.Resize.H)))
		h.Fill = scene.White.Hex()
		h.Stroke = c.f.Style.Primary.Hex()
		h.StrokeWidth = 1 / c.scale
		c.out = append(c.out, h)
	}
	if !c.f.Style.Labels {
		return
	}
	labels := []struct {
		text   string
		offset float64
	}{
		{r.ID, labelIDOffset},
		{fmt.Sprintf("%d x %d", int(math.Round(r.Size.W)), int(math.Round(r.Size.H))), labelWHOffset},
	}
	for _, l := range labels {
		c.out = append(c.out, DrawCommand{
			Op:        "text",
			ObjectID:  r.ID,
			Role:      RoleLabel,
			Transform: m.Slice(),
			Text:      l.text,
			X:         0,
			Y:         r.Size.H + l.offset/c.scale,
			FontSize:  labelFontSize,
			Fill:      c.f.Style.Primary.Hex(),
			Opacity:   1,
			matrix:    m,
		})
	}
}

func (c *compiler) arrow(a *scene.Arrow, role string, hovered bool) {
	stroke := a.Stroke
	if hovered {
		stroke = c.f.Style.Primary
	}
	line := pathCmd(a.ID, role, c.vp, a.Path())
	line.Stroke = stroke.Hex()
	line.StrokeWidth = a.StrokeWidth
	line.Dash = a.Dash.Pattern(a.StrokeWidth)
	c.out = append(c.out, line)
	if !a.HeadAtEnd {
		return
	}
	if head, ok := arrowHead(a.Polyline()); ok {
		cmd := pathCmd(a.ID, RoleHead, c.vp, head)
		fill := a.Fill
		if fill.A == 0 || hovered {
			fill = stroke
		}
		cmd.Fill = fill.Hex()
		c.out = append(c.out, cmd)
	}
}

// arrowHead is a triangle at the end of the polyline pointing along its last segment.
func arrowHead(pts []geom.Pt) (geom.Path, bool) {
	if len(pts) < 2 {
		return geom.Path{}, false
	}
	tip := pts[len(pts)-1]
	var tail geom.Pt
	found := false
	for i := len(pts) - 2; i >= 0; i-- {
		if pts[i] != tip {
			tail, found = pts[i], true
			break
		}
	}
	if !found {
		return geom.Path{}, false
	}
	d := tip.Sub(tail)
	d = d.Div(d.Len())
	n := geom.P(-d.Y, d.X)
	base := tip.Sub(d.Mul(headLength))
	return geom.Polygon(tip, base.Add(n.Mul(headWidth/2)), base.Sub(n.Mul(headWidth/2))), true
}

func (c *compiler) arrowSelection(a *scene.Arrow) {
	primary := c.f.Style.Primary.Hex()
	b := geom.BoundsOf(a.Start(), a.End())
	box := pathCmd(a.ID, RoleOutline, c.vp, geom.Polygon(b.Min(), geom.P(b.X+b.W, b.Y), b.Max(), geom.P(b.X, b.Y+b.H)))
	box.Stroke = primary
	box.StrokeWidth = c.f.Handles.OutlineStroke / c.scale
	c.out = append(c.out, box)

	start, mid, end := connector.HandlePoints(*a)
	r := c.f.Handles.ArrowHandleRadius(c.scale)
	for _, p := range []geom.Pt{start, mid, end} {
		h := pathCmd(a.ID, RoleHandle, c.vp, geom.Circle(p, r))
		h.Fill = scene.White.Hex()
		h.Stroke = primary
		h.StrokeWidth = 1 / c.scale
		c.out = append(c.out, h)
	}
}

// PixelWidth is the stroke width of cmd in screen pixels.
func (d DrawCommand) PixelWidth() float64 {
	return d.StrokeWidth * math.Sqrt(math.Abs(d.matrix.A*d.matrix.D-d.matrix.B*d.matrix.C))
}

// ToJSON serializes a command buffer.
func ToJSON(cmds []DrawCommand) ([]byte, error) {
	if cmds == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(cmds)
}
