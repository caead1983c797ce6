/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"whiteboard/internal/editor"
	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

// Fallback canvas size when the frame carries none.
const (
	DefaultWidth  = 1280
	DefaultHeight = 800
)

// curve sampling for strokes
const strokeSteps = 12

func frameSize(f editor.Frame) (int, int) {
	w, h := int(math.Round(f.Size.W)), int(math.Round(f.Size.H))
	if w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}

// RenderImage paints f into a new RGBA image of the frame's size.
func RenderImage(f editor.Frame) *image.RGBA {
	w, h := frameSize(f)
	return Rasterize(Compile(f), w, h)
}

// RenderPNG encodes f as PNG into w.
func RenderPNG(w io.Writer, f editor.Frame) error {
	if err := png.Encode(w, RenderImage(f)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Rasterize paints a command buffer into a w x h image.
func Rasterize(cmds []DrawCommand, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for _, c := range cmds {
		switch c.Op {
		case "clear":
			draw.Draw(img, img.Bounds(), image.NewUniform(paint(c.Fill, c.Opacity)), image.Point{}, draw.Src)
		case "path":
			p := c.geometry.Transform(c.matrix)
			if c.Fill != "" {
				fillPath(img, p, paint(c.Fill, c.Opacity))
			}
			if c.Stroke != "" && c.StrokeWidth > 0 {
				strokePath(img, p, c.PixelWidth(), scaledDash(c), paint(c.Stroke, c.Opacity))
			}
		case "text":
			at := c.matrix.Apply(geom.P(c.X, c.Y))
			drawText(img, at, c.Text, paint(c.Fill, c.Opacity))
		}
	}
	return img
}

// paint resolves a hex color with opacity into a premultiplied color.
func paint(hex string, opacity float64) color.Color {
	c, err := scene.ParseHex(hex)
	if err != nil {
		return color.Transparent
	}
	if opacity > 0 && opacity < 1 {
		c.A = uint8(math.Round(float64(c.A) * opacity))
	}
	return c
}

func scaledDash(c DrawCommand) []float64 {
	if len(c.Dash) == 0 {
		return nil
	}
	k := c.PixelWidth() / c.StrokeWidth
	out := make([]float64, len(c.Dash))
	for i, d := range c.Dash {
		out[i] = d * k
	}
	return out
}

func newRasterizer(dst *image.RGBA) *vector.Rasterizer {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	return z
}

func fillPath(dst *image.RGBA, p geom.Path, col color.Color) {
	z := newRasterizer(dst)
	open := false
	for _, c := range p.Cmds {
		d := c.Data
		switch c.Op {
		case geom.MoveTo:
			z.MoveTo(float32(d[0]), float32(d[1]))
			open = true
		case geom.LineTo:
			z.LineTo(float32(d[0]), float32(d[1]))
		case geom.QuadTo:
			z.QuadTo(float32(d[0]), float32(d[1]), float32(d[2]), float32(d[3]))
		case geom.CubicTo:
			z.CubeTo(float32(d[0]), float32(d[1]), float32(d[2]), float32(d[3]), float32(d[4]), float32(d[5]))
		case geom.Close:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
}

// strokePath covers each flattened segment with a quad of the given pixel
// width. All quads share one winding so overlaps do not cancel.
func strokePath(dst *image.RGBA, p geom.Path, width float64, dash []float64, col color.Color) {
	if width < 1 {
		width = 1
	}
	hw := width / 2
	z := newRasterizer(dst)
	for _, line := range p.Flatten(strokeSteps) {
		for _, seg := range dashed(line, dash) {
			for i := 1; i < len(seg); i++ {
				a, b := seg[i-1], seg[i]
				d := b.Sub(a)
				l := d.Len()
				if l == 0 {
					continue
				}
				n := geom.P(-d.Y, d.X).Mul(hw / l)
				// extend by half a width so joints overlap
				ext := d.Mul(hw / l)
				a, b = a.Sub(ext), b.Add(ext)
				quad(z, a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
			}
		}
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
}

func quad(z *vector.Rasterizer, p0, p1, p2, p3 geom.Pt) {
	z.MoveTo(float32(p0.X), float32(p0.Y))
	z.LineTo(float32(p1.X), float32(p1.Y))
	z.LineTo(float32(p2.X), float32(p2.Y))
	z.LineTo(float32(p3.X), float32(p3.Y))
	z.ClosePath()
}

// dashed splits a polyline into the "on" runs of pattern. An empty pattern
// returns the line unchanged.
func dashed(line []geom.Pt, pattern []float64) [][]geom.Pt {
	if len(pattern) == 0 || len(line) < 2 {
		return [][]geom.Pt{line}
	}
	var total float64
	for _, v := range pattern {
		total += v
	}
	if total <= 0 {
		return [][]geom.Pt{line}
	}
	var out [][]geom.Pt
	idx, left, on := 0, pattern[0], true
	cur := []geom.Pt{line[0]}
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		segLen := a.Dist(b)
		pos := 0.0
		for segLen-pos > left {
			pos += left
			pt := a.Add(b.Sub(a).Mul(pos / segLen))
			if on {
				out = append(out, append(cur, pt))
			}
			cur = []geom.Pt{pt}
			on = !on
			idx = (idx + 1) % len(pattern)
			left = pattern[idx]
		}
		left -= segLen - pos
		cur = append(cur, b)
	}
	if on && len(cur) > 1 {
		out = append(out, cur)
	}
	return out
}

func drawText(dst *image.RGBA, at geom.Pt, s string, col color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		// at is the top of the label; the dot sits on the baseline
		Dot: fixed.Point26_6{X: fixed.I(int(math.Round(at.X))), Y: fixed.I(int(math.Round(at.Y))) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}
