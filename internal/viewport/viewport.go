/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewport owns the pan offset and zoom scale of the canvas and converts
// between screen and world coordinates.
package viewport

import (
	"math"

	"whiteboard/internal/geom"
)

// ZoomMode selects how a zoom step changes the scale.
type ZoomMode string

const (
	// Multiplicative multiplies or divides the scale by Factor.
	Multiplicative ZoomMode = "multiplicative"
	// Additive adds or subtracts Step and rounds to one decimal.
	Additive ZoomMode = "additive"
)

// Options bounds and steps the zoom.
type Options struct {
	Mode     ZoomMode
	Factor   float64
	Step     float64
	MinScale float64
	MaxScale float64
}

// DefaultOptions matches the wheel behaviour of the editor: x1.1 per notch within [0.1, 4].
func DefaultOptions() Options {
	return Options{Mode: Multiplicative, Factor: 1.1, Step: 0.1, MinScale: 0.1, MaxScale: 4.0}
}

// Viewport is the screen transform: screen = world*Scale + Offset.
type Viewport struct {
	Scale  float64 `json:"scale"`
	Offset geom.Pt `json:"offset"`
}

// Identity is the initial viewport.
func Identity() Viewport { return Viewport{Scale: 1} }

func (v Viewport) ScreenToWorld(p geom.Pt) geom.Pt { return p.Sub(v.Offset).Div(v.Scale) }
func (v Viewport) WorldToScreen(p geom.Pt) geom.Pt { return p.Mul(v.Scale).Add(v.Offset) }

// Transform returns the world->screen affine transform.
func (v Viewport) Transform() geom.Affine2D {
	return geom.Translate(v.Offset.X, v.Offset.Y).Mul(geom.Scale(v.Scale, v.Scale))
}

// Percent is the zoom readout, the scale as a rounded percentage.
func (v Viewport) Percent() int { return int(math.Round(v.Scale * 100)) }

// Controller mutates a Viewport according to Options.
type Controller struct {
	opts Options
	vp   Viewport
}

func NewController(opts Options) *Controller {
	if opts.Factor <= 1 {
		opts.Factor = DefaultOptions().Factor
	}
	if opts.Step <= 0 {
		opts.Step = DefaultOptions().Step
	}
	if opts.MinScale <= 0 {
		opts.MinScale = DefaultOptions().MinScale
	}
	if opts.MaxScale < opts.MinScale {
		opts.MaxScale = opts.MinScale
	}
	if opts.Mode == "" {
		opts.Mode = Multiplicative
	}
	return &Controller{opts: opts, vp: Identity()}
}

func (c *Controller) Viewport() Viewport { return c.vp }
func (c *Controller) Options() Options   { return c.opts }

// Zoom steps the scale in (direction > 0) or out (direction < 0), keeping
// the world point under pointer fixed on screen. A zero direction is a no-op.
// It reports whether the viewport changed.
func (c *Controller) Zoom(pointer geom.Pt, direction int) bool {
	if direction == 0 {
		return false
	}
	old := c.vp.Scale
	next := c.clamp(c.stepped(old, direction))
	if next == old {
		return false
	}
	c.vp.Offset = pointer.Sub(pointer.Sub(c.vp.Offset).Div(old).Mul(next))
	c.vp.Scale = next
	return true
}

func (c *Controller) stepped(s float64, direction int) float64 {
	if c.opts.Mode == Additive {
		if direction > 0 {
			return geom.FloatRound(s+c.opts.Step, 1)
		}
		return geom.FloatRound(s-c.opts.Step, 1)
	}
	if direction > 0 {
		return s * c.opts.Factor
	}
	return s / c.opts.Factor
}

func (c *Controller) clamp(s float64) float64 {
	return math.Max(c.opts.MinScale, math.Min(c.opts.MaxScale, s))
}

// Pan translates the viewport by a screen-space delta.
func (c *Controller) Pan(delta geom.Pt) bool {
	if delta == (geom.Pt{}) {
		return false
	}
	c.vp.Offset = c.vp.Offset.Add(delta)
	return true
}

// ResetZoom restores scale 1 and zero offset.
func (c *Controller) ResetZoom() bool {
	if c.vp == Identity() {
		return false
	}
	c.vp = Identity()
	return true
}

// Set replaces the viewport, clamping its scale.
func (c *Controller) Set(v Viewport) {
	v.Scale = c.clamp(v.Scale)
	c.vp = v
}
