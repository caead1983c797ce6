/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// Corner names one of the four corners of a rect in its local frame.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

var Corners = [4]Corner{TopLeft, TopRight, BottomRight, BottomLeft}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	default:
		return "unknown"
	}
}

// Sign returns the outward direction of the corner on each axis:
// -1 for left/top, +1 for right/bottom. Dragging a corner along its sign grows the rect.
func (c Corner) Sign() (sx, sy float64) {
	switch c {
	case TopLeft:
		return -1, -1
	case TopRight:
		return 1, -1
	case BottomRight:
		return 1, 1
	default:
		return -1, 1
	}
}

// Opposite returns the diagonally opposite corner.
func (c Corner) Opposite() Corner { return (c + 2) % 4 }

// FlipX mirrors the corner horizontally (TopLeft <-> TopRight).
func (c Corner) FlipX() Corner {
	switch c {
	case TopLeft:
		return TopRight
	case TopRight:
		return TopLeft
	case BottomRight:
		return BottomLeft
	default:
		return BottomRight
	}
}

// FlipY mirrors the corner vertically (TopLeft <-> BottomLeft).
func (c Corner) FlipY() Corner {
	switch c {
	case TopLeft:
		return BottomLeft
	case BottomLeft:
		return TopLeft
	case TopRight:
		return BottomRight
	default:
		return TopRight
	}
}

// Local returns the corner position in the local frame of a rect of size s.
func (c Corner) Local(s Size) Pt {
	sx, sy := c.Sign()
	return Pt{X: (sx + 1) / 2 * s.W, Y: (sy + 1) / 2 * s.H}
}

// CornerWorld returns where corner c of a rect centered at center sits in world space.
func CornerWorld(center Pt, s Size, deg float64, c Corner) Pt {
	sx, sy := c.Sign()
	return center.Add(ToWorld(Pt{X: sx * s.W / 2, Y: sy * s.H / 2}, deg))
}

// ResizeResult is the outcome of a single corner-resize tick.
type ResizeResult struct {
	Size Size
	// Shift is the world-space translation to apply to the center.
	Shift Pt
	// Corner is the handle now under the pointer; it differs from the input
	// when the rect was dragged through its opposite edge.
	Corner Corner
}

// Resize applies one pointer tick to a rect dragged by corner c.
//
// The world delta is rotated into the rect's local frame and added along the
// corner's outward signs. The center moves by half the size change (rotated back
// into world space), which keeps the opposite corner fixed. When square is set
// the height follows the new width. A negative extent is mirrored to its absolute
// value and the reported corner flips to the side the pointer crossed to.
func Resize(s Size, deg float64, c Corner, delta Pt, square bool) ResizeResult {
	sx, sy := c.Sign()
	local := ToLocal(delta, deg)

	w := s.W + local.X*sx
	h := s.H + local.Y*sy
	if square {
		h = math.Abs(w)
	}

	move := Pt{X: (w - s.W) / 2 * sx, Y: (h - s.H) / 2 * sy}
	res := ResizeResult{Size: Size{W: w, H: h}, Shift: ToWorld(move, deg), Corner: c}
	if w < 0 {
		res.Size.W = -w
		res.Corner = res.Corner.FlipX()
	}
	if h < 0 {
		res.Size.H = -h
		res.Corner = res.Corner.FlipY()
	}
	return res
}
