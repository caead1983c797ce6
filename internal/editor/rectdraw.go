/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"math"

	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

// rectDrawer spans a draft rect between the press point and the pointer.
// The draft stays here until commit.
type rectDrawer struct {
	origin geom.Pt
	draft  *scene.Rect
}

func (d *rectDrawer) active() bool { return d.draft != nil }

func (d *rectDrawer) begin(p geom.Pt, fill scene.Color) {
	d.origin = p
	d.draft = &scene.Rect{Fill: fill, Position: p}
}

func (d *rectDrawer) move(p geom.Pt, square bool) {
	if d.draft == nil {
		return
	}
	v := p.Sub(d.origin)
	if square {
		side := math.Max(math.Abs(v.X), math.Abs(v.Y))
		v = geom.P(math.Copysign(side, v.X), math.Copysign(side, v.Y))
	}
	d.draft.Position = d.origin.Add(v.Div(2))
	d.draft.Size = geom.Size{W: math.Abs(v.X), H: math.Abs(v.Y)}
}

// commit returns the finished draft. When the pointer never left the dead
// zone the rect gets the default size centered on the press point.
func (d *rectDrawer) commit(clicked bool, def geom.Size) *scene.Rect {
	r := d.draft
	d.draft = nil
	if r == nil {
		return nil
	}
	if clicked || r.Size.W == 0 || r.Size.H == 0 {
		r.Position = d.origin
		r.Size = def
	}
	return r
}

func (d *rectDrawer) cancel() bool {
	had := d.draft != nil
	d.draft = nil
	return had
}

func (d *rectDrawer) snapshot() (scene.Rect, bool) {
	if d.draft == nil {
		return scene.Rect{}, false
	}
	return *d.draft, true
}
