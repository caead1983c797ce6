/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package connector

import (
	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

// Style is applied to newly drawn arrows.
type Style struct {
	Stroke      scene.Color
	Fill        scene.Color
	StrokeWidth float64
	Dash        scene.Dash
	HeadAtEnd   bool
}

func DefaultStyle() Style {
	return Style{Stroke: scene.MustHex("#222222"), Fill: scene.MustHex("#222222"), StrokeWidth: 2, Dash: scene.Solid, HeadAtEnd: true}
}

// Drawer is the arrow drawing state machine: Idle -> Drawing on Begin,
// Drawing -> Idle on End or Cancel. The arrow in progress lives only in the
// Drawer until End commits it to the model.
type Drawer struct {
	model *scene.Model
	style Style
	draft *scene.Arrow
}

func NewDrawer(m *scene.Model, style Style) *Drawer { return &Drawer{model: m, style: style} }

func (d *Drawer) Active() bool { return d.draft != nil }

// Begin starts an arrow at world point p, anchored to the topmost rect under p if any.
func (d *Drawer) Begin(p geom.Pt) {
	a := &scene.Arrow{
		Fill:        d.style.Fill,
		Points:      []geom.Pt{p, p},
		Stroke:      d.style.Stroke,
		StrokeWidth: d.style.StrokeWidth,
		Dash:        d.style.Dash,
		HeadAtEnd:   d.style.HeadAtEnd,
	}
	if r, ok := d.model.RectAt(p); ok {
		a.From = r.ID
	}
	d.draft = a
}

// Move drags the end point; the start stays fixed.
func (d *Drawer) Move(p geom.Pt) bool {
	if d.draft == nil {
		return false
	}
	d.draft.Points[len(d.draft.Points)-1] = p
	return true
}

// End sets the final end point, anchors it to the rect under p if any, and
// adds the arrow to the model. ok is false when no arrow was being drawn.
func (d *Drawer) End(p geom.Pt) (id string, ok bool, err error) {
	if d.draft == nil {
		return "", false, nil
	}
	a := d.draft
	d.draft = nil
	a.Points[len(a.Points)-1] = p
	if r, hit := d.model.RectAt(p); hit {
		a.To = r.ID
	}
	id, err = d.model.Add(a)
	if err != nil {
		return "", true, err
	}
	return id, true, nil
}

// Cancel drops the arrow in progress.
func (d *Drawer) Cancel() bool {
	if d.draft == nil {
		return false
	}
	d.draft = nil
	return true
}

// Draft returns a copy of the arrow in progress.
func (d *Drawer) Draft() (scene.Arrow, bool) {
	if d.draft == nil {
		return scene.Arrow{}, false
	}
	c := *d.draft
	c.Points = append([]geom.Pt(nil), d.draft.Points...)
	return c, true
}
