/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package connector implements arrows: drawing them between rects, keeping
// anchored endpoints attached when a rect moves, and editing a selected arrow
// through its start, middle and end handles.
package connector

import (
	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

// Follow shifts every endpoint anchored to rectID by delta: the first point
// for From refs and the last point for To refs. It returns the ids of the arrows
// it touched. Nothing is written unless rectID is a live rect.
func Follow(m *scene.Model, rectID string, delta geom.Pt) []string {
	if _, ok := m.Rect(rectID); !ok {
		return nil
	}
	if delta == (geom.Pt{}) {
		return nil
	}
	var touched []string
	for _, id := range m.AnchoredTo(rectID) {
		err := m.UpdateArrow(id, func(a *scene.Arrow) {
			if a.From == rectID {
				a.Points[0] = a.Points[0].Add(delta)
			}
			if a.To == rectID {
				last := len(a.Points) - 1
				a.Points[last] = a.Points[last].Add(delta)
			}
		})
		if err == nil {
			touched = append(touched, id)
		}
	}
	return touched
}
