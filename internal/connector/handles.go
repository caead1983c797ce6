/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package connector

import (
	"fmt"

	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

// Handle names one of the three edit points of a selected arrow.
type Handle int

const (
	HandleNone Handle = iota
	HandleStart
	HandleMiddle
	HandleEnd
)

func (h Handle) String() string {
	switch h {
	case HandleStart:
		return "start"
	case HandleMiddle:
		return "middle"
	case HandleEnd:
		return "end"
	}
	return "none"
}

// HandlePoints returns the world positions of the start, middle and end handles.
// The middle handle sits on the control point of a curved arrow and on the
// chord midpoint otherwise.
func HandlePoints(a scene.Arrow) (start, mid, end geom.Pt) {
	start, end = a.Start(), a.End()
	if c, ok := a.Control(); ok {
		return start, c, end
	}
	return start, start.Mid(end), end
}

// HandleAt returns the handle whose circle of radius r contains p. Endpoints
// win over the middle handle when they overlap.
func HandleAt(a scene.Arrow, p geom.Pt, r float64) Handle {
	start, mid, end := HandlePoints(a)
	switch {
	case p.Dist(end) <= r:
		return HandleEnd
	case p.Dist(start) <= r:
		return HandleStart
	case p.Dist(mid) <= r:
		return HandleMiddle
	}
	return HandleNone
}

// HandleDrag edits one arrow handle. The handle keeps its offset from the
// pointer at grab time. Dragging an endpoint never rewrites From or To.
type HandleDrag struct {
	model   *scene.Model
	arrowID string
	handle  Handle
	grab    geom.Pt
	origin  geom.Pt
}

func NewHandleDrag(m *scene.Model) *HandleDrag { return &HandleDrag{model: m} }

func (h *HandleDrag) Active() bool    { return h.handle != HandleNone }
func (h *HandleDrag) ArrowID() string { return h.arrowID }
func (h *HandleDrag) Handle() Handle  { return h.handle }

// Begin grabs handle of arrowID at world point p.
func (h *HandleDrag) Begin(arrowID string, handle Handle, p geom.Pt) error {
	a, ok := h.model.Arrow(arrowID)
	if !ok {
		return fmt.Errorf("arrow handle %s: %w", arrowID, scene.ErrNotFound)
	}
	if handle == HandleNone {
		return fmt.Errorf("arrow handle %s: no handle", arrowID)
	}
	start, mid, end := HandlePoints(a)
	switch handle {
	case HandleStart:
		h.origin = start
	case HandleMiddle:
		h.origin = mid
	case HandleEnd:
		h.origin = end
	}
	h.arrowID, h.handle, h.grab = arrowID, handle, p
	return nil
}

// Move places the grabbed handle under the pointer. Moving the middle handle
// turns the arrow into the curved form [start, control, end].
func (h *HandleDrag) Move(p geom.Pt) error {
	if !h.Active() {
		return nil
	}
	pos := h.origin.Add(p.Sub(h.grab))
	return h.model.UpdateArrow(h.arrowID, func(a *scene.Arrow) {
		last := len(a.Points) - 1
		switch h.handle {
		case HandleStart:
			a.Points[0] = pos
		case HandleEnd:
			a.Points[last] = pos
		case HandleMiddle:
			a.Points = []geom.Pt{a.Points[0], pos, a.Points[last]}
		}
	})
}

// End releases the handle and returns the arrow it edited.
func (h *HandleDrag) End() string {
	id := h.arrowID
	h.arrowID, h.handle = "", HandleNone
	return id
}
