/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import (
	"fmt"

	"whiteboard/internal/connector"
	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

// Gesture is the current rect interaction.
// GestureIdle: nothing; GestureDrag: moving the body; GestureResize: corner
// handle; GestureRotate: rotate region.
type Gesture int

const (
	GestureIdle Gesture = iota
	GestureDrag
	GestureResize
	GestureRotate
)

func (g Gesture) String() string {
	switch g {
	case GestureDrag:
		return "drag"
	case GestureResize:
		return "resize"
	case GestureRotate:
		return "rotate"
	}
	return "idle"
}

// Controller runs one rect gesture at a time against the model. Positions are
// world coordinates; the caller converts from screen space.
type Controller struct {
	model *scene.Model

	gesture Gesture
	id      string
	corner  geom.Corner
	last    geom.Pt

	// rotation state
	startAngle    float64
	startRotation float64
}

func NewController(m *scene.Model) *Controller { return &Controller{model: m} }

func (c *Controller) Gesture() Gesture { return c.gesture }
func (c *Controller) Active() bool     { return c.gesture != GestureIdle }
func (c *Controller) ShapeID() string  { return c.id }

// Corner is the resize corner currently under the pointer.
func (c *Controller) Corner() geom.Corner { return c.corner }

// BeginDrag starts moving rect id from world point p.
func (c *Controller) BeginDrag(id string, p geom.Pt) error {
	if _, ok := c.model.Rect(id); !ok {
		return fmt.Errorf("drag %s: %w", id, scene.ErrNotFound)
	}
	c.gesture, c.id, c.last = GestureDrag, id, p
	return nil
}

// BeginHandle starts a resize or rotate gesture on rect id for handle h.
func (c *Controller) BeginHandle(id string, h Handle, p geom.Pt) error {
	r, ok := c.model.Rect(id)
	if !ok {
		return fmt.Errorf("handle %s: %w", id, scene.ErrNotFound)
	}
	switch h.Kind {
	case ResizeHandle:
		c.gesture, c.corner = GestureResize, h.Corner
	case RotateHandle:
		c.gesture = GestureRotate
		c.startAngle = geom.AngleDeg(p, r.Position)
		c.startRotation = r.Rotation
	default:
		return fmt.Errorf("handle %s: no handle", id)
	}
	c.id, c.last = id, p
	return nil
}

// Move applies one pointer tick at world point p. square constrains a resize
// to a square. Dragging also carries anchored arrow endpoints along.
func (c *Controller) Move(p geom.Pt, square bool) (bool, error) {
	delta := p.Sub(c.last)
	c.last = p
	switch c.gesture {
	case GestureDrag:
		if delta == (geom.Pt{}) {
			return false, nil
		}
		if err := c.model.UpdateRect(c.id, func(r *scene.Rect) { r.Position = r.Position.Add(delta) }); err != nil {
			return false, err
		}
		connector.Follow(c.model, c.id, delta)
		return true, nil
	case GestureResize:
		r, ok := c.model.Rect(c.id)
		if !ok {
			return false, fmt.Errorf("resize %s: %w", c.id, scene.ErrNotFound)
		}
		res := geom.Resize(r.Size, r.Rotation, c.corner, delta, square)
		c.corner = res.Corner
		err := c.model.UpdateRect(c.id, func(r *scene.Rect) {
			r.Size = res.Size
			r.Position = r.Position.Add(res.Shift)
		})
		return err == nil, err
	case GestureRotate:
		r, ok := c.model.Rect(c.id)
		if !ok {
			return false, fmt.Errorf("rotate %s: %w", c.id, scene.ErrNotFound)
		}
		// The accumulator runs against the screen angle; the stored rotation is its negation.
		acc := -c.startRotation + (c.startAngle - geom.AngleDeg(p, r.Position))
		err := c.model.UpdateRect(c.id, func(r *scene.Rect) { r.Rotation = -acc })
		return err == nil, err
	}
	return false, nil
}

// End finishes the gesture and reports what it was and which rect it touched.
func (c *Controller) End() (Gesture, string) {
	g, id := c.gesture, c.id
	c.gesture, c.id = GestureIdle, ""
	return g, id
}
