/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene is the canonical shape model: an ordered collection of
// rectangles and arrows mutated only through Model operations.
package scene

import (
	"errors"
	"fmt"

	"whiteboard/internal/geom"
)

var (
	ErrDuplicateID  = errors.New("shape id already in use")
	ErrRetiredID    = errors.New("shape id was used by a removed shape")
	ErrNotFound     = errors.New("shape not found")
	ErrKindMismatch = errors.New("shape has a different kind")
	ErrInvalidShape = errors.New("invalid shape")
)

// Model owns every Shape. Readers get copies; writers go through Add, Update*
// and Remove so invariants hold after each call:
//   - ids are unique and never handed out twice, even after removal
//   - rect sizes are non-negative and rotations wrapped into [0, 360)
//   - arrow refs point at live rects or are empty
//
// Draw order is insertion order; the last shape is topmost.
type Model struct {
	shapes  []Shape
	retired map[string]struct{}
	version uint64
}

func NewModel() *Model {
	return &Model{retired: map[string]struct{}{}}
}

// Version increments on every mutation.
func (m *Model) Version() uint64 { return m.version }
func (m *Model) Len() int        { return len(m.shapes) }

func (m *Model) indexOf(id string) int {
	for i, s := range m.shapes {
		if s.ShapeID() == id {
			return i
		}
	}
	return -1
}

func (m *Model) Has(id string) bool { return id != "" && m.indexOf(id) >= 0 }

// Shapes returns copies of all shapes in draw order.
func (m *Model) Shapes() []Shape {
	out := make([]Shape, len(m.shapes))
	for i, s := range m.shapes {
		out[i] = s.clone()
	}
	return out
}

func (m *Model) IDs() []string {
	out := make([]string, len(m.shapes))
	for i, s := range m.shapes {
		out[i] = s.ShapeID()
	}
	return out
}

// Get returns a copy of the shape with id.
func (m *Model) Get(id string) (Shape, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return m.shapes[i].clone(), true
}

func (m *Model) Rect(id string) (Rect, bool) {
	s, ok := m.Get(id)
	if !ok {
		return Rect{}, false
	}
	r, ok := s.(*Rect)
	if !ok {
		return Rect{}, false
	}
	return *r, true
}

func (m *Model) Arrow(id string) (Arrow, bool) {
	s, ok := m.Get(id)
	if !ok {
		return Arrow{}, false
	}
	a, ok := s.(*Arrow)
	if !ok {
		return Arrow{}, false
	}
	return *a, true
}

// Last returns the most recently added shape.
func (m *Model) Last() (Shape, bool) {
	if len(m.shapes) == 0 {
		return nil, false
	}
	return m.shapes[len(m.shapes)-1].clone(), true
}

// Add stores a copy of s. An empty id is assigned a fresh one. The stored id is returned.
func (m *Model) Add(s Shape) (string, error) {
	if s == nil {
		return "", fmt.Errorf("%w: nil shape", ErrInvalidShape)
	}
	c := s.clone()
	switch v := c.(type) {
	case *Rect:
		if v.ID == "" {
			v.ID = m.freshID(KindRect)
		}
		normalizeRect(v)
	case *Arrow:
		if v.ID == "" {
			v.ID = m.freshID(KindArrow)
		}
		if len(v.Points) < 2 {
			return "", fmt.Errorf("%w: arrow %s needs at least two points", ErrInvalidShape, v.ID)
		}
		m.dropDeadRefs(v)
	}
	id := c.ShapeID()
	if m.Has(id) {
		return "", fmt.Errorf("add %s: %w", id, ErrDuplicateID)
	}
	if _, gone := m.retired[id]; gone {
		return "", fmt.Errorf("add %s: %w", id, ErrRetiredID)
	}
	m.shapes = append(m.shapes, c)
	m.version++
	return id, nil
}

func (m *Model) freshID(k Kind) string {
	for {
		id := NewID(k)
		if _, gone := m.retired[id]; !gone && !m.Has(id) {
			return id
		}
	}
}

// UpdateRect applies fn to the stored rect. The id cannot be changed.
func (m *Model) UpdateRect(id string, fn func(*Rect)) error {
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	r, ok := m.shapes[i].(*Rect)
	if !ok {
		return fmt.Errorf("update %s as rect: %w", id, ErrKindMismatch)
	}
	work := *r
	fn(&work)
	work.ID = id
	normalizeRect(&work)
	*r = work
	m.version++
	return nil
}

// UpdateArrow applies fn to the stored arrow. The id cannot be changed and
// refs to shapes that are not live rects are cleared.
func (m *Model) UpdateArrow(id string, fn func(*Arrow)) error {
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	a, ok := m.shapes[i].(*Arrow)
	if !ok {
		return fmt.Errorf("update %s as arrow: %w", id, ErrKindMismatch)
	}
	work := *a.clone().(*Arrow)
	fn(&work)
	if len(work.Points) < 2 {
		return fmt.Errorf("%w: arrow %s needs at least two points", ErrInvalidShape, id)
	}
	work.ID = id
	m.dropDeadRefs(&work)
	*a = work
	m.version++
	return nil
}

// Remove deletes the shape with id, retires the id, and clears every arrow ref to it.
func (m *Model) Remove(id string) (Shape, error) {
	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	s := m.shapes[i]
	m.shapes = append(m.shapes[:i], m.shapes[i+1:]...)
	m.retired[id] = struct{}{}
	for _, o := range m.shapes {
		if a, ok := o.(*Arrow); ok {
			if a.From == id {
				a.From = ""
			}
			if a.To == id {
				a.To = ""
			}
		}
	}
	m.version++
	return s, nil
}

// RemoveLast deletes the most recently added shape. It is a no-op on an empty model.
func (m *Model) RemoveLast() (Shape, bool) {
	last, ok := m.Last()
	if !ok {
		return nil, false
	}
	s, err := m.Remove(last.ShapeID())
	if err != nil {
		return nil, false
	}
	return s, true
}

// Clear removes every shape and returns the removed ids.
func (m *Model) Clear() []string {
	ids := m.IDs()
	for _, id := range ids {
		m.retired[id] = struct{}{}
	}
	m.shapes = nil
	if len(ids) > 0 {
		m.version++
	}
	return ids
}

// ShapeAt returns the topmost shape hit at world point p.
func (m *Model) ShapeAt(p geom.Pt, tol float64) (Shape, bool) {
	for i := len(m.shapes) - 1; i >= 0; i-- {
		if m.shapes[i].Hit(p, tol) {
			return m.shapes[i].clone(), true
		}
	}
	return nil, false
}

// RectAt returns the topmost rect containing world point p, ignoring arrows.
func (m *Model) RectAt(p geom.Pt) (Rect, bool) {
	for i := len(m.shapes) - 1; i >= 0; i-- {
		if r, ok := m.shapes[i].(*Rect); ok && r.Hit(p, 0) {
			return *r, true
		}
	}
	return Rect{}, false
}

// AnchoredTo returns the ids of arrows with a ref to id.
func (m *Model) AnchoredTo(id string) []string {
	var out []string
	for _, s := range m.shapes {
		if a, ok := s.(*Arrow); ok && a.Anchored(id) {
			out = append(out, a.ID)
		}
	}
	return out
}

func (m *Model) isLiveRect(id string) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	_, ok := m.shapes[i].(*Rect)
	return ok
}

func (m *Model) dropDeadRefs(a *Arrow) {
	if a.From != "" && !m.isLiveRect(a.From) {
		a.From = ""
	}
	if a.To != "" && !m.isLiveRect(a.To) {
		a.To = ""
	}
}

func normalizeRect(r *Rect) {
	if r.Size.W < 0 {
		r.Size.W = -r.Size.W
	}
	if r.Size.H < 0 {
		r.Size.H = -r.Size.H
	}
	r.Rotation = geom.WrapDeg(r.Rotation)
}
