/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"whiteboard/internal/geom"
	"whiteboard/internal/interact"
	"whiteboard/internal/scene"
	"whiteboard/internal/tool"
	"whiteboard/internal/viewport"
)

// Style holds the colors a renderer needs beyond per-shape style.
type Style struct {
	Primary    scene.Color `json:"primary"`
	Background scene.Color `json:"background"`
	Labels     bool        `json:"labels"`
}

// Frame is a snapshot of everything a renderer draws. It shares no memory
// with the editor.
type Frame struct {
	Shapes    []scene.Shape     `json:"shapes"`
	Selection []string          `json:"selection"`
	Viewport  viewport.Viewport `json:"viewport"`
	Tool      tool.State        `json:"tool"`
	Hover     string            `json:"hover,omitempty"`
	Cursor    interact.Cursor   `json:"cursor"`
	Draft     scene.Shape       `json:"draft,omitempty"`
	Gesture   string            `json:"gesture"`
	Version   uint64            `json:"version"`
	Size      geom.Size         `json:"size"`
	Handles   interact.Metrics  `json:"-"`
	Style     Style             `json:"style"`
}

// Selected returns the selected shape, if any.
func (f Frame) Selected() (scene.Shape, bool) {
	if len(f.Selection) == 0 {
		return nil, false
	}
	for _, s := range f.Shapes {
		if s.ShapeID() == f.Selection[0] {
			return s, true
		}
	}
	return nil, false
}

// IsSelected reports whether id is in the selection.
func (f Frame) IsSelected(id string) bool {
	for _, s := range f.Selection {
		if s == id {
			return true
		}
	}
	return false
}
