/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tool tracks the active tool, tool-lock, and the selection set.
package tool

import "fmt"

// Tool is the active editing tool.
type Tool string

const (
	Cursor    Tool = "cursor"
	DrawRect  Tool = "rect"
	DrawArrow Tool = "arrow"
)

// Parse maps a tool name to a Tool.
func Parse(s string) (Tool, error) {
	switch Tool(s) {
	case Cursor, DrawRect, DrawArrow:
		return Tool(s), nil
	}
	return "", fmt.Errorf("unknown tool %q", s)
}

// State is the active tool and the lock flag. The zero value is not valid; use NewState.
type State struct {
	Active Tool `json:"active"`
	Locked bool `json:"locked"`
}

func NewState(locked bool) State { return State{Active: Cursor, Locked: locked} }

// Completed is called after a draw operation finishes; the tool falls back to Cursor unless locked.
func (s *State) Completed() {
	if !s.Locked {
		s.Active = Cursor
	}
}

// Selection is the set of selected shape ids. Selecting is exclusive.
type Selection struct {
	ids []string
}

// Select makes id the only selected shape.
func (s *Selection) Select(id string) {
	if id == "" {
		s.Clear()
		return
	}
	s.ids = []string{id}
}

func (s *Selection) Clear()             { s.ids = nil }
func (s *Selection) Empty() bool        { return len(s.ids) == 0 }
func (s *Selection) IDs() []string      { return append([]string(nil), s.ids...) }
func (s *Selection) Contains(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Primary returns the selected id, if any.
func (s *Selection) Primary() (string, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.ids[0], true
}

// Prune drops ids for which live reports false. It reports whether anything changed.
func (s *Selection) Prune(live func(id string) bool) bool {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if live(id) {
			kept = append(kept, id)
		}
	}
	changed := len(kept) != len(s.ids)
	s.ids = kept
	if len(s.ids) == 0 {
		s.ids = nil
	}
	return changed
}
