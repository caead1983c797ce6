/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ui hosts the editor in a desktop window. The fyne surface is only
// compiled with -tags fyne (and cgo); other builds get a stub Run.
package ui

import (
	"whiteboard/internal/editor"
	"whiteboard/internal/script"
)

type RunOptions struct {
	Editor editor.Options
	Title  string
	Width  int
	Height int
	// Seed is replayed into the editor before the window opens.
	Seed *script.Script
}

func (o RunOptions) withDefaults() RunOptions {
	if o.Title == "" {
		o.Title = "Whiteboard"
	}
	if o.Width < 640 {
		o.Width = 1280
	}
	if o.Height < 480 {
		o.Height = 800
	}
	return o
}
