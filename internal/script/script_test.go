/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"whiteboard/internal/editor"
	"whiteboard/internal/scene"
	"whiteboard/internal/tool"
)

func newEditor() *editor.Editor {
	opts := editor.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return editor.New(opts)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"no events", `{}`, "events"},
		{"unknown type", `{"events":[{"type":"tap"}]}`, "type"},
		{"down without position", `{"events":[{"type":"down","y":1}]}`, "x"},
		{"bad modifier", `{"events":[{"type":"wheel","dy":1,"mods":["hyper"]}]}`, "mods"},
		{"unknown tool", `{"events":[{"type":"tool","tool":"ellipse"}]}`, "tool"},
		{"rect without size", `{"shapes":[{"kind":"rect","x":1,"y":1}],"events":[]}`, "w"},
		{"bad color", `{"shapes":[{"kind":"rect","x":1,"y":1,"w":2,"h":2,"fill":"pink"}],"events":[]}`, "fill"},
		{"not json", `{"events":`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate([]byte(tc.doc))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestReplayDrawsRect(t *testing.T) {
	s, err := Parse([]byte(`{
		"version": 1,
		"size": {"w": 640, "h": 480},
		"events": [
			{"type": "tool", "tool": "rect"},
			{"type": "down", "x": 100, "y": 100},
			{"type": "move", "x": 200, "y": 180},
			{"type": "up", "x": 200, "y": 180}
		]
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e := newEditor()
	if _, err := s.Replay(e); err != nil {
		t.Fatalf("replay: %v", err)
	}
	shapes := e.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("shapes = %d", len(shapes))
	}
	r, ok := shapes[0].(*scene.Rect)
	if !ok {
		t.Fatalf("expected rect, got %T", shapes[0])
	}
	if r.Position.X != 150 || r.Position.Y != 140 || r.Size.W != 100 || r.Size.H != 80 {
		t.Fatalf("rect = %+v", *r)
	}
	if sel := e.Selection(); len(sel) != 1 || sel[0] != r.ID {
		t.Fatalf("selection = %v", sel)
	}
	if e.Tool().Active != tool.Cursor {
		t.Fatalf("tool = %s", e.Tool().Active)
	}
	if f := e.Frame(); f.Size.W != 640 || f.Size.H != 480 {
		t.Fatalf("size = %+v", f.Size)
	}
}

func TestReplaySeededDragCarriesArrow(t *testing.T) {
	s, err := Parse([]byte(`{
		"shapes": [
			{"kind": "rect", "id": "box", "x": 100, "y": 100, "w": 100, "h": 100},
			{"kind": "arrow", "id": "link", "points": [[100, 100], [400, 100]], "from": "box", "dash": "dashed"}
		],
		"events": [
			{"type": "down", "x": 100, "y": 130},
			{"type": "move", "x": 150, "y": 160},
			{"type": "up", "x": 150, "y": 160}
		]
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e := newEditor()
	n, err := s.Replay(e)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n == 0 {
		t.Fatalf("no event changed the editor")
	}
	r, _ := e.Rect("box")
	if r.Position.X != 150 || r.Position.Y != 130 {
		t.Fatalf("rect at %v", r.Position)
	}
	a, _ := e.Arrow("link")
	if a.Start().X != 150 || a.Start().Y != 130 || a.End().X != 400 {
		t.Fatalf("arrow points %v", a.Points)
	}
	if a.Dash != scene.Dashed {
		t.Fatalf("dash = %s", a.Dash)
	}
}

func TestReplayReportsShapeIndex(t *testing.T) {
	s, err := Parse([]byte(`{
		"shapes": [
			{"kind": "rect", "id": "r", "x": 0, "y": 0, "w": 10, "h": 10},
			{"kind": "rect", "id": "r", "x": 5, "y": 5, "w": 10, "h": 10}
		],
		"events": []
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = s.Replay(newEditor())
	var se *Error
	if !errors.As(err, &se) || se.Index != 1 {
		t.Fatalf("expected error at shape 1, got %v", err)
	}
	if !errors.Is(err, scene.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestReplayCommands(t *testing.T) {
	s, err := Parse([]byte(`{
		"shapes": [{"kind": "rect", "x": 0, "y": 0, "w": 10, "h": 10}],
		"events": [
			{"type": "lock", "locked": true},
			{"type": "key", "key": "Control"},
			{"type": "wheel", "x": 400, "y": 300, "dy": -120},
			{"type": "key", "key": "Control", "release": true},
			{"type": "clear"}
		]
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e := newEditor()
	if _, err := s.Replay(e); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !e.Tool().Locked {
		t.Fatalf("lock not applied")
	}
	if e.Viewport().Scale <= 1 {
		t.Fatalf("held control did not zoom: %v", e.Viewport().Scale)
	}
	if len(e.Shapes()) != 0 {
		t.Fatalf("clear left %d shapes", len(e.Shapes()))
	}
	reset, _ := Parse([]byte(`{"events":[{"type":"reset"}]}`))
	if _, err := reset.Replay(e); err != nil || e.Viewport().Scale != 1 {
		t.Fatalf("reset: %v scale=%v", err, e.Viewport().Scale)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`{"events":[{"type":"tool","tool":"arrow"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Load(good)
	if err != nil || len(s.Events) != 1 {
		t.Fatalf("load: %v", err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"events":[{"type":"jump"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), "bad.json") {
		t.Fatalf("expected ErrInvalid naming the file, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}
