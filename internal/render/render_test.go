/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"whiteboard/internal/editor"
	"whiteboard/internal/geom"
	"whiteboard/internal/input"
	"whiteboard/internal/scene"
)

func sampleEditor(t *testing.T) *editor.Editor {
	t.Helper()
	opts := editor.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	e := editor.New(opts)
	e.SetSize(geom.Size{W: 400, H: 300})
	if _, err := e.Add(&scene.Rect{ID: "r1", Fill: scene.MustHex("#ffd6e7"), Position: geom.P(100, 100), Size: geom.Size{W: 120, H: 80}}); err != nil {
		t.Fatalf("add rect: %v", err)
	}
	if _, err := e.Add(&scene.Arrow{ID: "a1", Points: []geom.Pt{geom.P(200, 250), geom.P(380, 250)}, Stroke: scene.Black, StrokeWidth: 2, HeadAtEnd: true}); err != nil {
		t.Fatalf("add arrow: %v", err)
	}
	return e
}

func countRole(cmds []DrawCommand, role string) int {
	n := 0
	for _, c := range cmds {
		if c.Role == role {
			n++
		}
	}
	return n
}

func TestCompileSelectedRect(t *testing.T) {
	e := sampleEditor(t)
	e.Select("r1")
	cmds := Compile(e.Frame())
	if cmds[0].Op != "clear" {
		t.Fatalf("first command = %s", cmds[0].Op)
	}
	if n := countRole(cmds, RoleHandle); n != 4 {
		t.Fatalf("handles = %d", n)
	}
	var labels []string
	for _, c := range cmds {
		if c.Op == "text" {
			labels = append(labels, c.Text)
		}
	}
	if len(labels) != 2 || labels[0] != "r1" || labels[1] != "120 x 80" {
		t.Fatalf("labels = %v", labels)
	}
	if countRole(cmds, RoleHead) != 1 {
		t.Fatalf("arrowhead missing")
	}
	b, err := ToJSON(cmds)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(string(b), `"op":"path"`) || !strings.Contains(string(b), `["M",0,0]`) {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestCompileArrowHoverAndSelection(t *testing.T) {
	e := sampleEditor(t)
	e.PointerMove(input.PointerEvent{Screen: geom.P(300, 252)})
	f := e.Frame()
	if f.Hover != "a1" {
		t.Fatalf("hover = %q", f.Hover)
	}
	var stroke string
	for _, c := range Compile(f) {
		if c.ObjectID == "a1" && c.Role == RoleShape {
			stroke = c.Stroke
		}
	}
	if stroke != f.Style.Primary.Hex() {
		t.Fatalf("hovered arrow stroke = %s", stroke)
	}
	e.Select("a1")
	cmds := Compile(e.Frame())
	if n := countRole(cmds, RoleHandle); n != 3 {
		t.Fatalf("arrow handles = %d", n)
	}
	if countRole(cmds, RoleOutline) != 1 {
		t.Fatalf("arrow outline missing")
	}
}

func TestRenderPNGPixels(t *testing.T) {
	e := sampleEditor(t)
	var buf bytes.Buffer
	if err := RenderPNG(&buf, e.Frame()); err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("bounds = %v", b)
	}
	r, g, b, _ := img.At(100, 100).RGBA()
	if r>>8 != 0xff || g>>8 != 0xd6 || b>>8 != 0xe7 {
		t.Fatalf("rect center = %02x%02x%02x", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(10, 290).RGBA()
	if r>>8 != 0xf5 || g>>8 != 0xf5 || b>>8 != 0xf5 {
		t.Fatalf("background = %02x%02x%02x", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(300, 250).RGBA()
	if r>>8 > 0x40 || g>>8 > 0x40 || b>>8 > 0x40 {
		t.Fatalf("arrow stroke not dark: %02x%02x%02x", r>>8, g>>8, b>>8)
	}
}

func TestRenderFollowsViewport(t *testing.T) {
	e := sampleEditor(t)
	// pan by (50, 0): the rect center moves to screen (150, 100)
	e.Wheel(input.WheelEvent{Delta: geom.P(-50, 0)})
	img := RenderImage(e.Frame())
	r, _, _, _ := img.At(150, 100).RGBA()
	if r>>8 != 0xff {
		t.Fatalf("panned rect not at expected pixel")
	}
	r, _, _, _ = img.At(45, 100).RGBA()
	if r>>8 != 0xf5 {
		t.Fatalf("rect still drawn at old position")
	}
}

func TestDashedSplitsLine(t *testing.T) {
	runs := dashed([]geom.Pt{geom.P(0, 0), geom.P(100, 0)}, []float64{10, 10})
	if len(runs) != 5 {
		t.Fatalf("runs = %d", len(runs))
	}
	if got := runs[1][0].X; math.Abs(got-20) > 1e-9 {
		t.Fatalf("second run starts at %v", got)
	}
}

func TestRenderPDFHeader(t *testing.T) {
	e := sampleEditor(t)
	e.Select("r1")
	var buf bytes.Buffer
	if err := RenderPDF(&buf, e.Frame(), PDFOptions{}); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("missing PDF header")
	}
}

func TestFrameJSON(t *testing.T) {
	e := sampleEditor(t)
	b, err := json.Marshal(e.Frame())
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	if !strings.Contains(string(b), `"kind":"rect"`) {
		t.Fatalf("frame json = %s", b)
	}
}
