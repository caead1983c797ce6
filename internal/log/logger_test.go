/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lastJSONLine(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines in %s", path)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	return m
}

func TestInitWritesRotatingJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wb.log")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "console", File: path, Writer: &console})
	t.Cleanup(func() { _ = Close() })

	l := WithOperation(WithComponent("editor"), "drag")
	l.Debug("gesture started", slog.String("id", "rect_1"))
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	m := lastJSONLine(t, path)
	if m["app"] != "whiteboard" {
		t.Fatalf("app attr = %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "editor" || m["op"] != "drag" || m["id"] != "rect_1" {
		t.Fatalf("context attrs = %v", m)
	}
	if !strings.Contains(console.String(), "DBG gesture started") {
		t.Fatalf("console output = %q", console.String())
	}
}

func TestSetLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Writer: &buf})
	L().Info("hidden")
	SetLevel("info")
	L().Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("level filtering wrong: %q", out)
	}
}

func TestJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Format: "json", Writer: &buf})
	L().Warn("careful", slog.Int("n", 2))
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("console not json: %v (%q)", err, buf.String())
	}
	if m["msg"] != "careful" || m["n"] != float64(2) {
		t.Fatalf("record = %v", m)
	}
}
