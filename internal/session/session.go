/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session serves the editor to browser renderers over websockets.
// Each connection gets its own Editor; nothing is shared between them.
// Incoming messages are applied on the read goroutine, which is the only
// goroutine touching that editor. Frames are queued to a write goroutine.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"whiteboard/internal/editor"
	applog "whiteboard/internal/log"
	"whiteboard/internal/render"
	"whiteboard/internal/tool"
	"whiteboard/internal/version"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 64
)

type Options struct {
	// OriginPatterns is passed to websocket.Accept. Empty allows same-origin only.
	OriginPatterns []string
	// NewEditor builds the editor for a connection.
	NewEditor func() *editor.Editor
	Logger    *slog.Logger
}

// Server accepts websocket connections and tracks live sessions.
type Server struct {
	opts Options
	log  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewServer(opts Options) *Server {
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("session")
	}
	if opts.NewEditor == nil {
		opts.NewEditor = func() *editor.Editor {
			o := editor.DefaultOptions()
			o.Logger = l
			return editor.New(o)
		}
	}
	return &Server{opts: opts, log: l, sessions: map[string]*Session{}}
}

// Count returns the number of live sessions.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ServeHTTP upgrades the request and runs the session until the peer leaves
// or the request context ends.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.opts.OriginPatterns})
	if err != nil {
		s.log.Warn("websocket accept", slog.Any("err", err))
		return
	}
	id := uuid.New().String()
	sess := newSession(id, conn, s.opts.NewEditor(), s.log.With(slog.String("client", id)))

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	}()

	s.log.Info("session opened", slog.String("client", id))
	sess.Run(r.Context())
	s.log.Info("session closed", slog.String("client", id))
}

// Close ends every live session.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// Session is one connection and its editor.
type Session struct {
	ID     string
	conn   *websocket.Conn
	editor *editor.Editor
	send   chan []byte
	log    *slog.Logger
	seq    int64
}

func newSession(id string, conn *websocket.Conn, e *editor.Editor, l *slog.Logger) *Session {
	s := &Session{ID: id, conn: conn, editor: e, send: make(chan []byte, sendBuffer), log: l}
	e.OnChange(s.sendFrame)
	return s
}

// Run sends the welcome and the first frame, then pumps until the
// connection ends.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.queue(TypeWelcome, WelcomePayload{ClientID: s.ID, Version: version.String()})
	s.sendFrame(s.editor.Frame())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.WritePump(ctx)
	}()
	s.ReadPump(ctx)
	cancel()
	<-done
}

// ReadPump decodes messages and applies them to the editor.
func (s *Session) ReadPump(ctx context.Context) {
	defer s.conn.Close(websocket.StatusNormalClosure, "")
	s.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				s.log.Debug("read error", slog.Any("err", err))
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn("invalid message", slog.Any("err", err))
			s.queue(TypeError, ErrorPayload{Message: "invalid message"})
			continue
		}
		if err := s.handle(msg); err != nil {
			s.log.Warn("message rejected", slog.String("type", msg.Type), slog.Any("err", err))
			s.queue(TypeError, ErrorPayload{Message: err.Error()})
		}
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				s.log.Debug("write error", slog.Any("err", err))
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}

// handle applies one client message. Editor changes reach the client
// through OnChange.
func (s *Session) handle(msg Message) error {
	e := s.editor
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		p, err := decode[PointerPayload](msg.Payload)
		if err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			e.PointerDown(p.event())
		case TypePointerMove:
			e.PointerMove(p.event())
		default:
			e.PointerUp(p.event())
		}
	case TypeWheel:
		p, err := decode[WheelPayload](msg.Payload)
		if err != nil {
			return err
		}
		e.Wheel(p.event())
	case TypeKeyDown, TypeKeyUp:
		p, err := decode[KeyPayload](msg.Payload)
		if err != nil {
			return err
		}
		if msg.Type == TypeKeyDown {
			e.KeyDown(p.event())
		} else {
			e.KeyUp(p.event())
		}
	case TypeResize:
		p, err := decode[ResizePayload](msg.Payload)
		if err != nil {
			return err
		}
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("invalid size %vx%v", p.Width, p.Height)
		}
		e.SetSize(sizeOf(p))
		s.sendFrame(e.Frame())
	case TypeTool:
		p, err := decode[ToolPayload](msg.Payload)
		if err != nil {
			return err
		}
		t, err := tool.Parse(p.Tool)
		if err != nil {
			return err
		}
		e.SetTool(t)
	case TypeLock:
		p, err := decode[LockPayload](msg.Payload)
		if err != nil {
			return err
		}
		if p.Locked == nil {
			e.ToggleLock()
		} else {
			e.SetLocked(*p.Locked)
		}
	case TypeZoom:
		p, err := decode[ZoomPayload](msg.Payload)
		if err != nil {
			return err
		}
		switch p.Action {
		case "in":
			e.ZoomIn()
		case "out":
			e.ZoomOut()
		case "reset":
			e.ResetZoom()
		default:
			return fmt.Errorf("unknown zoom action %q", p.Action)
		}
	case TypeClear:
		e.ClearScene()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (s *Session) sendFrame(f editor.Frame) {
	s.queue(TypeFrame, FramePayload{Frame: f, Percent: f.Viewport.Percent(), Commands: render.Compile(f)})
}

// queue marshals and enqueues a message. A full queue drops the message;
// the next frame supersedes it.
func (s *Session) queue(typ string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("marshal payload", slog.String("type", typ), slog.Any("err", err))
		return
	}
	s.seq++
	data, err := json.Marshal(Message{Type: typ, Seq: s.seq, Payload: raw})
	if err != nil {
		s.log.Error("marshal message", slog.String("type", typ), slog.Any("err", err))
		return
	}
	select {
	case s.send <- data:
	default:
		s.log.Warn("send buffer full, dropping message", slog.String("type", typ))
	}
}
