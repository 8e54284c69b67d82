package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/icogen/playground/internal/engine"
	"github.com/icogen/playground/internal/generate"
	"github.com/icogen/playground/internal/importer"
)

var (
	ErrBusy          = errors.New("generation already in progress")
	ErrNoGenerator   = errors.New("generation is not configured")
	ErrUnknownType   = errors.New("unknown message type")
	ErrInvalidMatrix = errors.New("pointer matrix must have six entries with non-zero scale")
)

// Sender delivers outbound messages to the session's client.
type Sender interface {
	Send(msg *Message)
}

// Session is one editor: an engine plus the client it reports to. All engine
// access happens under mu; the only work done off the caller's goroutine is
// the remote generation call, whose markup is imported under mu when it arrives.
type Session struct {
	ID string

	mu           sync.Mutex
	engine       *engine.Engine
	out          Sender
	seq          int64
	sentRevision int
	generating   bool

	gen     generate.Generator
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSession(id string, eng *engine.Engine, gen generate.Generator, timeout time.Duration, out Sender) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:      id,
		engine:  eng,
		out:     out,
		gen:     gen,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Welcome returns the greeting carrying the full editor state.
func (s *Session) Welcome(clientID string) *Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sentRevision = s.engine.Revision()
	payload, _ := json.Marshal(WelcomePayload{
		SessionID: s.ID,
		ClientID:  clientID,
		State:     s.snapshotLocked(),
	})
	return &Message{Type: TypeWelcome, SessionID: s.ID, ClientID: clientID, Payload: payload}
}

// Handle applies one inbound message and sends a snapshot if the observable
// state changed. Failures are reported to the client as error messages.
func (s *Session) Handle(msg *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(msg); err != nil {
		slog.Warn("message rejected", "session", s.ID, "type", msg.Type, "error", err)
		s.sendError(msg.Type, err)
	}
	s.flushLocked(false)
}

// Close cancels a pending generation and waits for it to finish.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Session) apply(msg *Message) error {
	if kind, ok := pointerKinds[msg.Type]; ok {
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return s.pointer(kind, p)
	}

	e := s.engine
	switch msg.Type {
	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		tool, err := engine.ParseTool(p.Tool)
		if err != nil {
			return err
		}
		e.SetTool(tool)

	case TypeStyleSet:
		style := e.Style()
		if err := decode(msg, &style); err != nil {
			return err
		}
		e.SetStyle(style)

	case TypeEraserSet:
		var p EraserPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.SetEraserSize(p.Size)

	case TypeGridSet:
		var p GridPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.SetShowGrid(p.Show)

	case TypeTextBegin:
		var p TextPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if !e.BeginTextEdit(p.ID) {
			return fmt.Errorf("shape %q is not editable text", p.ID)
		}

	case TypeTextInput:
		var p TextPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.InputText(p.Content)

	case TypeTextEnd:
		e.EndTextEdit()

	case TypeDelete:
		e.Delete()
	case TypeClear:
		e.ClearAll()
	case TypeZoomIn:
		e.ZoomIn()
	case TypeZoomOut:
		e.ZoomOut()
	case TypeResetView:
		e.ResetView()

	case TypeKey:
		var p KeyPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.HandleKey(p.Key)

	case TypeImport:
		var p ImportPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.ImportMarkup(p.Markup)

	case TypeSceneLoad:
		var p LoadPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return e.LoadScene(p.Shapes)

	case TypeSync:
		s.flushLocked(true)

	case TypeGenerate:
		var p GeneratePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return s.startGeneration(p.Prompt)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownType, msg.Type)
	}
	return nil
}

func (s *Session) pointer(kind engine.PointerKind, p PointerPayload) error {
	if p.Matrix == nil {
		s.engine.HandlePointer(engine.PointerEvent{Kind: kind, Point: p.Point, Screen: p.Screen, TargetID: p.TargetID})
		return nil
	}
	if len(p.Matrix) != 6 || p.Matrix[0] == 0 || p.Matrix[3] == 0 {
		return ErrInvalidMatrix
	}
	var m engine.Matrix2D
	copy(m[:], p.Matrix)
	s.engine.Pointer(kind, p.Screen, m, p.TargetID)
	return nil
}

func (s *Session) startGeneration(prompt string) error {
	if s.gen == nil {
		return ErrNoGenerator
	}
	if s.generating {
		return ErrBusy
	}
	s.generating = true
	s.flushLocked(true)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		markup, err := s.gen.Generate(ctx, prompt)
		cancel()

		s.mu.Lock()
		defer s.mu.Unlock()
		s.generating = false
		if err == nil && !importer.LooksLikeSVG(markup) {
			err = fmt.Errorf("%w: no svg in response", generate.ErrGenerationFailed)
		}
		if err != nil {
			slog.Warn("generation failed", "session", s.ID, "error", err)
			s.sendError(TypeGenerate, err)
		} else {
			s.engine.ImportMarkup(markup)
		}
		s.flushLocked(true)
	}()
	return nil
}

func (s *Session) snapshotLocked() SnapshotPayload {
	return SnapshotPayload{Snapshot: s.engine.Snapshot(), Generating: s.generating}
}

// flushLocked sends a snapshot when the engine state changed since the last
// one, or unconditionally when force is set.
func (s *Session) flushLocked(force bool) {
	rev := s.engine.Revision()
	if !force && rev == s.sentRevision {
		return
	}
	s.sentRevision = rev
	payload, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		slog.Error("marshal snapshot", "error", err)
		return
	}
	s.seq++
	s.out.Send(&Message{Type: TypeSnapshot, SessionID: s.ID, Seq: s.seq, Payload: payload})
}

func (s *Session) sendError(code string, err error) {
	payload, _ := json.Marshal(ErrorPayload{Code: code, Message: err.Error()})
	s.out.Send(&Message{Type: TypeError, SessionID: s.ID, Payload: payload})
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", msg.Type, err)
	}
	return nil
}
