package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/icogen/playground/internal/document"
	"github.com/icogen/playground/internal/engine"
	"github.com/icogen/playground/internal/generate"
	"github.com/icogen/playground/internal/typeid"
)

// Hub owns the live editor sessions, one per connected client.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session // clientID -> session

	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	gen         generate.Generator
	timeout     time.Duration
	sampleScene bool
}

type HubOption func(*Hub)

// WithSampleScene seeds every new session with the sample scene.
func WithSampleScene() HubOption {
	return func(h *Hub) { h.sampleScene = true }
}

func NewHub(gen generate.Generator, timeout time.Duration, opts ...HubOption) *Hub {
	h := &Hub{
		sessions:   make(map[string]*Session),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		gen:        gen,
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run and closes every session.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		sessions := h.sessions
		h.sessions = make(map[string]*Session)
		h.mu.Unlock()

		for _, s := range sessions {
			s.Close()
		}
		slog.Info("hub stopped", "sessions", len(sessions))
	})
}

// Register opens a session for client and queues its welcome. The session
// exists when Register returns, so the read pump may start right after it.
// Clients registered after Stop are closed.
func (h *Hub) Register(client *Client) {
	if !h.addClient(client) {
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) addClient(client *Client) bool {
	eng := engine.NewEngine()
	if h.sampleScene {
		if err := eng.LoadScene(document.NewSampleScene()); err != nil {
			slog.Error("load sample scene", "error", err)
		}
	}
	s := NewSession(typeid.NewSessionID(), eng, h.gen, h.timeout, client)

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		s.Close()
		return false
	default:
	}
	h.sessions[client.ClientID] = s
	h.mu.Unlock()

	client.Send(s.Welcome(client.ClientID))
	slog.Info("session opened", "session", s.ID, "client", client.ClientID)
	return true
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	s, ok := h.sessions[client.ClientID]
	delete(h.sessions, client.ClientID)
	h.mu.Unlock()

	if ok {
		s.Close()
		slog.Info("session closed", "session", s.ID, "client", client.ClientID)
	}
	client.close()
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	h.mu.RLock()
	s, ok := h.sessions[sender.ClientID]
	h.mu.RUnlock()
	if !ok {
		slog.Warn("message for unknown session", "client", sender.ClientID, "type", msg.Type)
		return
	}
	s.Handle(msg)
}
