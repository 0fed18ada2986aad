package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/metrics"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/truthordare"
)

// Event names sent on a session stream
const (
	EventSession = "session"
	EventEnded   = "ended"
)

// Hub fans events out to the subscribers of a single session
type Hub struct {
	sessionID model.SessionID
	clients   map[*Client]bool
	mu        sync.RWMutex
	logger    *slog.Logger
	metrics   *metrics.Metrics

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a session
func NewHub(sessionID model.SessionID, m *metrics.Metrics, logger *slog.Logger) *Hub {
	return &Hub{
		sessionID:  sessionID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("session_id", string(sessionID))),
		metrics:    m,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop; it returns once Close is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			close(client.ready)
			h.metrics.SessionSubscribers.Inc()
			h.logger.Debug("sse client registered", slog.Int("total_clients", count))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.SessionSubscribers.Dec()
				h.logger.Debug("sse client unregistered",
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", len(h.clients)))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.deliver(message)

		case <-h.done:
			// Pending events go out before the streams close
		drain:
			for {
				select {
				case message := <-h.broadcast:
					h.deliver(message)
				default:
					break drain
				}
			}

			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
				h.metrics.SessionSubscribers.Dec()
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) deliver(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			h.logger.Warn("sse message dropped - client buffer full")
		}
	}
}

// Register adds a client and returns once it is counted; it reports false
// when the hub is already closed
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		<-client.ready
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastEvent queues an event for every client
func (h *Hub) BroadcastEvent(eventName, data string) {
	select {
	case h.broadcast <- formatMessage(eventName, data):
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// Close shuts down the hub and ends every client stream
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatMessage builds one event, prefixing each data line with "data: "
func formatMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(strings.ReplaceAll(s, "\r", ""), "\n")
	return strings.Split(s, "\n")
}

// HubManager owns the hubs of every watched session and publishes
// controller changes to them
type HubManager struct {
	hubs    map[model.SessionID]*Hub
	mu      sync.RWMutex
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ truthordare.Watcher = (*HubManager)(nil)

// NewHubManager creates a new HubManager
func NewHubManager(m *metrics.Metrics, logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:    make(map[model.SessionID]*Hub),
		metrics: m,
		logger:  logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a session, starting one if needed
func (m *HubManager) GetOrCreateHub(id model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hubLocked(id)
}

func (m *HubManager) hubLocked(id model.SessionID) *Hub {
	if hub, ok := m.hubs[id]; ok {
		return hub
	}

	hub := NewHub(id, m.metrics, m.logger)
	m.hubs[id] = hub
	go hub.Run()
	return hub
}

// Subscribe registers a new client on the session's hub. Holding the manager
// lock keeps a cleanup sweep from closing the hub before the client counts.
func (m *HubManager) Subscribe(id model.SessionID) (*Hub, *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hub := m.hubLocked(id)
	client := NewClient()
	// Hubs in the map are never closed, so this cannot fail
	hub.Register(client)
	return hub, client
}

// GetHub returns the hub for a session, or nil if nobody is watching it
func (m *HubManager) GetHub(id model.SessionID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[id]
}

// RemoveHub closes and forgets a session's hub
func (m *HubManager) RemoveHub(id model.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[id]; ok {
		hub.Close()
		delete(m.hubs, id)
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removed++
		}
	}
	return removed
}

// RunCleanup sweeps empty hubs every interval until ctx is done
func (m *HubManager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.CleanupEmptyHubs(); n > 0 {
				m.logger.Debug("empty sse hubs removed", slog.Int("count", n))
			}
		}
	}
}

// SessionUpdated broadcasts the new session snapshot to its watchers
func (m *HubManager) SessionUpdated(session *model.Session) {
	hub := m.GetHub(session.ID)
	if hub == nil {
		return
	}
	data, err := snapshot(session)
	if err != nil {
		m.logger.Error("failed to encode session snapshot",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()))
		return
	}
	hub.BroadcastEvent(EventSession, data)
}

// SessionEnded tells watchers the session is gone and closes their streams
func (m *HubManager) SessionEnded(id model.SessionID) {
	hub := m.GetHub(id)
	if hub == nil {
		return
	}
	data, _ := json.Marshal(map[string]string{"id": string(id)})
	hub.BroadcastEvent(EventEnded, string(data))
	m.RemoveHub(id)
}

func snapshot(session *model.Session) (string, error) {
	data, err := json.Marshal(response.SessionFromModel(session))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
