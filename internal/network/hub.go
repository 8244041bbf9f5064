package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/engine"
	"github.com/MRamiBalles/fatsim/server/internal/events"
	"github.com/MRamiBalles/fatsim/server/internal/platform/config"
	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
	"github.com/MRamiBalles/fatsim/server/internal/platform/metrics"
)

// MessageType tags outbound websocket frames.
type MessageType string

const (
	MsgTypeState MessageType = "STATE"
	MsgTypeEvent MessageType = "EVENT"
	MsgTypeError MessageType = "ERROR"
)

// Message is the envelope of every outbound frame.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Version   uint64      `json:"version,omitempty"`
	Payload   interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	engine     *engine.Engine
	tuningMu   sync.RWMutex
	tuning     *config.Tuning
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub bound to one engine.
func NewHub(eng *engine.Engine, tuning *config.Tuning, log *logger.Logger) *Hub {
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	return &Hub{
		broadcast:  make(chan []byte, tuning.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		engine:     eng,
		tuning:     tuning,
		logger:     log,
	}
}

// Tuning returns a copy of the settings currently in effect.
func (h *Hub) Tuning() config.Tuning {
	h.tuningMu.RLock()
	defer h.tuningMu.RUnlock()
	return *h.tuning
}

// ApplyRecommendations retunes the hub from metrics advice and reports whether
// anything changed. Pollers pick up a new interval on their next tick and new
// clients get the new send buffer; the broadcast channel keeps its size.
func (h *Hub) ApplyRecommendations(rec *config.Recommendations) bool {
	h.tuningMu.Lock()
	defer h.tuningMu.Unlock()

	before := *h.tuning
	next := before
	config.ApplyRecommendations(&next, rec)
	if next == before {
		return false
	}
	h.tuning = &next
	h.logger.Infof("[TUNING] broadcast every %v, client buffer %d", next.BroadcastInterval, next.ClientSendBuffer)
	return true
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow reader; drop it rather than stall everyone else.
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastState sends a full state snapshot to all connected clients.
func (h *Hub) BroadcastState(s game.State, version uint64) {
	h.publish(Message{
		Type:      MsgTypeState,
		Timestamp: time.Now().Unix(),
		Version:   version,
		Payload:   s,
	})
}

// BroadcastEvent takes a GameEvent, serializes it to JSON, and sends it to all connected clients.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	h.publish(Message{
		Type:      MsgTypeEvent,
		Timestamp: event.Timestamp.Unix(),
		Payload:   event,
	})
}

func (h *Hub) publish(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("Failed to serialize %s for WebSocket broadcast: %v", msg.Type, err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("Broadcast buffer full, dropping " + string(msg.Type))
		metrics.Get().RecordWSError()
	}
}

// StartStatePoller spawns a goroutine that watches the engine version and
// pushes a snapshot after every committed change, idle ticks included.
func (h *Hub) StartStatePoller(ctx context.Context) {
	var lastVersion uint64
	go h.poll(ctx, func() {
		if v := h.engine.Version(); v != lastVersion {
			h.BroadcastState(h.engine.Snapshot(), v)
			lastVersion = v
		}
	})
}

// StartEventPoller spawns a goroutine to poll the EventLog and push new events to the Hub.
// This allows the Hub to run independently from the Engine's dispatch path while picking up the same events.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	lastProcessedEvent := eventLog.Len()
	go h.poll(ctx, func() {
		newEvents, next := eventLog.Read(lastProcessedEvent)
		for _, event := range newEvents {
			// Clicks already show up in the state stream.
			if event.Type == events.EventTypeClick {
				continue
			}
			h.BroadcastEvent(event)
		}
		lastProcessedEvent = next
	})
}

// poll runs fn every BroadcastInterval until ctx ends, following retunes.
func (h *Hub) poll(ctx context.Context, fn func()) {
	interval := h.Tuning().BroadcastInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
			if next := h.Tuning().BroadcastInterval; next > 0 && next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

// ServeWS upgrades an HTTP request and attaches the new client to the hub.
func (h *Hub) ServeWS(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	if h.ClientCount() >= h.Tuning().MaxClients {
		http.Error(w, "Too many clients", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("Failed to upgrade websocket connection: %v", err)
		metrics.Get().RecordWSError()
		return
	}

	client := NewClient(h, conn)

	// New clients get the current state first. Nothing else can write to
	// send before Register, so the buffered channel cannot be full.
	if payload, err := json.Marshal(Message{
		Type:      MsgTypeState,
		Timestamp: time.Now().Unix(),
		Version:   h.engine.Version(),
		Payload:   h.engine.Snapshot(),
	}); err == nil {
		client.send <- payload
	}
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}

// NewUpgrader returns an upgrader accepting allowedOrigin, or any origin when empty.
func NewUpgrader(allowedOrigin string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}
}
