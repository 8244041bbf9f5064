package network

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/engine"
	"github.com/MRamiBalles/fatsim/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Deadline for one dispatched action, save included.
	actionTimeout = 5 * time.Second
)

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type    string          `json:"type"`    // "CLICK", "EAT", "BUY_UPGRADE", etc.
	Payload json.RawMessage `json:"payload"` // Action-specific data
}

// actionPayload is the union of every action's fields.
type actionPayload struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Gender   game.Gender `json:"gender"`
	SkinTone int         `json:"skinTone"`
}

// Client represents an active WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	windowStart time.Time
	windowCount int
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.Tuning().ClientSendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warnf("WebSocket read error: %v", err)
				metrics.Get().RecordWSError()
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket. err: " + err.Error())
			c.replyError("malformed message")
			continue
		}

		c.handlePlayerAction(action)
	}
}

// allow applies the per-client message budget, one window per second.
func (c *Client) allow(now time.Time) bool {
	if now.Sub(c.windowStart) >= time.Second {
		c.windowStart = now
		c.windowCount = 0
	}
	c.windowCount++
	return c.windowCount <= c.hub.Tuning().MaxMessagesPerSecond
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	// 1. Rate Limiting Check
	if !c.allow(time.Now()) {
		c.hub.logger.Warn("Rate limit exceeded for client action " + action.Type)
		return
	}

	// 2. Decode into an engine action
	a, err := decodeAction(action)
	if err != nil {
		c.hub.logger.Warnf("Rejected %s: %v", action.Type, err)
		c.replyError(err.Error())
		return
	}

	// 3. Dispatch; the state poller broadcasts the result.
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	if _, err := c.hub.engine.Dispatch(ctx, a); err != nil {
		c.hub.logger.Warnf("Dispatch %s failed: %v", action.Type, err)
		c.replyError(err.Error())
	}
}

// decodeAction validates the wire form and builds the engine action.
func decodeAction(action PlayerAction) (engine.Action, error) {
	var p actionPayload
	if len(action.Payload) > 0 && string(action.Payload) != "null" {
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return engine.Action{}, errors.New("invalid payload")
		}
	}

	a := engine.Action{Type: engine.ActionType(action.Type), ItemID: p.ID}
	switch a.Type {
	case engine.ActionInitialize:
		name, err := game.ValidateIdentity(p.Name, p.Gender, p.SkinTone)
		if err != nil {
			return engine.Action{}, err
		}
		a.Name, a.Gender, a.SkinTone = name, p.Gender, p.SkinTone
	case engine.ActionEat, engine.ActionBuyCosmetic, engine.ActionBuyUpgrade:
		if p.ID == "" {
			return engine.Action{}, errors.New("missing item id")
		}
	}
	return a, nil
}

// replyError queues an error frame for this client only.
func (c *Client) replyError(msg string) {
	payload, err := json.Marshal(Message{
		Type:      MsgTypeError,
		Timestamp: time.Now().Unix(),
		Payload:   map[string]string{"error": msg},
	})
	if err != nil {
		return
	}

	// The hub closes send under its lock; only write while still registered.
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			metrics.Get().RecordWSMessage(false)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
				metrics.Get().RecordWSMessage(false)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
