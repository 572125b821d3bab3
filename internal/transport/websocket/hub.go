// Package websocket streams 2048 sessions to browser clients.
//
// Clients connect with ?session=<id> and send JSON commands such as
// {"action":"move","direction":"left"}. Commands that change the game are
// answered by broadcasting the new state to every client of the session;
// the rest are answered to the sender only.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/t2048"
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

	// Time allowed for save and load against the session slot.
	commandTimeout = 5 * time.Second
)

// Events carried by Message.
const (
	EventStateUpdate = "state_update"
	EventSaved       = "saved"
	EventLoaded      = "loaded"
	EventError       = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is what the hub sends to clients.
type Message struct {
	SessionID string          `json:"session_id"`
	Event     string          `json:"event"`
	Action    string          `json:"action,omitempty"`
	State     *t2048.Snapshot `json:"state,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Client is one websocket connection bound to a session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type directMessage struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients per session and fans out state.
type Hub struct {
	manager *session.Manager
	logger  *log.Logger

	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	broadcast  chan *Message
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a hub serving sessions from manager.
func NewHub(manager *session.Manager, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default().WithPrefix("ws")
	}
	return &Hub{
		manager:    manager,
		logger:     logger,
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		direct:     make(chan directMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for _, clients := range h.sessions {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case dm := <-h.direct:
			h.sendTo(dm.client, dm.data)
		}
	}
}

// ServeWS upgrades the request and attaches the connection to sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := h.manager.Get(sessionID)
	if err != nil {
		http.Error(w, "invalid session", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sess.ID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	snap := sess.Snapshot()
	h.reply(client, &Message{SessionID: sess.ID, Event: EventStateUpdate, State: &snap})
}

// BroadcastToSession sends the session's state to all of its clients.
func (h *Hub) BroadcastToSession(sessionID string, snap t2048.Snapshot) {
	h.BroadcastEvent(&Message{
		SessionID: sessionID,
		Event:     EventStateUpdate,
		State:     &snap,
	})
}

// BroadcastEvent sends a custom event to all clients in a session.
// It is a no-op once the hub has stopped.
func (h *Hub) BroadcastEvent(msg *Message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

func (h *Hub) reply(client *Client, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal reply", "error", err)
		return
	}
	select {
	case h.direct <- directMessage{client: client, data: data}:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Debug("client registered",
		"session", client.sessionID, "clients", len(h.sessions[client.sessionID]))
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	h.logger.Debug("client unregistered",
		"session", client.sessionID, "clients", len(clients))
}

func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	for client := range h.sessions[message.SessionID] {
		h.sendTo(client, data)
	}
}

// sendTo must run on the hub goroutine.
func (h *Hub) sendTo(client *Client, data []byte) {
	if !h.sessions[client.sessionID][client] {
		return
	}
	select {
	case client.send <- data:
	default:
		h.unregisterClient(client)
	}
}

// handle applies one client command and routes the answer.
func (h *Hub) handle(client *Client, raw []byte) {
	var cmd session.Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		h.reply(client, &Message{SessionID: client.sessionID, Event: EventError, Error: "invalid message"})
		return
	}

	sess, err := h.manager.Get(client.sessionID)
	if err != nil {
		h.reply(client, &Message{SessionID: client.sessionID, Event: EventError, Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := sess.Apply(ctx, cmd)
	msg := &Message{
		SessionID: sess.ID,
		Event:     eventFor(res.Action),
		Action:    res.Action,
		State:     &res.Snapshot,
	}
	if err != nil {
		h.logger.Debug("command failed", "session", sess.ID, "action", cmd.Action, "error", err)
		msg.Event = EventError
		msg.Error = err.Error()
		h.reply(client, msg)
		return
	}

	if cmd.Mutates() {
		h.BroadcastEvent(msg)
		return
	}
	h.reply(client, msg)
}

func eventFor(action string) string {
	switch action {
	case session.ActionSave:
		return EventSaved
	case session.ActionLoad:
		return EventLoaded
	}
	return EventStateUpdate
}

// readPump pumps commands from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read", "session", c.sessionID, "error", err)
			}
			return
		}
		c.hub.handle(c, raw)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
