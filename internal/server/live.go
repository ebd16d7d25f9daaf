package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/alnah/go-txt2pdf"
)

// Live message types.
const (
	MsgCommand = "command" // client: apply Command with Value
	MsgContent = "content" // client: replace content; server: full document
	MsgSelect  = "select"  // client: set Selection
	MsgTitle   = "title"   // client: ask for the title; server: the title
	MsgState   = "state"   // client: ask for the state; server: the state
	MsgError   = "error"   // server: a request failed
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 20
	sendBuffer     = 64
)

// Origin checking is left to the upgrader default: same host only.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// LiveMessage is the JSON frame exchanged on the live session.
type LiveMessage struct {
	Type      string             `json:"type"`
	Session   string             `json:"session,omitempty"`
	Command   string             `json:"command,omitempty"`
	Value     string             `json:"value,omitempty"`
	Content   string             `json:"content,omitempty"`
	Title     string             `json:"title,omitempty"`
	Selection *txt2pdf.Selection `json:"selection,omitempty"`
	State     *txt2pdf.State     `json:"state,omitempty"`
	Error     string             `json:"error,omitempty"`
	Status    int                `json:"status,omitempty"`
}

// client is one websocket connection.
type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks live connections and fans out state changes.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	log     *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), log: log}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("live session opened", "session", c.id, "sessions", n)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.log.Info("live session closed", "session", c.id, "sessions", n)
	}
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every session. Sessions that cannot keep up are
// dropped.
func (h *Hub) Broadcast(msg LiveMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal live message", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.deliverLocked(c, data)
	}
}

// sendTo queues msg for one session.
func (h *Hub) sendTo(c *client, msg LiveMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal live message", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.deliverLocked(c, data)
	}
}

func (h *Hub) deliverLocked(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn("live session too slow, dropping", "session", c.id)
		delete(h.clients, c)
		close(c.send)
	}
}

// CloseAll ends every session.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	s.hub.add(c)

	doc := s.document()
	s.hub.sendTo(c, LiveMessage{
		Type:    MsgContent,
		Session: c.id,
		Content: doc.Content,
		Title:   doc.Title,
		State:   &doc.State,
	})

	go c.writePump()
	go s.readPump(c)
}

// readPump handles requests until the connection fails.
func (s *Server) readPump(c *client) {
	defer func() {
		s.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg LiveMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("live session read failed", "session", c.id, "error", err)
			}
			return
		}
		if reply, ok := s.handleMessage(msg); ok {
			s.hub.sendTo(c, reply)
		}
	}
}

// handleMessage applies one client request. Successful mutations are
// announced to every session by the editor change hook, so they need no
// direct reply.
func (s *Server) handleMessage(msg LiveMessage) (LiveMessage, bool) {
	var err error
	switch msg.Type {
	case MsgCommand:
		err = s.editor.ApplyCommand(msg.Command, msg.Value)
	case MsgContent:
		err = s.editor.SetContent(msg.Content)
	case MsgSelect:
		if msg.Selection == nil {
			return errorMessage("selection is required", http.StatusBadRequest), true
		}
		if err = s.editor.Select(msg.Selection.Start, msg.Selection.End); err == nil {
			return stateMessage(s.editor), true
		}
	case MsgTitle:
		return LiveMessage{Type: MsgTitle, Title: txt2pdf.DetectTitle(s.editor)}, true
	case MsgState:
		return stateMessage(s.editor), true
	default:
		return errorMessage("unknown message type "+msg.Type, http.StatusBadRequest), true
	}
	if err != nil {
		return errorMessage(err.Error(), StatusFor(err)), true
	}
	return LiveMessage{}, false
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

func stateMessage(ed *txt2pdf.Editor) LiveMessage {
	st := ed.QueryState()
	return LiveMessage{Type: MsgState, State: &st, Title: txt2pdf.DetectTitle(ed)}
}

func errorMessage(msg string, status int) LiveMessage {
	return LiveMessage{Type: MsgError, Error: msg, Status: status}
}
