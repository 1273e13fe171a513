package ws

import (
	"encoding/json"
	"log"
	"sync"

	"equisecure/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgPlanStatus MessageType = "plan_status"
	MsgError      MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans plan-status updates out to connected admin clients
type Hub struct {
	conns map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message
}

// Connection represents a subscribed admin client
type Connection struct {
	UserID string
	Send   chan []byte
	Hub    *Hub
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			h.mu.Unlock()
			log.Printf("admin %s subscribed to plan updates", conn.UserID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
				log.Printf("admin %s unsubscribed from plan updates", conn.UserID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, _ := json.Marshal(msg)
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// PublishPlanStatus broadcasts a plan-status change to every subscriber
// (implements service.StatusPublisher)
func (h *Hub) PublishPlanStatus(update model.PlanStatusUpdate) {
	payload, _ := json.Marshal(update)
	h.broadcast <- &Message{
		Type:    MsgPlanStatus,
		Payload: payload,
	}
}
