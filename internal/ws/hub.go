package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// EventCatalogUpdate is the type of every event the hub broadcasts.
const EventCatalogUpdate = "catalog_update"

// Event tells connected clients that a catalog entity changed.
type Event struct {
	Type   string `json:"type"`
	Action string `json:"action"` // created | updated | deleted
	Entity string `json:"entity"` // product | supplier | category
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	User   string `json:"user"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

// Publish queues event for broadcast in publish order. When the queue is full the event is
// dropped rather than blocking the caller.
func (h *Hub) Publish(event Event) {
	if event.Type == "" {
		event.Type = EventCatalogUpdate
	}
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("ws event not encodable", zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.log.Warn("ws broadcast queue full, event dropped",
			zap.String("action", event.Action),
			zap.String("entity", event.Entity),
			zap.Uint("id", event.ID))
	}
}

// ClientCount is the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Debug("dropping ws client", zap.Error(err))
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
