package ws

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Hub fans ledger update events out to every connected websocket client.
// Clients are keyed by a generated id so connect/disconnect logs carry a
// stable identity.
type Hub struct {
	clients    map[string]*websocket.Conn
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*websocket.Conn),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) findID(conn *websocket.Conn) (string, bool) {
	for id, c := range h.clients {
		if c == conn {
			return id, true
		}
	}
	return "", false
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			id := uuid.NewString()
			h.mutex.Lock()
			h.clients[id] = conn
			h.mutex.Unlock()
			log.Printf("WS client connected: %s", id)

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if id, ok := h.findID(conn); ok {
				delete(h.clients, id)
				conn.Close()
				log.Printf("WS client disconnected: %s", id)
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for id, conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, id)
				}
			}
			h.mutex.Unlock()
		}
	}
}
