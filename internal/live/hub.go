package live

import (
	"log"
	"net/http"
	"sync"

	"gate-backend/internal/models"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans gate events out to connected dashboard clients. Slow or dead
// connections are dropped, never waited on.
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan models.GateEvent
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan models.GateEvent, 64),
	}
}

// Run delivers broadcast events until the channel closes. Run from its
// own goroutine.
func (h *Hub) Run() {
	for event := range h.broadcast {
		h.clientsMux.Lock()
		for client := range h.clients {
			if err := client.WriteJSON(event); err != nil {
				client.Close()
				delete(h.clients, client)
			}
		}
		h.clientsMux.Unlock()
	}
}

// Publish queues an event for broadcast. Drops the event when the buffer
// is full rather than blocking an entry write.
func (h *Hub) Publish(event models.GateEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[Live] feed buffer full, dropping %s/%s event", event.Kind, event.Action)
	}
}

// ServeWS upgrades the connection and registers the client. Reads are
// discarded; the feed is one-way.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Live] websocket upgrade failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	go func() {
		defer func() {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
