package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	EventOrderUpdate = "order_update"
	EventTableUpdate = "table_update"
	EventMenuUpdate  = "menu_update"
)

// Event is one broadcast frame pushed to connected clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub maintains the set of active connections and broadcasts domain events
// to every client except the one that caused them.
type Hub struct {
	clients    map[string]*Client // keyed by client ID
	register   chan *Client
	unregister chan *Client
	lock       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister events. Call once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.lock.Lock()
			h.clients[client.id] = client
			h.lock.Unlock()
			log.Printf("Realtime client %s connected", client.id)
		case client := <-h.unregister:
			h.lock.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.lock.Unlock()
			log.Printf("Realtime client %s disconnected", client.id)
		}
	}
}

// Broadcast pushes an event to all connected clients except originID. Slow
// clients are dropped rather than allowed to block the send.
func (h *Hub) Broadcast(eventType string, payload any, originID string) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}

	h.lock.RLock()
	defer h.lock.RUnlock()
	for id, client := range h.clients {
		if id == originID {
			continue
		}
		select {
		case client.send <- data:
		default:
			log.Printf("Realtime client %s send buffer full, dropping event", id)
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and registers
// the client. The client may supply its own ID via the client_id query
// parameter; REST calls carrying the same ID in X-Client-ID are not echoed
// back to it.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.New().String()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), id: clientID}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
