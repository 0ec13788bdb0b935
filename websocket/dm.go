package websocket

import (
	"log"
	"net/http"
	"sync"

	"codefolio/internal/chat"
	"codefolio/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks the open direct-message connections per user. One user may
// have several tabs open; a delivery fans out to all of them.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]bool
}

var hub = &Hub{clients: make(map[string]map[*websocket.Conn]bool)}

// GetHub returns the process-wide delivery hub
func GetHub() *Hub {
	return hub
}

func (h *Hub) register(email string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[email] == nil {
		h.clients[email] = make(map[*websocket.Conn]bool)
	}
	h.clients[email][conn] = true
}

func (h *Hub) unregister(email string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[email], conn)
	if len(h.clients[email]) == 0 {
		delete(h.clients, email)
	}
}

// DeliverToUser pushes an event to every open connection of one user.
// Implements chat.DeliveryHub.
func (h *Hub) DeliverToUser(email string, event *chat.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[email] {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("WebSocket write error for %s: %v", email, err)
		}
	}
}

// DMHandler handles the live direct-message delivery socket
func DMHandler(c *gin.Context) {
	// Get token from query parameter
	token := c.Query("token")
	if token == "" {
		log.Println("WebSocket connection failed: missing token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	valid, email, err := utils.ValidateTokenAndFetchEmail(token)
	if err != nil || !valid || email == "" {
		log.Printf("WebSocket connection failed: invalid token - %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	hub.register(email, conn)
	log.Printf("DM socket opened for %s", email)

	// The socket is delivery-only; inbound frames are read so pings and
	// closes are handled, then dropped.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	hub.unregister(email, conn)
	conn.Close()
	log.Printf("DM socket closed for %s", email)
}
