package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// Push carries one payload to a set of connected users. Users without
// an open connection are skipped silently.
type Push struct {
	UserIDs []uuid.UUID
	Payload interface{}
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Notify = make(chan Push, 32)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case push := <-Notify:
			for _, userID := range push.UserIDs {
				clientsMu.RLock()
				conn, ok := clients[userID]
				clientsMu.RUnlock()
				if !ok {
					continue
				}
				if err := conn.WriteJSON(push.Payload); err != nil {
					log.Printf("Error pushing event to client %s: %v", userID, err)
					conn.Close()
					clientsMu.Lock()
					delete(clients, userID)
					clientsMu.Unlock()
				}
			}
		}
	}
}
