package handlers

import (
	"github.com/tutormatch/api/websocket"
	fiberws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// WebsocketUpgrade gates the upgrade to authenticated requests.
func WebsocketUpgrade(c *fiber.Ctx) error {
	if fiberws.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// NotificationSocket keeps a connection open per user; booking events
// are pushed through the hub until the client disconnects.
var NotificationSocket = fiberws.New(func(conn *fiberws.Conn) {
	token := conn.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		conn.Close()
		return
	}

	client := &websocket.Client{UserID: userID, Conn: conn}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
})
