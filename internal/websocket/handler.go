package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs handles websocket requests from the peer. clientID identifies
// the tab; an empty id gets a generated one.
func ServeWs(hub *Hub, c *websocket.Conn, clientID string) {
	if clientID == "" {
		clientID = uuid.NewString()
	}

	client := &Client{Hub: hub, Conn: c, ClientID: clientID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
