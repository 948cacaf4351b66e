// handlers/live.go - WebSocket push of note changes
package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second // Time allowed to write a message
	pingPeriod = 30 * time.Second // Keepalive interval
)

// RequireUpgrade rejects plain HTTP requests to the live endpoint.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LiveUpdates streams the authenticated user's note events until the client
// disconnects. Messages are NoteEvent JSON objects; clients refetch what changed.
// GET /ws?token=...
var LiveUpdates = websocket.New(func(conn *websocket.Conn) {
	userID, ok := localUserID(conn.Locals("userId"))
	if !ok || liveHub == nil {
		conn.Close()
		return
	}

	events, cancel := liveHub.Subscribe(userID)
	defer cancel()
	log.Printf("🔌 Live updates connected for user %d", userID)

	// The read loop only notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Printf("🔌 Live updates disconnected for user %d", userID)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
})

func localUserID(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case float64:
		return uint(id), id > 0
	case uint:
		return id, id > 0
	default:
		return 0, false
	}
}
