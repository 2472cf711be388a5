package ws

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"kellyServer/advisory"
	"kellyServer/clock"
	"kellyServer/config"
	"kellyServer/session"
)

var clientCount int64

// ClientCount returns the number of open websocket sessions.
func ClientCount() int64 {
	return atomic.LoadInt64(&clientCount)
}

// Handler upgrades connections and runs one session per connection.
type Handler struct {
	game     config.GameConfig
	advisor  advisory.Advisor
	clock    clock.Clock
	upgrader websocket.Upgrader
}

func NewHandler(game config.GameConfig, advisor advisory.Advisor) *Handler {
	return &Handler{
		game:    game,
		advisor: advisor,
		clock:   clock.Real(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.WSReadBufferSize,
			WriteBufferSize: config.WSWriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.WithField("remote", r.RemoteAddr).Info("📥 WebSocket connection attempt")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("❌ WebSocket upgrade failed")
		return
	}

	client := &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, config.WSSendBufferSize),
	}
	client.session = session.New(session.Options{
		Game:    h.game,
		Clock:   h.clock,
		Advisor: h.advisor,
		Publish: client.publish,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go client.session.Run(ctx)
	client.session.RequestState()

	count := atomic.AddInt64(&clientCount, 1)
	log.WithFields(log.Fields{
		"client":  client.ID,
		"session": client.session.ID(),
		"total":   count,
	}).Info("✅ Client connected")

	go client.writePump()
	go func() {
		client.readPump()

		// Publish runs on the session loop, so Send may only close after it exits.
		cancel()
		<-client.session.Done()
		close(client.Send)

		count := atomic.AddInt64(&clientCount, -1)
		log.WithFields(log.Fields{"client": client.ID, "total": count}).Info("👋 Client disconnected")
	}()
}
