package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"kellyServer/config"
	"kellyServer/game"
	"kellyServer/session"
)

// Client is one websocket connection bound to its own session.
type Client struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	session *session.Session
}

// publish queues a session update without blocking the session loop.
func (c *Client) publish(u session.Update) {
	data, err := json.Marshal(u)
	if err != nil {
		log.WithError(err).Errorf("❌ Failed to marshal %s update", u.Type)
		return
	}

	select {
	case c.Send <- data:
	default:
		log.WithField("client", c.ID).Warnf("⚠️  Send buffer full, dropping %s update", u.Type)
	}
}

func (c *Client) sendError(err error) {
	c.publish(session.Update{Type: session.TypeError, Data: session.ErrorView{Message: err.Error()}})
}

// writePump sends messages from the Send channel to the WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(config.WSPingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.WithError(err).WithField("client", c.ID).Error("❌ Write error")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads messages from the WebSocket and forwards them to the session
func (c *Client) readPump() {
	defer c.Conn.Close()

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).WithField("client", c.ID).Error("❌ Read error")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.WithError(err).WithField("client", c.ID).Warn("❌ Failed to parse message")
			c.sendError(fmt.Errorf("invalid message: %w", err))
			continue
		}

		if err := c.handleMessage(msg); err != nil {
			c.sendError(err)
		}
	}
}

// handleMessage processes incoming client messages
func (c *Client) handleMessage(msg ClientMessage) error {
	s := c.session

	switch msg.Type {
	case MsgSetParams:
		var p game.SimulationParams
		if err := decode(msg, &p); err != nil {
			return err
		}
		s.SetParams(p)

	case MsgGenerate:
		var d generateData
		if len(msg.Data) > 0 {
			if err := decode(msg, &d); err != nil {
				return err
			}
		}
		s.Generate(d.Seed)

	case MsgPlay:
		s.Play()

	case MsgPause:
		s.Pause()

	case MsgStep:
		s.Step()

	case MsgReset:
		s.Reset()

	case MsgCrashStart:
		var d crashStartData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.StartCrash(d.Bet, d.Target)

	case MsgCrashTarget:
		var d crashTargetData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.SetCrashTarget(d.Target)

	case MsgAdvisory:
		s.RequestAdvisory()

	case MsgState:
		s.RequestState()

	default:
		log.WithField("client", c.ID).Warnf("⚠️  Unknown message type: %s", msg.Type)
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	return nil
}

func decode(msg ClientMessage, v any) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%s: missing data", msg.Type)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%s: invalid data: %w", msg.Type, err)
	}
	return nil
}
