package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024

	// Time allowed to queue a scan
	submitWait = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Scanner pages are served from other hosts on the floor network
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// Device ID, "web_<uuid>" until the peer identifies itself.
	// Written by the hub goroutine, read by the pumps.
	idMu     sync.RWMutex
	deviceID string
}

// DeviceID returns the id the client is registered under
func (c *Client) DeviceID() string {
	c.idMu.RLock()
	defer c.idMu.RUnlock()
	return c.deviceID
}

func (c *Client) setDeviceID(id string) {
	c.idMu.Lock()
	c.deviceID = id
	c.idMu.Unlock()
}

// InboundMessage is a message received from a device
type InboundMessage struct {
	Type     string          `json:"type"`
	DeviceID string          `json:"deviceId,omitempty"`
	MsgID    string          `json:"msgId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("read error", zap.String("device", c.DeviceID()), zap.Error(err))
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.SendJSON(map[string]string{"type": "ERROR", "error": "invalid message"})
		return
	}

	switch msg.Type {
	case "DEVICE_IDENTIFY":
		if msg.DeviceID == "" {
			c.SendJSON(map[string]string{"type": "ERROR", "msgId": msg.MsgID, "error": "deviceId required"})
			return
		}
		select {
		case c.hub.identify <- identifyRequest{client: c, deviceID: msg.DeviceID}:
		case <-c.hub.done:
			return
		}
		c.SendJSON(map[string]string{"type": "ACK", "msgId": msg.MsgID, "status": "connected"})

	case "SCAN":
		payload := scanPayload(msg.Payload)
		if payload == "" || c.hub.scan == nil {
			c.SendJSON(map[string]string{"type": "ERROR", "msgId": msg.MsgID, "error": "scan rejected"})
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), submitWait)
		err := c.hub.scan(ctx, payload)
		cancel()
		if err != nil {
			c.hub.log.Warn("scan not queued", zap.String("device", c.DeviceID()), zap.Error(err))
			c.SendJSON(map[string]string{"type": "ERROR", "msgId": msg.MsgID, "error": "scan queue busy"})
			return
		}
		c.SendJSON(map[string]string{"type": "ACK", "msgId": msg.MsgID, "status": "queued"})

	default:
		c.SendJSON(map[string]string{"type": "ERROR", "msgId": msg.MsgID, "error": "unknown message type"})
	}
}

// scanPayload accepts the code either as a JSON string or as an embedded object
func scanPayload(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON queues a JSON message for the client. Messages to a full buffer are dropped.
func (c *Client) SendJSON(v interface{}) (sent bool) {
	// The hub closes send when this device reconnects elsewhere
	defer func() {
		if recover() != nil {
			sent = false
		}
	}()
	msg, err := json.Marshal(v)
	if err != nil {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	// Web clients stay anonymous listeners unless they identify
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), deviceID: "web_" + uuid.New().String()}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
