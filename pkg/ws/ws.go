// Package ws pushes server events to browser clients over gorilla/websocket.
// Clients join one room (a shop id) and only receive that room's broadcasts.
//
//	hub := ws.NewHub()
//	go hub.Run(ctx)
//	ws.Upgrade(w, r, hub, shopID)
//	hub.Broadcast(shopID, payload)
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the allow-all origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Client is one connected socket.
type Client struct {
	hub  *Hub
	room uint
	conn *websocket.Conn
	send chan []byte
}

// readPump only services control frames; the feed is server to client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "room", c.room, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

type roomMessage struct {
	room uint
	data []byte
}

// Hub tracks clients per room. All map access happens on the Run goroutine.
type Hub struct {
	rooms      map[uint]map[*Client]struct{}
	broadcast  chan roomMessage
	register   chan *Client
	unregister chan *Client
	count      chan chan int
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]struct{}),
		broadcast:  make(chan roomMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
	}
}

// Run is the hub loop. It closes every client when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.rooms {
				for c := range clients {
					close(c.send)
				}
			}
			h.rooms = map[uint]map[*Client]struct{}{}
			metrics.LiveFeedClients.Set(0)
			return

		case c := <-h.register:
			if h.rooms[c.room] == nil {
				h.rooms[c.room] = make(map[*Client]struct{})
			}
			h.rooms[c.room][c] = struct{}{}
			metrics.LiveFeedClients.Inc()
			logger.Debug("ws: client connected", "room", c.room, "room_size", len(h.rooms[c.room]))

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			for c := range h.rooms[msg.room] {
				select {
				case c.send <- msg.data:
				default:
					h.drop(c)
				}
			}

		case reply := <-h.count:
			n := 0
			for _, clients := range h.rooms {
				n += len(clients)
			}
			reply <- n
		}
	}
}

func (h *Hub) drop(c *Client) {
	clients, ok := h.rooms[c.room]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.rooms, c.room)
	}
	metrics.LiveFeedClients.Dec()
}

// Broadcast queues data for every client in room. It never blocks; when the
// hub is saturated the message is dropped.
func (h *Hub) Broadcast(room uint, data []byte) {
	select {
	case h.broadcast <- roomMessage{room: room, data: data}:
	default:
		logger.Warn("ws: broadcast dropped", "room", room)
	}
}

// ClientCount returns the number of connected clients across all rooms.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	h.count <- reply
	return <-reply
}

// Upgrade switches the request to a websocket and joins room.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, room uint) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{hub: hub, room: room, conn: conn, send: make(chan []byte, sendBuffer)}
	hub.register <- c
	go c.writePump()
	go c.readPump()
	return nil
}
