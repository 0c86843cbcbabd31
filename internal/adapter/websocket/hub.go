package websocket

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// AlertHub fans published alert events out to connected websocket
// clients. Delivery is best-effort: a client that cannot keep up is
// disconnected rather than allowed to back up the broadcast.
type AlertHub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
	log        *zap.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewAlertHub(log *zap.Logger) *AlertHub {
	return &AlertHub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		log:        log,
	}
}

func (h *AlertHub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// client too slow, drop it
					go func(c *client) { h.unregister <- c }(c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues one alert payload for every connected client.
func (h *AlertHub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.log.Warn("Alert broadcast buffer full, dropping message")
	}
}

// HandleAlertEvent adapts Broadcast to the queue handler signature so
// the hub can subscribe to the alert topic directly.
func (h *AlertHub) HandleAlertEvent(data []byte) error {
	h.Broadcast(data)
	return nil
}

// Serve registers the connection and streams alerts to it until the
// peer goes away. Intended to run inside a fiber websocket handler.
func (h *AlertHub) Serve(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.register <- c

	// Reader only watches for close; inbound payloads are ignored.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister <- c
				return
			}
		}
	}()

	for message := range c.send {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.unregister <- c
			break
		}
	}
	conn.Close()
}
