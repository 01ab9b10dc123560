package ws

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one connected websocket, bound to the company of its user.
type Client struct {
	Conn      Conn
	UserID    uuid.UUID
	CompanyID uuid.UUID
}

// EventUser identifies who triggered an event.
type EventUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Event is the JSON message pushed to clients.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data,omitempty"`
	User    *EventUser  `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	EventStockUpdate        = "stock_update"
	EventTransactionCreated = "transaction_created"
	EventCatalogUpdate      = "catalog_update"
)

type message struct {
	companyID uuid.UUID
	payload   []byte
}

// Hub fans out events to the clients of one company. All client bookkeeping
// happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{} // closed when Run returns
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
}

// Run serves the hub until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.Conn.Close()
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug().
				Str("user_id", c.UserID.String()).
				Str("company_id", c.CompanyID.String()).
				Int("clients", len(h.clients)).
				Msg("WS client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Conn.Close()
			}

		case m := <-h.broadcast:
			for c := range h.clients {
				if c.CompanyID != m.companyID {
					continue
				}
				if err := c.Conn.WriteMessage(websocket.TextMessage, m.payload); err != nil {
					h.log.Debug().Err(err).Str("user_id", c.UserID.String()).Msg("Dropping WS client")
					c.Conn.Close()
					delete(h.clients, c)
				}
			}
		}
	}
}

// Register adds c to the hub. After shutdown the connection is closed instead.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Conn.Close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues event for every client of companyID. It never blocks; when
// the queue is full the event is dropped.
func (h *Hub) Publish(companyID uuid.UUID, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("type", event.Type).Msg("Failed to encode WS event")
		return
	}
	select {
	case h.broadcast <- message{companyID: companyID, payload: payload}:
	default:
		h.log.Warn().Str("type", event.Type).Msg("WS broadcast queue full, event dropped")
	}
}

// Serve registers conn and blocks reading from it until the peer goes away.
func (h *Hub) Serve(conn *websocket.Conn, userID, companyID uuid.UUID) {
	c := &Client{Conn: conn, UserID: userID, CompanyID: companyID}
	h.Register(c)
	defer h.Unregister(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
