package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tetianalytvynovska/tax-system/internal/model"
)

// Event is one report lifecycle notification pushed to connected
// administrators.
type Event struct {
	Type              string    `json:"type"`
	ReportID          uint      `json:"report_id"`
	UserID            uint      `json:"user_id"`
	DeclarationNumber *string   `json:"declaration_number"`
	TaxType           string    `json:"tax_type"`
	TotalAmount       float64   `json:"total_amount"`
	Status            string    `json:"status"`
	At                time.Time `json:"at"`
}

// Client represents a single connected WebSocket client
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients and broadcasts report events to
// them. One hub serves the whole process.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *zap.Logger
}

// NewHub initializes a new WS Hub instance
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the core dispatch loop for WebSocket events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("websocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishReportEvent serializes the event and hands it to the dispatch loop.
// Serialization failures are logged and dropped, feed delivery is advisory.
func (h *Hub) PublishReportEvent(eventType string, report *model.TaxReport) {
	payload, err := json.Marshal(Event{
		Type:              eventType,
		ReportID:          report.ID,
		UserID:            report.UserID,
		DeclarationNumber: report.DeclarationNumber,
		TaxType:           report.TaxType,
		TotalAmount:       report.TotalAmount,
		Status:            report.Status,
		At:                time.Now(),
	})
	if err != nil {
		h.logger.Warn("websocket event marshal failed", zap.Error(err))
		return
	}
	h.broadcast <- payload
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		// Fast track writing queued messages
		n := len(c.send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	for {
		// Reads keep the connection alive; client messages are ignored.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", zap.Error(err))
			}
			break
		}
	}
}
