package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/models"
)

// Profit period event types pushed to connected admin dashboards
const (
	EventPeriodCalculated = "profit_period_calculated"
	EventPeriodFinalized  = "profit_period_finalized"
	EventPeriodPaid       = "profit_period_paid"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
}

// Hub maintains the set of connected admin clients and broadcasts profit
// period lifecycle events to them
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a notification to every connected client
func (h *Hub) Broadcast(notification Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.Conn.WriteJSON(notification)
	}
}

// periodEventData is the compact period view pushed over the wire
func periodEventData(period *models.ProfitPeriod) interface{} {
	return map[string]interface{}{
		"id":      period.ID.Hex(),
		"name":    period.Name,
		"number":  period.Number,
		"status":  period.Status,
		"summary": period.Summary,
		"errors":  len(period.CalculationErrors),
	}
}

// PeriodCalculated implements the profit period notifier
func (h *Hub) PeriodCalculated(period *models.ProfitPeriod) {
	h.Broadcast(Notification{
		Type:    EventPeriodCalculated,
		Message: "Profit period calculated",
		Data:    periodEventData(period),
	})
}

// PeriodFinalized implements the profit period notifier
func (h *Hub) PeriodFinalized(period *models.ProfitPeriod) {
	h.Broadcast(Notification{
		Type:    EventPeriodFinalized,
		Message: "Profit period finalized",
		Data:    periodEventData(period),
	})
}

// PeriodPaid implements the profit period notifier
func (h *Hub) PeriodPaid(period *models.ProfitPeriod) {
	h.Broadcast(Notification{
		Type:    EventPeriodPaid,
		Message: "Profit period marked as paid",
		Data:    periodEventData(period),
	})
}
