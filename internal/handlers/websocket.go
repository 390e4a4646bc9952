package handlers

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/arnold/visionboard-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const EventPaymentCompleted = "payment_completed"

// WSEvent is the JSON message sent to connected clients.
type WSEvent struct {
	Type         string `json:"type"`
	SubmissionID string `json:"submissionId"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// PaymentHub tracks payment pages waiting on a submission and tells them
// when its payment completes. It implements services.PaymentEvents.
type PaymentHub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[Conn]bool
}

func NewPaymentHub() *PaymentHub {
	return &PaymentHub{rooms: make(map[uuid.UUID]map[Conn]bool)}
}

func (h *PaymentHub) register(id uuid.UUID, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[id] == nil {
		h.rooms[id] = make(map[Conn]bool)
	}
	h.rooms[id][conn] = true
}

func (h *PaymentHub) unregister(id uuid.UUID, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[id]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, id)
		}
	}
}

// Watch subscribes conn to submission id until the returned func is called.
func (h *PaymentHub) Watch(id uuid.UUID, conn Conn) (unwatch func()) {
	h.register(id, conn)
	return func() { h.unregister(id, conn) }
}

func (h *PaymentHub) watchers(id uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[id])
}

// Broadcast sends event to every connection watching submission id.
func (h *PaymentHub) Broadcast(id uuid.UUID, event WSEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("WS broadcast marshal error: %v", err)
		return
	}

	// Writes happen under the write lock; gorilla connections allow only
	// one concurrent writer.
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[id] {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("WS write error: %v", err)
		}
	}
}

func (h *PaymentHub) PaymentCompleted(id uuid.UUID) {
	h.Broadcast(id, WSEvent{Type: EventPaymentCompleted, SubmissionID: id.String()})
}

// WebSocketUpgrade rejects plain HTTP requests and malformed ids before the
// connection is upgraded.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if _, err := uuid.Parse(c.Params("id")); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid submission ID",
			})
		}
		return c.Next()
	}
}

// PaymentSocket keeps a payment page subscribed to its submission. A
// submission that is already paid is reported right away, so a page that
// connects after the payment still hears about it.
func (h *Handler) PaymentSocket(c *websocket.Conn) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Close()
		return
	}

	defer h.hub.Watch(id, c)()

	if sub, err := h.submissions.Get(context.Background(), id.String()); err == nil && sub.PaymentStatus == models.PaymentCompleted {
		h.hub.PaymentCompleted(id)
	}

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
