package models

import "time"

// Event types
const (
	EventTypeOrderCompleted = "order.completed"
)

// BaseEvent contains fields common to all published events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCompletedEvent is published after a checkout has been durably
// recorded. Consumers downstream (analytics, notifications) are outside
// this service.
type OrderCompletedEvent struct {
	BaseEvent
	OrderID    string       `json:"order_id"`
	Email      string       `json:"email"`
	TotalPrice string       `json:"total_price"`
	Items      []PricedLine `json:"items"`
}
