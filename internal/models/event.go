package models

import "time"

// Product event types published after successful mutations.
const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventProductLowStock = "product.low_stock"
)

// ProductEvent is the message body published to the inventory events queue.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  int       `json:"productId"`
	Product    *Product  `json:"product,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
