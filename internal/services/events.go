package services

import (
	"log"
	"time"

	"github.com/r4diorusak/InventoryHub/internal/models"
)

// EventPublisher delivers product events to downstream consumers.
type EventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishProductEvent(models.ProductEvent) error { return nil }

// publishMutation announces a successful mutation and, when the product ends
// up at or below its reorder level, a low-stock alert.
func (s *ProductService) publishMutation(eventType string, productID int, product *models.Product) {
	now := time.Now().UTC()
	s.publish(models.ProductEvent{Type: eventType, ProductID: productID, Product: product, OccurredAt: now})

	if product != nil && product.IsActive && product.IsLowStock() {
		s.publish(models.ProductEvent{Type: models.EventProductLowStock, ProductID: productID, Product: product, OccurredAt: now})
	}
}

func (s *ProductService) publish(event models.ProductEvent) {
	if err := s.events.PublishProductEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for product %d: %v", event.Type, event.ProductID, err)
	}
}
