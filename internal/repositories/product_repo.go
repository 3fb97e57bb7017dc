package repositories

import (
	"errors"

	"github.com/r4diorusak/InventoryHub/internal/models"
)

var (
	// ErrProductNotFound is returned when no record matches a lookup.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductAlreadyDeleted is returned by SoftDelete when the record exists
	// but is already inactive.
	ErrProductAlreadyDeleted = errors.New("product already deleted")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Insert assigns the next identifier, stamps CreatedAt and marks the product active.
	Insert(product *models.Product) error
	FindActiveByID(id int) (*models.Product, error)
	// FindByID ignores the active flag.
	FindByID(id int) (*models.Product, error)
	ListActive() ([]models.Product, error)
	Update(id int, patch models.UpdateProductRequest) (*models.Product, error)
	// SoftDelete locates the record regardless of the active flag and deactivates it.
	SoftDelete(id int) error
}
