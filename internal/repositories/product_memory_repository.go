package repositories

import (
	"fmt"
	"sync"

	"github.com/r4diorusak/InventoryHub/internal/clock"
	"github.com/r4diorusak/InventoryHub/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// Records are kept in insertion order and never physically removed.
type MemoryProductRepository struct {
	products []models.Product
	nextID   int
	clock    clock.Clock
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates an empty repository. A nil clock uses the wall clock.
func NewMemoryProductRepository(clk clock.Clock) *MemoryProductRepository {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &MemoryProductRepository{
		products: make([]models.Product, 0),
		nextID:   1,
		clock:    clk,
	}
}

// Insert stores a new product. Any ID, timestamps or active flag on the
// candidate are overwritten; the stored values are written back to it.
func (r *MemoryProductRepository) Insert(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	product.CreatedAt = r.clock.Now()
	product.UpdatedAt = nil
	product.IsActive = true
	r.products = append(r.products, *product)
	return nil
}

// FindActiveByID returns a visible product by its ID.
func (r *MemoryProductRepository) FindActiveByID(id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id, true)
	if i < 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	product := r.products[i]
	return &product, nil
}

// FindByID returns a product by its ID whether or not it is active.
func (r *MemoryProductRepository) FindByID(id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id, false)
	if i < 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	product := r.products[i]
	return &product, nil
}

// ListActive returns all active products in insertion order.
func (r *MemoryProductRepository) ListActive() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.IsActive {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// Update merges the patch into an active product and stamps UpdatedAt.
func (r *MemoryProductRepository) Update(id int, patch models.UpdateProductRequest) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, true)
	if i < 0 {
		return nil, fmt.Errorf("product with ID %d not found for update: %w", id, ErrProductNotFound)
	}
	patch.ApplyTo(&r.products[i])
	now := r.clock.Now()
	r.products[i].UpdatedAt = &now

	product := r.products[i]
	return &product, nil
}

// SoftDelete marks a product inactive. The record stays in the store.
func (r *MemoryProductRepository) SoftDelete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, false)
	if i < 0 {
		return fmt.Errorf("product with ID %d not found for deletion: %w", id, ErrProductNotFound)
	}
	if !r.products[i].IsActive {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductAlreadyDeleted)
	}
	r.products[i].IsActive = false
	return nil
}

// indexOf must be called with mu held.
func (r *MemoryProductRepository) indexOf(id int, activeOnly bool) int {
	for i := range r.products {
		if r.products[i].ID != id {
			continue
		}
		if activeOnly && !r.products[i].IsActive {
			return -1
		}
		return i
	}
	return -1
}
