package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/r4diorusak/InventoryHub/internal/models"
	"github.com/r4diorusak/InventoryHub/internal/repositories"
	"github.com/r4diorusak/InventoryHub/internal/response"
)

// ProductService implements the product operations. Every method returns an
// envelope; faults never escape as errors or panics.
type ProductService struct {
	repo    repositories.ProductRepository
	events  EventPublisher
	latency time.Duration
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithLatency makes every operation suspend for d before touching the store.
func WithLatency(d time.Duration) Option {
	return func(s *ProductService) { s.latency = d }
}

// WithEventPublisher sets where mutation events are sent.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *ProductService) {
		if p != nil {
			s.events = p
		}
	}
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:   repo,
		events: noopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllProducts lists active products in store order.
func (s *ProductService) GetAllProducts(ctx context.Context) (env response.Envelope[[]models.Product]) {
	defer recoverInto(&env, "retrieving products")

	if err := s.suspend(ctx); err != nil {
		return internalFailure[[]models.Product]("retrieving products", err)
	}
	products, err := s.repo.ListActive()
	if err != nil {
		return internalFailure[[]models.Product]("retrieving products", err)
	}
	return response.Success(products, fmt.Sprintf("Retrieved %d products", len(products)))
}

// GetProductByID returns one active product.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (env response.Envelope[models.Product]) {
	defer recoverInto(&env, "retrieving the product")

	if err := s.suspend(ctx); err != nil {
		return internalFailure[models.Product]("retrieving the product", err)
	}
	product, err := s.repo.FindActiveByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound[models.Product](id)
		}
		return internalFailure[models.Product]("retrieving the product", err)
	}
	return response.Success(*product, "")
}

// CreateProduct validates the name, then the price, then the trimmed name's
// length, and stores the product. Only the first violated rule is reported.
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (env response.Envelope[models.Product]) {
	defer recoverInto(&env, "creating the product")

	if field, message := req.RequiredFieldError(); field != "" {
		return fieldFailure[models.Product](field, message)
	}
	name := strings.TrimSpace(req.Name)
	if !models.ValidName(name) {
		return fieldFailure[models.Product]("name", fmt.Sprintf("Product name must be between %d and %d characters", models.NameMinLength, models.NameMaxLength))
	}

	if err := s.suspend(ctx); err != nil {
		return internalFailure[models.Product]("creating the product", err)
	}
	product := models.Product{
		Name:          name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		Category:      req.Category,
	}
	if err := s.repo.Insert(&product); err != nil {
		return internalFailure[models.Product]("creating the product", err)
	}

	s.publishMutation(models.EventProductCreated, product.ID, &product)
	return response.Created(product, "Product created successfully")
}

// UpdateProduct merges a partial payload into an active product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, req models.UpdateProductRequest) (env response.Envelope[models.Product]) {
	defer recoverInto(&env, "updating the product")

	if err := s.suspend(ctx); err != nil {
		return internalFailure[models.Product]("updating the product", err)
	}
	product, err := s.repo.Update(id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound[models.Product](id)
		}
		return internalFailure[models.Product]("updating the product", err)
	}

	s.publishMutation(models.EventProductUpdated, product.ID, product)
	return response.Success(*product, "Product updated successfully")
}

// DeleteProduct soft-deletes a product. A second delete of the same ID is a 404.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) (env response.Envelope[bool]) {
	defer recoverInto(&env, "deleting the product")

	if err := s.suspend(ctx); err != nil {
		return internalFailure[bool]("deleting the product", err)
	}
	if err := s.repo.SoftDelete(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) || errors.Is(err, repositories.ErrProductAlreadyDeleted) {
			return notFound[bool](id)
		}
		return internalFailure[bool]("deleting the product", err)
	}

	s.publishMutation(models.EventProductDeleted, id, nil)
	return response.Success(true, "Product deleted successfully")
}

// GetLowStockProducts lists active products with stock at or below the reorder
// level, ascending by stock. Ties keep insertion order.
func (s *ProductService) GetLowStockProducts(ctx context.Context) (env response.Envelope[[]models.Product]) {
	defer recoverInto(&env, "retrieving low-stock products")

	if err := s.suspend(ctx); err != nil {
		return internalFailure[[]models.Product]("retrieving low-stock products", err)
	}
	products, err := s.repo.ListActive()
	if err != nil {
		return internalFailure[[]models.Product]("retrieving low-stock products", err)
	}

	lowStock := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.IsLowStock() {
			lowStock = append(lowStock, p)
		}
	}
	slices.SortStableFunc(lowStock, func(a, b models.Product) int {
		return cmp.Compare(a.StockQuantity, b.StockQuantity)
	})
	return response.Success(lowStock, fmt.Sprintf("Found %d products with low stock", len(lowStock)))
}

// suspend is the single point where an operation waits on (simulated) storage I/O.
func (s *ProductService) suspend(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func notFound[T any](id int) response.Envelope[T] {
	log.Printf("Product with ID %d not found", id)
	return response.NotFound[T](fmt.Sprintf("Product with ID %d not found", id))
}

func fieldFailure[T any](field, message string) response.Envelope[T] {
	return response.ValidationFailure[T](message, map[string][]string{field: {message}})
}

func internalFailure[T any](action string, err error) response.Envelope[T] {
	log.Printf("Error %s: %v", action, err)
	return response.Internal[T](fmt.Sprintf("An error occurred while %s: %v", action, err))
}

func recoverInto[T any](env *response.Envelope[T], action string) {
	if r := recover(); r != nil {
		*env = internalFailure[T](action, fmt.Errorf("%v", r))
	}
}
