// Package client is the caller-side view of the product API: an HTTP client
// that always answers with an envelope, and a caching decorator in front of it.
package client

import (
	"context"

	"github.com/r4diorusak/InventoryHub/internal/models"
	"github.com/r4diorusak/InventoryHub/internal/response"
)

// ProductAPI is the set of product operations as seen by a caller.
// Implementations never return raw transport errors; failures are envelopes.
type ProductAPI interface {
	ListProducts(ctx context.Context) response.Envelope[[]models.Product]
	GetProduct(ctx context.Context, id int) response.Envelope[models.Product]
	CreateProduct(ctx context.Context, req models.CreateProductRequest) response.Envelope[models.Product]
	UpdateProduct(ctx context.Context, id int, req models.UpdateProductRequest) response.Envelope[models.Product]
	DeleteProduct(ctx context.Context, id int) response.Envelope[bool]
	ListLowStock(ctx context.Context) response.Envelope[[]models.Product]
}
