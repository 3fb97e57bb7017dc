package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/r4diorusak/InventoryHub/internal/clock"
	"github.com/r4diorusak/InventoryHub/internal/models"
	"github.com/r4diorusak/InventoryHub/internal/repositories"
	"github.com/r4diorusak/InventoryHub/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Insert(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) FindActiveByID(id int) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(id int) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListActive() ([]models.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(id int, patch models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) SoftDelete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockEventPublisher records published product events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProductEvent(event models.ProductEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int { return &v }

func seededService(t *testing.T, clk clock.Clock, opts ...services.Option) (*services.ProductService, *repositories.MemoryProductRepository) {
	t.Helper()
	repo := repositories.NewMemoryProductRepository(clk)
	return services.NewProductService(repo, opts...), repo
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Product A", Price: price("10"), StockQuantity: 100, IsActive: true},
		{ID: 2, Name: "Product B", Price: price("20"), StockQuantity: 50, IsActive: true},
	}
	mockRepo.On("ListActive").Return(expectedProducts, nil).Once()

	env := service.GetAllProducts(context.Background())

	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Contains(t, env.Message, "2")
	products, ok := env.Payload()
	require.True(t, ok)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetAllProducts_RepositoryFault(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("ListActive").Return(nil, errors.New("disk on fire")).Once()

	env := service.GetAllProducts(context.Background())

	assert.False(t, env.Success)
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
	assert.Contains(t, env.Message, "disk on fire")
	assert.Nil(t, env.Data)
	mockRepo.AssertExpectations(t)
}

func TestProductService_PanicsBecome500(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("FindActiveByID", 7).Panic("index out of range").Once()

	env := service.GetProductByID(context.Background(), 7)

	assert.False(t, env.Success)
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
	assert.Contains(t, env.Message, "index out of range")
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProduct := &models.Product{ID: 1, Name: "Product A", Price: price("10"), StockQuantity: 100, IsActive: true}

	// Test successful retrieval
	mockRepo.On("FindActiveByID", 1).Return(expectedProduct, nil).Once()
	env := service.GetProductByID(context.Background(), 1)
	assert.True(t, env.Success)
	product, ok := env.Payload()
	require.True(t, ok)
	assert.Equal(t, *expectedProduct, product)

	// Test product not found
	mockRepo.On("FindActiveByID", 999).Return(nil, fmt.Errorf("product with ID 999: %w", repositories.ErrProductNotFound)).Once()
	env = service.GetProductByID(context.Background(), 999)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Equal(t, "Product with ID 999 not found", env.Message)
	assert.Nil(t, env.Data)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateProductRequest
		field   string
		message string
	}{
		{name: "emptyName", req: models.CreateProductRequest{Price: price("5")}, field: "name", message: "Product name is required"},
		{name: "blankName", req: models.CreateProductRequest{Name: "   ", Price: price("5")}, field: "name", message: "Product name is required"},
		{name: "zeroPrice", req: models.CreateProductRequest{Name: "Widget"}, field: "price", message: "Product price must be greater than zero"},
		{name: "negativePrice", req: models.CreateProductRequest{Name: "Widget", Price: price("-1")}, field: "price", message: "Product price must be greater than zero"},
		{name: "bothInvalidReportsName", req: models.CreateProductRequest{Price: price("-1")}, field: "name", message: "Product name is required"},
		{name: "shortAfterTrim", req: models.CreateProductRequest{Name: " a", Price: price("5")}, field: "name", message: "Product name must be between 2 and 100 characters"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := services.NewProductService(mockRepo)

			env := service.CreateProduct(context.Background(), tc.req)

			assert.False(t, env.Success)
			assert.Equal(t, http.StatusBadRequest, env.StatusCode)
			assert.Equal(t, tc.message, env.Message)
			assert.Equal(t, map[string][]string{tc.field: {tc.message}}, env.Errors)
			// The store is never touched.
			mockRepo.AssertNotCalled(t, "Insert", mock.Anything)
		})
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	publisher := new(MockEventPublisher)
	service, _ := seededService(t, clk, services.WithEventPublisher(publisher))

	publisher.On("PublishProductEvent", mock.MatchedBy(func(e models.ProductEvent) bool {
		return e.Type == models.EventProductCreated && e.ProductID == 1
	})).Return(nil).Once()

	env := service.CreateProduct(context.Background(), models.CreateProductRequest{
		Name:          "  Widget ",
		Price:         price("9.99"),
		StockQuantity: 40,
		ReorderLevel:  5,
		Category:      "Tools",
	})

	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.Equal(t, "Product created successfully", env.Message)
	product, ok := env.Payload()
	require.True(t, ok)
	assert.Equal(t, 1, product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.True(t, product.IsActive)
	assert.Equal(t, clk.Now(), product.CreatedAt)
	publisher.AssertExpectations(t)
}

func TestProductService_CreateProduct_LowStockPublishesAlert(t *testing.T) {
	publisher := new(MockEventPublisher)
	service, _ := seededService(t, nil, services.WithEventPublisher(publisher))

	publisher.On("PublishProductEvent", mock.MatchedBy(func(e models.ProductEvent) bool {
		return e.Type == models.EventProductCreated
	})).Return(nil).Once()
	publisher.On("PublishProductEvent", mock.MatchedBy(func(e models.ProductEvent) bool {
		return e.Type == models.EventProductLowStock
	})).Return(errors.New("broker unavailable")).Once()

	env := service.CreateProduct(context.Background(), models.CreateProductRequest{Name: "Widget", Price: price("9.99"), StockQuantity: 0, ReorderLevel: 1})

	// Publishing failures never change the outcome.
	assert.True(t, env.Success)
	publisher.AssertExpectations(t)
}

func TestProductService_CreateProduct_IDsStrictlyIncrease(t *testing.T) {
	service, _ := seededService(t, nil)

	lastID := 0
	for i := 0; i < 5; i++ {
		env := service.CreateProduct(context.Background(), models.CreateProductRequest{Name: fmt.Sprintf("Item %d", i), Price: price("1")})
		product, ok := env.Payload()
		require.True(t, ok)
		assert.Greater(t, product.ID, lastID)
		lastID = product.ID
	}
}

func TestProductService_UpdateProduct_Partial(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	service, _ := seededService(t, clk)

	created, ok := service.CreateProduct(context.Background(), models.CreateProductRequest{
		Name: "Laptop", Description: "Fast", Price: price("1200"), StockQuantity: 10, ReorderLevel: 3, Category: "Electronics",
	}).Payload()
	require.True(t, ok)

	clk.Advance(time.Second)
	env := service.UpdateProduct(context.Background(), created.ID, models.UpdateProductRequest{StockQuantity: intPtr(1)})

	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "Product updated successfully", env.Message)
	updated, ok := env.Payload()
	require.True(t, ok)
	assert.Equal(t, 1, updated.StockQuantity)
	assert.Equal(t, "Laptop", updated.Name)
	assert.Equal(t, "Fast", updated.Description)
	assert.True(t, updated.Price.Equal(price("1200")))
	assert.Equal(t, "Electronics", updated.Category)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	service, _ := seededService(t, nil)

	env := service.UpdateProduct(context.Background(), 42, models.UpdateProductRequest{Name: "Ghost"})

	assert.False(t, env.Success)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Equal(t, "Product with ID 42 not found", env.Message)
}

func TestProductService_DeleteProduct_SecondDeleteIs404(t *testing.T) {
	service, repo := seededService(t, nil)
	created, ok := service.CreateProduct(context.Background(), models.CreateProductRequest{Name: "Laptop", Price: price("1")}).Payload()
	require.True(t, ok)

	first := service.DeleteProduct(context.Background(), created.ID)
	assert.True(t, first.Success)
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "Product deleted successfully", first.Message)
	deleted, ok := first.Payload()
	assert.True(t, ok)
	assert.True(t, deleted)

	second := service.DeleteProduct(context.Background(), created.ID)
	assert.False(t, second.Success)
	assert.Equal(t, http.StatusNotFound, second.StatusCode)

	never := service.DeleteProduct(context.Background(), 777)
	assert.Equal(t, http.StatusNotFound, never.StatusCode)

	// The record still exists; it is only hidden from reads.
	raw, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.False(t, raw.IsActive)
	assert.Equal(t, http.StatusNotFound, service.GetProductByID(context.Background(), created.ID).StatusCode)
	all, _ := service.GetAllProducts(context.Background()).Payload()
	assert.Empty(t, all)
}

func TestProductService_GetLowStockProducts_Scenario(t *testing.T) {
	service, _ := seededService(t, nil)
	ctx := context.Background()

	a, _ := service.CreateProduct(ctx, models.CreateProductRequest{Name: "A", Price: price("1"), StockQuantity: 2, ReorderLevel: 10}).Payload()
	service.CreateProduct(ctx, models.CreateProductRequest{Name: "B", Price: price("1"), StockQuantity: 15, ReorderLevel: 5})

	low, ok := service.GetLowStockProducts(ctx).Payload()
	require.True(t, ok)
	require.Len(t, low, 1)
	assert.Equal(t, a.ID, low[0].ID)

	c, _ := service.CreateProduct(ctx, models.CreateProductRequest{Name: "Widget", Price: price("9.99"), StockQuantity: 0, ReorderLevel: 1}).Payload()

	env := service.GetLowStockProducts(ctx)
	assert.Equal(t, "Found 2 products with low stock", env.Message)
	low, ok = env.Payload()
	require.True(t, ok)
	require.Len(t, low, 2)
	assert.Equal(t, c.ID, low[0].ID)
	assert.Equal(t, a.ID, low[1].ID)

	// Deleted products drop out of the low-stock list.
	service.DeleteProduct(ctx, c.ID)
	low, _ = service.GetLowStockProducts(ctx).Payload()
	require.Len(t, low, 1)
	assert.Equal(t, a.ID, low[0].ID)
}

func TestProductService_GetLowStockProducts_TiesKeepInsertionOrder(t *testing.T) {
	service, _ := seededService(t, nil)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		service.CreateProduct(ctx, models.CreateProductRequest{Name: name, Price: price("1"), StockQuantity: 3, ReorderLevel: 3})
	}
	service.CreateProduct(ctx, models.CreateProductRequest{Name: "Lowest", Price: price("1"), StockQuantity: 1, ReorderLevel: 3})

	low, ok := service.GetLowStockProducts(ctx).Payload()
	require.True(t, ok)
	names := make([]string, 0, len(low))
	for _, p := range low {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Lowest", "First", "Second", "Third"}, names)
}

func TestProductService_CanceledContextIs500(t *testing.T) {
	service, _ := seededService(t, nil, services.WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := service.GetAllProducts(ctx)

	assert.False(t, env.Success)
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
	assert.Contains(t, env.Message, context.Canceled.Error())
}
