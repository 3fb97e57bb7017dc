package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/r4diorusak/InventoryHub/internal/models"
	"github.com/r4diorusak/InventoryHub/internal/response"
	"github.com/r4diorusak/InventoryHub/internal/services"
)

// ProductHandler handles HTTP requests for products.
// It only checks request shape; the service decides every outcome.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/low-stock/list", h.HandleGetLowStockProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists active products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	return respond(c, h.service.GetAllProducts(c.UserContext()))
}

// HandleGetLowStockProducts lists products at or below their reorder level.
func (h *ProductHandler) HandleGetLowStockProducts(c *fiber.Ctx) error {
	return respond(c, h.service.GetLowStockProducts(c.UserContext()))
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return respond(c, invalidID[models.Product]())
	}
	return respond(c, h.service.GetProductByID(c.UserContext(), id))
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return respond(c, response.Failure[models.Product]("Invalid request body: "+err.Error(), fiber.StatusBadRequest))
	}
	req.Normalize()
	if field, message := req.RequiredFieldError(); field != "" {
		return respond(c, response.ValidationFailure[models.Product](message, map[string][]string{field: {message}}))
	}
	if errs := fieldErrors(h.validate, req); errs != nil {
		return respond(c, response.ValidationFailure[models.Product]("Validation failed", errs))
	}
	return respond(c, h.service.CreateProduct(c.UserContext(), req))
}

// HandleUpdateProduct applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return respond(c, invalidID[models.Product]())
	}

	// An empty body is an empty patch.
	var req models.UpdateProductRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			log.Printf("Error parsing update body for product %d: %v", id, err)
			return respond(c, response.Failure[models.Product]("Invalid request body: "+err.Error(), fiber.StatusBadRequest))
		}
	}
	req.Normalize()
	if errs := fieldErrors(h.validate, req); errs != nil {
		return respond(c, response.ValidationFailure[models.Product]("Validation failed", errs))
	}
	return respond(c, h.service.UpdateProduct(c.UserContext(), id, req))
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return respond(c, invalidID[bool]())
	}
	return respond(c, h.service.DeleteProduct(c.UserContext(), id))
}

func productID(c *fiber.Ctx) (int, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID[T any]() response.Envelope[T] {
	return response.Failure[T]("Product ID must be a positive integer", fiber.StatusBadRequest)
}

func respond[T any](c *fiber.Ctx, env response.Envelope[T]) error {
	return c.Status(env.StatusCode).JSON(env)
}
