package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/r4diorusak/InventoryHub/internal/models"
	"github.com/r4diorusak/InventoryHub/internal/response"
)

// HTTPClient calls the product HTTP API.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
}

var _ ProductAPI = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the API rooted at baseURL
// (for example "http://localhost:8080"). A zero timeout waits indefinitely.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// ListProducts calls GET /api/products.
func (c *HTTPClient) ListProducts(ctx context.Context) response.Envelope[[]models.Product] {
	return call[[]models.Product](ctx, c, fiber.MethodGet, "/api/products", nil)
}

// GetProduct calls GET /api/products/{id}.
func (c *HTTPClient) GetProduct(ctx context.Context, id int) response.Envelope[models.Product] {
	return call[models.Product](ctx, c, fiber.MethodGet, productPath(id), nil)
}

// CreateProduct calls POST /api/products.
func (c *HTTPClient) CreateProduct(ctx context.Context, req models.CreateProductRequest) response.Envelope[models.Product] {
	return call[models.Product](ctx, c, fiber.MethodPost, "/api/products", req)
}

// UpdateProduct calls PUT /api/products/{id}.
func (c *HTTPClient) UpdateProduct(ctx context.Context, id int, req models.UpdateProductRequest) response.Envelope[models.Product] {
	return call[models.Product](ctx, c, fiber.MethodPut, productPath(id), req)
}

// DeleteProduct calls DELETE /api/products/{id}.
func (c *HTTPClient) DeleteProduct(ctx context.Context, id int) response.Envelope[bool] {
	return call[bool](ctx, c, fiber.MethodDelete, productPath(id), nil)
}

// ListLowStock calls GET /api/products/low-stock/list.
func (c *HTTPClient) ListLowStock(ctx context.Context) response.Envelope[[]models.Product] {
	return call[[]models.Product](ctx, c, fiber.MethodGet, "/api/products/low-stock/list", nil)
}

func productPath(id int) string {
	return fmt.Sprintf("/api/products/%d", id)
}

// call performs one request and decodes the envelope. Network, encoding and
// decoding failures come back as status-0 envelopes.
func call[T any](ctx context.Context, c *HTTPClient, method, path string, body any) response.Envelope[T] {
	if err := ctx.Err(); err != nil {
		return response.TransportFailure[T]("Request canceled: " + err.Error())
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return response.TransportFailure[T]("Network error: " + err.Error())
	}
	if body != nil {
		agent.JSON(body)
	}
	if timeout := c.timeoutFor(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}

	// Bytes releases the agent.
	code, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return response.TransportFailure[T]("Network error: " + errs[0].Error())
	}

	var env response.Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return response.TransportFailure[T](fmt.Sprintf("Failed to decode response (HTTP %d): %v", code, err))
	}
	if env.StatusCode == 0 && env.Timestamp.IsZero() {
		return response.TransportFailure[T](fmt.Sprintf("Unexpected response from server (HTTP %d)", code))
	}
	if env.Errors == nil {
		env.Errors = map[string][]string{}
	}
	return env
}

// timeoutFor picks the tighter of the client timeout and the context deadline.
func (c *HTTPClient) timeoutFor(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			remaining = time.Millisecond
		}
		if timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}
