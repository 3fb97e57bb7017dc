package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/r4diorusak/InventoryHub/internal/response"
)

// ErrorHandler renders errors that escape routing (unknown routes, wrong
// methods, recovered panics) in the same envelope shape as the API.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(response.Failure[any](err.Error(), code))
}
