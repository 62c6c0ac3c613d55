package handlers

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"gudang/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler builds the app-level Fiber error handler. Every response
// carries a message field; outside production the raw error and a stack
// trace are added for debugging. Unrecognized errors map to a generic 500
// and are logged server-side only.
func NewErrorHandler(env string) fiber.ErrorHandler {
	dev := env != "production"

	return func(c *fiber.Ctx, err error) error {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fieldErrors := make(map[string]string)
			for _, e := range validationErrors {
				fieldErrors[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			}
			body := fiber.Map{"message": "Validation failed"}
			if dev {
				body["errors"] = fieldErrors
				body["error"] = err.Error()
				body["stack"] = string(debug.Stack())
			}
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}

		if status, ok := domainStatus(err); ok {
			body := fiber.Map{"message": err.Error()}
			if dev {
				body["stack"] = string(debug.Stack())
			}
			return c.Status(status).JSON(body)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			body := fiber.Map{"message": fiberErr.Message}
			if dev {
				body["stack"] = string(debug.Stack())
			}
			return c.Status(fiberErr.Code).JSON(body)
		}

		log.Printf("Unhandled error: %v", err)
		body := fiber.Map{"message": "Internal server error"}
		if dev {
			body["error"] = err.Error()
			body["stack"] = string(debug.Stack())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}

// domainStatus maps the services error taxonomy onto HTTP status codes.
// A product missing from an order payload is a client error (400), while a
// missing resource addressed by URL is a 404.
func domainStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, services.ErrOrderProductNotFound),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrStockNegative),
		errors.Is(err, services.ErrOrderAlreadyReverted):
		return fiber.StatusBadRequest, true
	}
	return 0, false
}
