package middleware

import (
	"risk-scorecard/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedSessionIDKey is the fiber local holding a validated session id
const ValidatedSessionIDKey = "validated_session_id"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateSessionID validates the :id path parameter
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errors := vm.validator.ValidateSessionID(id); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler
		}

		c.Locals(ValidatedSessionIDKey, id)
		return c.Next()
	}
}

// ValidateExportFormat validates the format query parameter, defaulting to Markdown
func (vm *ValidationMiddleware) ValidateExportFormat() fiber.Handler {
	return func(c *fiber.Ctx) error {
		format := c.Query("format", "md")
		if errors := vm.validator.ValidateExportFormat(format); len(errors) > 0 {
			return errors
		}

		c.Locals("validated_format", format)
		return c.Next()
	}
}
