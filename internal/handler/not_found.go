package handler

import (
	"fmt"

	"risk-scorecard/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// NotFound answers requests that matched no route, so they get the same
// error body as every other failure. Register it after all routes.
func NotFound(c *fiber.Ctx) error {
	return domain.NewNotFoundError(fmt.Sprintf("no route for %s %s", c.Method(), c.Path()))
}
