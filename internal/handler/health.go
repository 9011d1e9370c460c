package handler

import (
	"context"
	"time"

	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/dto"
	"risk-scorecard/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthHandler reports liveness
type HealthHandler struct {
	cache domain.Cache
}

// NewHealthHandler creates a new HealthHandler. cache may be nil.
func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Health godoc
// @Summary Liveness check
// @Description The service stays up without its cache; a failed ping only degrades status
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Cache: "disabled"}
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Cache ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Cache = "unreachable"
		} else {
			resp.Cache = "ok"
		}
	}
	return c.JSON(resp)
}
