package handler

import (
	"context"
	"time"

	"skillstack/internal/delivery/http/dto"
	"skillstack/internal/delivery/http/middleware"
	"skillstack/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler builds the health check. cache may be nil.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if h.db == nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.KindInternal, "database unavailable", nil)
	}
	if err := h.db.Ping(ctx); err != nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.KindInternal, "database unavailable", err)
	}

	res := dto.HealthResponse{Status: "ok", Database: "ok", Cache: "disabled"}
	if h.cache != nil {
		res.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			res.Cache = "unavailable"
		}
	}
	return response.JSON(c, fiber.StatusOK, res)
}
