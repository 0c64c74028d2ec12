package handler

import (
	"encoding/json"

	"skillstack/internal/delivery/http/dto"
	"skillstack/internal/pkg/response"
	"skillstack/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SummarizeHandler struct {
	uc usecase.SummarizeUsecase
}

func NewSummarizeHandler(uc usecase.SummarizeUsecase) *SummarizeHandler {
	return &SummarizeHandler{uc: uc}
}

// RegisterRoutes mounts the endpoint behind guard and limit; either may be nil.
func (h *SummarizeHandler) RegisterRoutes(r fiber.Router, guard, limit fiber.Handler) {
	if r == nil {
		return
	}
	if guard == nil {
		guard = passThrough
	}
	if limit == nil {
		limit = passThrough
	}
	r.Post("/summarize-notes", guard, limit, h.Summarize)
}

// Summarize treats a missing or null notes key as empty notes.
func (h *SummarizeHandler) Summarize(c fiber.Ctx) error {
	var notes string
	if body := c.Body(); len(body) > 0 {
		var req dto.SummarizeRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return invalidBody("request body must be a JSON object")
		}
		if len(req.Notes) > 0 && string(req.Notes) != "null" {
			if err := json.Unmarshal(req.Notes, &notes); err != nil {
				return invalidBody("notes: must be a string")
			}
		}
	}

	summary, err := h.uc.Summarize(c.Context(), notes)
	if err != nil {
		return toAppError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.SummarizeResponse{Summary: summary})
}
