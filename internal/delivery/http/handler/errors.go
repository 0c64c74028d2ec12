package handler

import (
	"errors"
	"strings"

	"skillstack/internal/delivery/http/middleware"
	"skillstack/internal/pkg/response"
	"skillstack/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// toAppError classifies a usecase error for the error middleware.
func toAppError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrMissingField):
		return middleware.NewAppError(fiber.StatusBadRequest, response.KindMissingField, err.Error(), nil)
	case errors.Is(err, usecase.ErrInvalidField):
		return middleware.NewAppError(fiber.StatusBadRequest, response.KindInvalidField, err.Error(), nil)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.KindNotFound, "Skill not found", nil)
	case errors.Is(err, usecase.ErrNotConfigured):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.KindNotConfigured, "API key is not configured on the server.", nil)
	case errors.Is(err, usecase.ErrProviderFailure):
		msg := strings.TrimPrefix(err.Error(), usecase.ErrProviderFailure.Error()+": ")
		return middleware.NewAppError(fiber.StatusBadGateway, response.KindProviderError, "Failed to summarize notes: "+msg, nil)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.KindInternal, "", err)
	}
}

func invalidBody(reason string) error {
	return middleware.NewAppError(fiber.StatusBadRequest, response.KindInvalidField, reason, nil)
}

func passThrough(c fiber.Ctx) error {
	return c.Next()
}
