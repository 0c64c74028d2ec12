package routes

import (
	"time"

	"skillstack/internal/delivery/http/handler"
	"skillstack/internal/delivery/http/middleware"
	"skillstack/internal/pkg/response"
	"skillstack/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	Health    *handler.HealthHandler
	Skills    *handler.SkillHandler
	Summarize *handler.SummarizeHandler
	WS        *ws.Handler

	// Auth guards mutating routes when set.
	Auth *middleware.AuthMiddleware
	// SummarizeRatePerMinute caps summarize calls per client IP; 0 disables it.
	SummarizeRatePerMinute int
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	var guard fiber.Handler
	if r.Auth != nil {
		guard = r.Auth.Middleware()
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if r.Skills != nil {
		r.Skills.RegisterRoutes(app, guard)
	}
	if r.Summarize != nil {
		r.Summarize.RegisterRoutes(app, guard, r.summarizeLimiter())
	}
	if r.WS != nil {
		r.WS.RegisterRoutes(app)
	}
}

func (r *Registry) summarizeLimiter() fiber.Handler {
	if r.SummarizeRatePerMinute <= 0 {
		return nil
	}
	return limiter.New(limiter.Config{
		Max:        r.SummarizeRatePerMinute,
		Expiration: time.Minute,
		LimitReached: func(c fiber.Ctx) error {
			return middleware.NewAppError(fiber.StatusTooManyRequests, response.KindRateLimited, "Too many summarize requests", nil)
		},
	})
}
