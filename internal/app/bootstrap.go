package app

import (
	"fmt"
	"strings"

	"skillstack/internal/config"
	"skillstack/internal/delivery/http/handler"
	"skillstack/internal/delivery/http/middleware"
	"skillstack/internal/delivery/http/routes"
	"skillstack/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application around an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
	app.Use(cors.New(cors.Config{AllowOrigins: splitOrigins(c.Config.App.CORSAllowOrigins)}))
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	reg := &routes.Registry{
		Health:                 handler.NewHealthHandler(c.DB, cachePinger(c)),
		Skills:                 handler.NewSkillHandler(c.Skills),
		Summarize:              handler.NewSummarizeHandler(c.Summarizer),
		WS:                     ws.NewHandler(c.Hub, splitOrigins(c.Config.App.CORSAllowOrigins), c.Logger),
		SummarizeRatePerMinute: c.Config.Summarizer.RateLimitPerMinute,
	}
	if c.JWT != nil {
		reg.Auth = middleware.NewAuthMiddleware(c.JWT)
	}
	reg.Register(app)
}

func cachePinger(c *Container) handler.Pinger {
	if c.Cache == nil || !c.Cache.Enabled() {
		return nil
	}
	return c.Cache
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
