package middleware

import (
	"log"
	"strconv"
	"time"

	"skillstack/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// AccessLogMiddleware assigns a request id, records request metrics and
// writes one log line per request. It must run outside the error middleware
// so the logged status is the one the client receives.
type AccessLogMiddleware struct {
	logger *log.Logger
	now    func() time.Time
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger, now: time.Now}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := m.now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		elapsed := m.now().Sub(start)
		status := c.Response().StatusCode()
		route := routeLabel(c)

		metrics.RequestCount.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Method(), route).Observe(elapsed.Seconds())

		// Scrapes would drown out real traffic.
		if route == "/metrics" {
			return err
		}
		m.logger.Printf(
			"http step=access rid=%s ip=%s method=%s path=%s route=%s status=%d latency_ms=%d resp_bytes=%d subject=%q",
			rid, c.IP(), c.Method(), c.OriginalURL(), route, status, elapsed.Milliseconds(), len(c.Response().Body()), Subject(c),
		)
		return err
	}
}

// routeLabel is the matched route pattern, keeping label cardinality bounded.
func routeLabel(c fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return "unmatched"
}
