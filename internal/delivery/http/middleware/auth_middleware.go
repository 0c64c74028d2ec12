package middleware

import (
	"errors"
	"strings"

	"skillstack/internal/pkg/jwt"
	"skillstack/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const CtxSubjectKey = "subject"

// AuthMiddleware requires a valid bearer token. It is mounted only on the
// routes that change data or spend provider quota.
type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, "Unauthorized", `Bearer realm="skillstack"`, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return unauthorized(c, "Token expired", `Bearer error="invalid_token", error_description="token expired"`, err)
		case err != nil:
			return unauthorized(c, "Invalid token", `Bearer error="invalid_token"`, err)
		}

		c.Locals(CtxSubjectKey, claims.Subject)
		return c.Next()
	}
}

// Subject returns the authenticated token subject, or "" on open routes.
func Subject(c fiber.Ctx) string {
	s, _ := c.Locals(CtxSubjectKey).(string)
	return s
}

func unauthorized(c fiber.Ctx, msg, challenge string, cause error) error {
	c.Set(fiber.HeaderWWWAuthenticate, challenge)
	return NewAppError(fiber.StatusUnauthorized, response.KindUnauthorized, msg, cause)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
