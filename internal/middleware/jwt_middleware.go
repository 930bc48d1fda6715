package middleware

import (
	"context"
	"strings"

	"celenk/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminCookieName is the cookie carrying the admin session token.
const AdminCookieName = "admin_session"

const adminClaimsKey = "admin_claims"

// TokenValidator checks a session token.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*services.AdminClaims, error)
}

// AdminSession reads the session token from the admin_session cookie or an
// "Authorization: Bearer" header and stores the claims of a valid token in
// the request locals. It never rejects a request; see AdminRequired.
func AdminSession(validator TokenValidator, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return c.Next()
		}

		claims, err := validator.ValidateToken(c.UserContext(), token)
		if err != nil {
			logger.Debug("admin session rejected", zap.String("path", c.Path()), zap.Error(err))
			return c.Next()
		}
		c.Locals(adminClaimsKey, claims)
		return c.Next()
	}
}

func sessionToken(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Cookies(AdminCookieName)
}

// AdminRequired answers 401 unless AdminSession accepted a token.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentAdmin(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Admin session required",
				"error":   services.ErrUnauthorized.Error(),
			})
		}
		return c.Next()
	}
}

// CurrentAdmin returns the claims of the admin session, if any.
func CurrentAdmin(c *fiber.Ctx) (*services.AdminClaims, bool) {
	claims, ok := c.Locals(adminClaimsKey).(*services.AdminClaims)
	return claims, ok && claims != nil
}
