package middleware

import (
	"context"
	"strings"

	"gudang/internal/models"
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	userIDKey = "user_id"
	userKey   = "user"
)

// SessionValidator resolves a session token to its user.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired rejects the request with 401 unless it carries a live
// session, either as "Authorization: Bearer <token>" or as the signed
// session cookie. The resolved user is stored in the request locals.
func AuthRequired(validator SessionValidator, signer *services.SessionSigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := sessionToken(c, signer)
		if !ok {
			return unauthorized(c)
		}

		user, err := validator.ValidateSession(c.UserContext(), token)
		if err != nil || user == nil {
			return unauthorized(c)
		}

		c.Locals(userIDKey, user.ID)
		c.Locals(userKey, user)
		return c.Next()
	}
}

func sessionToken(c *fiber.Ctx, signer *services.SessionSigner) (string, bool) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if signer == nil {
		return "", false
	}
	cookie := c.Cookies(services.SessionCookieName)
	if cookie == "" {
		return "", false
	}
	id, err := signer.Verify(cookie)
	if err != nil {
		return "", false
	}
	return id, true
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Unauthorized",
	})
}

// CurrentUser returns the user resolved by AuthRequired.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// CurrentUserID returns the id of the user resolved by AuthRequired.
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
