// Package middleware provides authentication, session, rate limiting and
// logging middleware for the application.
package middleware

import (
	"strconv"
	"strings"
	"time"

	"smakosz/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var cfg *config.Config

// GuestSessionCookie names the cookie carrying the anonymous visitor's
// session ID, used to key the session-backed cart.
const GuestSessionCookie = "guest_session"

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired enforces a valid bearer token and stores the user ID in locals.
func AuthRequired(c *fiber.Ctx) error {
	userID, err := userIDFromBearer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("userID", userID)
	return c.Next()
}

// OptionalAuth resolves the user ID when a bearer token is present but lets
// anonymous requests through. Cart and comment endpoints accept both kinds of
// visitor and pick their storage/author strategy from the result.
func OptionalAuth(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}

	userID, err := userIDFromBearer(c)
	if err != nil {
		// A malformed token on an optional route is still rejected; silently
		// downgrading to guest would mask client bugs.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("userID", userID)
	return c.Next()
}

// GuestSession ensures anonymous visitors carry a session cookie so their
// cart survives across requests. Authenticated requests pass through
// untouched; their cart lives in the database instead.
func GuestSession(ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("userID") != nil {
			return c.Next()
		}

		sid := c.Cookies(GuestSessionCookie)
		if sid == "" {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     GuestSessionCookie,
				Value:    sid,
				Expires:  time.Now().Add(ttl),
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}
		c.Locals("sessionID", sid)
		return c.Next()
	}
}

func userIDFromBearer(c *fiber.Ctx) (uint, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	// User ID travels in the "sub" claim (RFC 7519 subject).
	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject")
	}

	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	return uint(userID), nil
}
