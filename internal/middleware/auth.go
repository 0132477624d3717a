// Package middleware provides authentication, logging and rate limiting
// middleware for the application.
package middleware

import (
	"strconv"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "yatube-api"
	tokenAudience = "yatube-client"
)

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 72 * time.Hour

// GenerateToken issues a signed JWT for the user.
func GenerateToken(userID uint, secret string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// UserIDFromRequest extracts and validates the bearer token, returning the
// authenticated user ID. It does not enforce authentication.
func UserIDFromRequest(c *fiber.Ctx, secret string) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}

// RequireAuth returns middleware enforcing a valid bearer token and storing
// the user ID in c.Locals("userID").
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserIDFromRequest(c, secret)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// OptionalAuth stores the user ID when a valid bearer token is present but
// lets anonymous requests through.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := UserIDFromRequest(c, secret); ok {
			c.Locals("userID", userID)
		}
		return c.Next()
	}
}
