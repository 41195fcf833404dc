package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AnonymousUser owns every session when auth is disabled.
const AnonymousUser = "anonymous"

const userIDKey = "userID"

// Auth verifies an HS256 bearer token and stores its subject as the caller's
// user id. With an empty secret every request passes as AnonymousUser.
func Auth(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error {
			c.Locals(userIDKey, AnonymousUser)
			return c.Next()
		}
	}

	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, "missing bearer token")
		}

		subject, err := parseSubject(tokenString, key)
		if err != nil {
			return unauthorized(c, err.Error())
		}

		c.Locals(userIDKey, subject)
		return c.Next()
	}
}

// UserID returns the authenticated caller, or AnonymousUser.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(userIDKey).(string); ok && id != "" {
		return id
	}
	return AnonymousUser
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func parseSubject(tokenString string, key []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", errors.New("token expired")
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", errors.New("malformed token")
		default:
			return "", errors.New("invalid token")
		}
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}
