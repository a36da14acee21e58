package auth

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

// ContextKey is the fiber.Ctx local holding the parsed *jwt.Token.
const ContextKey = "user"

// userIDClaims are checked in order.
var userIDClaims = []string{"user_id", "_id", "sub"}

// roleClaim names the claim RequireRole compares against.
const roleClaim = "role"

// Middleware rejects requests without a valid HS256 bearer token.
func Middleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ContextKey:    ContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
			})
		},
	})
}

// RequireRole answers 403 unless the token's role claim equals role. It must
// run after Middleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFromCtx(c)
		if err != nil {
			return err
		}
		if got, _ := claims[roleClaim].(string); got == "" || got != role {
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	tok, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || tok == nil {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// UserIDFromCtx extracts the caller's id from the token stored by Middleware.
// A missing token is ErrUnauthorized. A valid token that carries no id claim
// yields an empty id so the service can reject the request as incomplete.
func UserIDFromCtx(c *fiber.Ctx) (string, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", err
	}
	for _, name := range userIDClaims {
		raw, ok := claims[name]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case string:
			if v != "" {
				return v, nil
			}
		case float64:
			return strconv.FormatInt(int64(v), 10), nil
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		default:
			return "", fmt.Errorf("%w: unsupported %s claim type %T", fiber.ErrUnauthorized, name, raw)
		}
	}
	return "", nil
}
