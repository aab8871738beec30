// FILE: internal/pkg/serverutils/service_auth_middleware.go
package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ServiceAuthMiddleware guards service-to-service endpoints with a shared
// JWT secret. When SERVICE_JWT_SECRET is unset the check is disabled, which
// is the expected mode for local development.
func ServiceAuthMiddleware(ctx *fiber.Ctx) error {
	secret := os.Getenv("SERVICE_JWT_SECRET")
	if secret == "" {
		return ctx.Next()
	}

	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}

	ctx.Locals("service", claims["sub"])
	return ctx.Next()
}
