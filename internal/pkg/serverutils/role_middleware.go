package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// RoleMiddleware allows only the given roles through. It reads the role
// JwtMiddleware stored in locals, so stack it after JwtMiddleware.
func RoleMiddleware(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role, _ := ctx.Locals("role").(string)
		for _, allowed := range roles {
			if role == allowed {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(403, "Access denied"))
	}
}
